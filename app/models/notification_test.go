package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeNotificationDataRejectsUnknownType(t *testing.T) {
	_, err := EncodeNotificationData("poke", SystemData{Message: "hi"})
	assert.Error(t, err)
}

func TestEncodeNotificationDataRejectsMismatchedPayload(t *testing.T) {
	_, err := EncodeNotificationData(NotificationTypeSale, SystemData{Message: "hi"})
	assert.Error(t, err)
}

func TestNotificationDataRoundTrip(t *testing.T) {
	encoded, err := EncodeNotificationData(NotificationTypeListingRemoval, ListingRemovalData{
		ListingID:    42,
		ListingTitle: "Pixel icon pack",
		RemovalAt:    time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	n := &Notification{Type: NotificationTypeListingRemoval, DataJSON: encoded}
	decoded, err := n.DecodeData()
	require.NoError(t, err)

	data, ok := decoded.(ListingRemovalData)
	require.True(t, ok)
	assert.Equal(t, uint(42), data.ListingID)
	assert.Equal(t, "Pixel icon pack", data.ListingTitle)
}

func TestDecodeDataUnknownType(t *testing.T) {
	n := &Notification{Type: "mystery", DataJSON: "{}"}
	_, err := n.DecodeData()
	assert.Error(t, err)
}
