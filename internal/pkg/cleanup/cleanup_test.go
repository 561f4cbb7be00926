package cleanup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultRecord(t *testing.T) {
	r := &Result{}
	r.record(1, nil)
	r.record(2, errors.New("orders delete failed"))
	r.record(3, nil)

	assert.Equal(t, 2, r.Deleted)
	assert.Equal(t, 1, r.Skipped)
	assert.Len(t, r.Outcomes, 3)

	assert.True(t, r.Outcomes[0].Deleted)
	assert.Empty(t, r.Outcomes[0].Error)

	assert.False(t, r.Outcomes[1].Deleted)
	assert.Equal(t, uint(2), r.Outcomes[1].ID)
	assert.Equal(t, "orders delete failed", r.Outcomes[1].Error)
}
