package payments

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// StripeEvent is the outer webhook envelope.
type StripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// CheckoutCompletedEvent is the data.object of a completed checkout session.
type CheckoutCompletedEvent struct {
	SessionID      string
	Mode           string
	AmountTotal    int64
	SubscriptionID string
	Metadata       map[string]string
}

// SubscriptionEvent is the data.object of a subscription lifecycle event.
type SubscriptionEvent struct {
	SubscriptionID     string
	Status             string
	CancelAtPeriodEnd  bool
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
	Metadata           map[string]string
}

// ParseStripeEvent decodes the webhook envelope.
func ParseStripeEvent(payload []byte) (*StripeEvent, error) {
	var event StripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	if event.Type == "" {
		return nil, errors.New("event type missing")
	}
	return &event, nil
}

// CheckoutCompleted decodes the session object of a checkout.session.completed event.
func (e *StripeEvent) CheckoutCompleted() (*CheckoutCompletedEvent, error) {
	if e.Type != EventCheckoutCompleted {
		return nil, errors.New("not a checkout.session.completed event")
	}

	var object struct {
		ID           string            `json:"id"`
		Mode         string            `json:"mode"`
		AmountTotal  int64             `json:"amount_total"`
		Subscription string            `json:"subscription"`
		Metadata     map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(e.Data.Object, &object); err != nil {
		return nil, err
	}
	if object.ID == "" {
		return nil, errors.New("checkout session id missing")
	}

	return &CheckoutCompletedEvent{
		SessionID:      object.ID,
		Mode:           object.Mode,
		AmountTotal:    object.AmountTotal,
		SubscriptionID: object.Subscription,
		Metadata:       object.Metadata,
	}, nil
}

// Subscription decodes the object of a customer.subscription.* event.
func (e *StripeEvent) Subscription() (*SubscriptionEvent, error) {
	if e.Type != EventSubscriptionUpdated && e.Type != EventSubscriptionDeleted {
		return nil, errors.New("not a subscription event")
	}

	var object struct {
		ID                 string            `json:"id"`
		Status             string            `json:"status"`
		CancelAtPeriodEnd  bool              `json:"cancel_at_period_end"`
		CurrentPeriodStart int64             `json:"current_period_start"`
		CurrentPeriodEnd   int64             `json:"current_period_end"`
		Metadata           map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(e.Data.Object, &object); err != nil {
		return nil, err
	}
	if object.ID == "" {
		return nil, errors.New("subscription id missing")
	}

	sub := &SubscriptionEvent{
		SubscriptionID:    object.ID,
		Status:            object.Status,
		CancelAtPeriodEnd: object.CancelAtPeriodEnd,
		Metadata:          object.Metadata,
	}
	if object.CurrentPeriodStart > 0 {
		t := time.Unix(object.CurrentPeriodStart, 0)
		sub.CurrentPeriodStart = &t
	}
	if object.CurrentPeriodEnd > 0 {
		t := time.Unix(object.CurrentPeriodEnd, 0)
		sub.CurrentPeriodEnd = &t
	}
	return sub, nil
}

// MetadataUint reads an unsigned id out of event metadata.
func MetadataUint(metadata map[string]string, key string) (uint, bool) {
	raw, ok := metadata[key]
	if !ok || raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

// MetadataInt64 reads a signed amount out of event metadata.
func MetadataInt64(metadata map[string]string, key string) (int64, bool) {
	raw, ok := metadata[key]
	if !ok || raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
