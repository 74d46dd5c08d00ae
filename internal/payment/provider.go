package payment

import (
	"context"
	"errors"
)

// ErrInvalidSignature is returned when a webhook payload fails
// authenticity verification. Such payloads are never parsed further.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// LineItem is one charged line of a hosted checkout session. Amounts are
// integer cents and always come from the pricing engine.
type LineItem struct {
	Name      string
	UnitCents int64
	Quantity  int64
}

// Session is a created hosted payment session.
type Session struct {
	ID  string
	URL string
}

// EventCheckoutCompleted is the only event kind that drives a state
// transition; everything else is acknowledged and ignored.
const EventCheckoutCompleted = "checkout.session.completed"

// Event is a verified webhook notification, reduced to the fields the
// order lifecycle needs.
type Event struct {
	Type            string
	OrderID         string
	SessionID       string
	PaymentIntentID string
}

// Provider is the hosted-payment collaborator. The order core only ever
// talks to this interface; tests substitute a fake.
type Provider interface {
	// CreateSession opens a hosted checkout scoped to the given line
	// items, carrying the order id as session metadata. That metadata is
	// the only linkage the webhook path may trust.
	CreateSession(ctx context.Context, items []LineItem, successURL, cancelURL, orderID string) (*Session, error)
	// VerifyWebhook checks the signature over the raw body before any
	// parsing and returns the decoded event, or ErrInvalidSignature.
	VerifyWebhook(payload []byte, sigHeader string) (*Event, error)
}
