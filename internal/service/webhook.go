package service

import (
	"context"
	"errors"
	"log/slog"

	"friterie/internal/payment"
	"friterie/internal/repository"
)

// WebhookService consumes asynchronous payment notifications. It is the
// most defensive layer in the system: an unverified payload must never
// drive a transition, but an irrelevant or replayed event must be
// acknowledged cleanly or the provider redelivers it forever.
type WebhookService struct {
	orders   repository.OrderRepository
	provider payment.Provider
	log      *slog.Logger
}

func NewWebhookService(orders repository.OrderRepository, provider payment.Provider, log *slog.Logger) *WebhookService {
	return &WebhookService{orders: orders, provider: provider, log: log}
}

// HandleDelivery verifies and processes one raw webhook delivery.
//
// Returned errors split three ways for the HTTP layer:
//   - payment.ErrInvalidSignature: reject with a client error, nothing
//     was processed;
//   - any other error: a store failure while applying a verified event;
//     surface a server error so the provider retries;
//   - nil: acknowledged, whether or not anything was applied.
func (s *WebhookService) HandleDelivery(ctx context.Context, body []byte, sigHeader string) error {
	ev, err := s.provider.VerifyWebhook(body, sigHeader)
	if err != nil {
		return err
	}

	if ev.Type != payment.EventCheckoutCompleted {
		return nil
	}
	if ev.OrderID == "" {
		// foreign or malformed session; ack so the provider stops
		s.log.Warn("checkout event without order_id metadata", "session_id", ev.SessionID)
		return nil
	}

	applied, err := s.orders.MarkPaid(ctx, ev.OrderID, ev.PaymentIntentID)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("checkout event for unknown order", "order_id", ev.OrderID)
		return nil
	}
	if err != nil {
		return unavailable(err)
	}
	if !applied {
		s.log.Info("duplicate payment confirmation ignored", "order_id", ev.OrderID)
		return nil
	}
	s.log.Info("order paid", "order_id", ev.OrderID, "payment_intent", ev.PaymentIntentID)
	return nil
}
