package service

import (
	"context"
	"fmt"
	"log/slog"

	"friterie/internal/domain"
	"friterie/internal/payment"
	"friterie/internal/pricing"
	"friterie/internal/repository"
)

// CheckoutService creates pending orders and opens hosted payment
// sessions for them. The input carries no prices anywhere: the total is
// always recomputed from the catalog, so a tampered client simply cannot
// influence what is charged.
type CheckoutService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	provider payment.Provider
	baseURL  string
	log      *slog.Logger
}

func NewCheckoutService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	provider payment.Provider,
	baseURL string,
	log *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		products: products,
		orders:   orders,
		provider: provider,
		baseURL:  baseURL,
		log:      log,
	}
}

// CreateSession prices the cart, inserts a pending order and returns the
// hosted checkout redirect URL.
//
// Failure order matters: nothing is written before pricing succeeds, and
// no payment session exists for an order that was never inserted. A
// provider failure after the insert leaves the order in pending, which
// is inert — staff queries exclude it and no charge happened.
func (s *CheckoutService) CreateSession(ctx context.Context, items domain.CartItems, customerName, customerPhone, locale string) (string, error) {
	if len(items) == 0 {
		return "", ErrEmptyCart
	}

	catalog, err := s.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return "", unavailable(err)
	}
	quotes, total, err := pricing.Quote(items, pricing.SnapshotOf(catalog))
	if err != nil {
		return "", err
	}

	order := &domain.Order{
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		Items:         items,
		TotalCents:    total,
		Status:        domain.StatusPending,
		OrderType:     domain.OrderTypeOnline,
		Locale:        locale,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.log.Error("order insert failed", "error", err)
		return "", ErrOrderCreation
	}

	lineItems := make([]payment.LineItem, len(quotes))
	for i, q := range quotes {
		lineItems[i] = payment.LineItem{Name: q.Label, UnitCents: q.UnitCents, Quantity: q.Quantity}
	}
	successURL := fmt.Sprintf("%s/%s/order/confirmation/%s", s.baseURL, locale, order.ID)
	cancelURL := fmt.Sprintf("%s/%s/order/checkout", s.baseURL, locale)

	sess, err := s.provider.CreateSession(ctx, lineItems, successURL, cancelURL, order.ID)
	if err != nil {
		s.log.Error("checkout session failed, order left pending",
			"order_id", order.ID, "error", err)
		return "", ErrCheckoutSession
	}

	// The webhook links by session metadata, so a failure here only
	// loses the back-reference on the order row.
	if err := s.orders.SetSessionID(ctx, order.ID, sess.ID); err != nil {
		s.log.Warn("could not persist session id", "order_id", order.ID, "error", err)
	}

	s.log.Info("checkout session created",
		"order_id", order.ID, "order_number", order.OrderNumber,
		"total_cents", total, "session_id", sess.ID)
	return sess.URL, nil
}
