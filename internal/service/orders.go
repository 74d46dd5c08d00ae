package service

import (
	"context"
	"log/slog"

	"friterie/internal/domain"
	"friterie/internal/repository"
)

// OrderService exposes order reads and the guarded status transitions
// used by the admin dashboard.
type OrderService struct {
	orders repository.OrderRepository
	log    *slog.Logger
}

func NewOrderService(orders repository.OrderRepository, log *slog.Logger) *OrderService {
	return &OrderService{orders: orders, log: log}
}

// Get returns one order; the confirmation page polls this for status.
func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.orders.GetByID(ctx, id)
}

// List returns orders for the dashboard, newest first. Without an
// explicit status filter, transient pending online orders are hidden:
// they are either about to become paid via webhook or abandoned.
func (s *OrderService) List(ctx context.Context, status *domain.OrderStatus) ([]domain.Order, error) {
	f := repository.OrderFilter{Status: status}
	if status == nil {
		f.ExcludePending = true
	}
	return s.orders.List(ctx, f)
}

// UpdateStatus applies one staff-requested transition. The edge must be
// in the legal table, and the write is conditional on the status the
// decision was made against, so two concurrent clicks cannot
// double-advance an order.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, next domain.OrderStatus) error {
	if id == "" || !next.Valid() {
		return ErrInvalidInput
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return unavailable(err)
	}
	if !domain.CanTransition(o.Status, next) {
		return &domain.IllegalTransitionError{From: o.Status, To: next}
	}
	if err := s.orders.UpdateStatus(ctx, id, o.Status, next); err != nil {
		return unavailable(err)
	}
	s.log.Info("order status updated", "order_id", id, "from", o.Status, "to", next)
	return nil
}

// MarkAsPaid is the manual register confirmation for kiosk orders. It is
// deliberately separate from the webhook transition: same target state,
// different source state and different authorization model.
func (s *OrderService) MarkAsPaid(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return unavailable(err)
	}
	if o.Status != domain.StatusPendingPayment {
		return &domain.IllegalTransitionError{From: o.Status, To: domain.StatusPaid}
	}
	if err := s.orders.UpdateStatus(ctx, id, domain.StatusPendingPayment, domain.StatusPaid); err != nil {
		return unavailable(err)
	}
	s.log.Info("order marked as paid at register", "order_id", id)
	return nil
}
