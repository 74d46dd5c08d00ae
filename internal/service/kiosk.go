package service

import (
	"context"
	"errors"
	"log/slog"

	"friterie/internal/domain"
	"friterie/internal/pricing"
	"friterie/internal/repository"
)

// kioskCustomerName is the placeholder recorded for terminal orders.
const kioskCustomerName = "Kiosk"

// KioskService is the payment-free order intake for terminal hardware.
// Authorization is the terminal token, not a payment flow; orders land
// in pending_payment and are settled manually at the register.
type KioskService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	tokens   repository.KioskTokenRepository
	tx       repository.TxManager
	log      *slog.Logger
}

func NewKioskService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	tokens repository.KioskTokenRepository,
	tx repository.TxManager,
	log *slog.Logger,
) *KioskService {
	return &KioskService{products: products, orders: orders, tokens: tokens, tx: tx, log: log}
}

// VerifyToken reports whether a terminal credential is known and active,
// refreshing its last-used timestamp when it is.
func (s *KioskService) VerifyToken(ctx context.Context, token string) (bool, error) {
	t, err := s.tokens.GetByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, unavailable(err)
	}
	if !t.IsActive {
		return false, nil
	}
	if err := s.tokens.TouchLastUsed(ctx, t.ID); err != nil {
		s.log.Warn("could not touch kiosk token", "token_id", t.ID, "error", err)
	}
	return true, nil
}

// CreateOrder prices the cart exactly like the online flow and inserts a
// pending_payment order tied to the terminal. It returns the assigned
// order number — the printable ticket reference — never the internal id.
func (s *KioskService) CreateOrder(ctx context.Context, items domain.CartItems, token, locale string) (int64, error) {
	if len(items) == 0 {
		return 0, ErrEmptyCart
	}

	t, err := s.tokens.GetByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, ErrUnauthorizedTerminal
	}
	if err != nil {
		return 0, unavailable(err)
	}
	if !t.IsActive {
		return 0, ErrUnauthorizedTerminal
	}

	catalog, err := s.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return 0, unavailable(err)
	}
	_, total, err := pricing.Quote(items, pricing.SnapshotOf(catalog))
	if err != nil {
		return 0, err
	}

	order := &domain.Order{
		CustomerName: kioskCustomerName,
		Items:        items,
		TotalCents:   total,
		Status:       domain.StatusPendingPayment,
		OrderType:    domain.OrderTypeKiosk,
		KioskTokenID: t.ID,
		Locale:       locale,
	}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.orders.Create(ctx, order); err != nil {
			return err
		}
		return s.tokens.TouchLastUsed(ctx, t.ID)
	})
	if err != nil {
		s.log.Error("kiosk order insert failed", "token_id", t.ID, "error", err)
		return 0, ErrOrderCreation
	}

	s.log.Info("kiosk order created",
		"order_id", order.ID, "order_number", order.OrderNumber,
		"total_cents", total, "token_id", t.ID)
	return order.OrderNumber, nil
}
