package service

import (
	"context"
	"errors"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrOrderCreation        = errors.New("failed to create order")
	ErrCheckoutSession      = errors.New("failed to create checkout session")
	ErrUnauthorizedTerminal = errors.New("invalid or inactive kiosk token")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	// ErrUnavailable marks a transient dependency failure; the caller
	// may safely retry, no partial mutation happened.
	ErrUnavailable = errors.New("service unavailable")
)

// unavailable folds dependency timeouts into ErrUnavailable so callers
// see one retry-safe error kind.
func unavailable(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrUnavailable
	}
	return err
}
