package domain

import "fmt"

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	// StatusPending is an online cart submitted but not yet paid. It is
	// transient and excluded from staff-facing queries.
	StatusPending OrderStatus = "pending"
	// StatusPendingPayment is a kiosk order awaiting manual payment
	// confirmation at the register.
	StatusPendingPayment OrderStatus = "pending_payment"
	StatusPaid           OrderStatus = "paid"
	StatusPreparing      OrderStatus = "preparing"
	// StatusReady is terminal.
	StatusReady OrderStatus = "ready"
)

// Valid reports whether s is one of the known lifecycle states.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPendingPayment, StatusPaid, StatusPreparing, StatusReady:
		return true
	}
	return false
}

// staffTransitions is the guarded table for the admin surface.
// pending→paid is not here: it only happens through the verified payment
// webhook, which is a separate internal operation.
var staffTransitions = map[OrderStatus][]OrderStatus{
	StatusPendingPayment: {StatusPaid},
	StatusPaid:           {StatusPreparing},
	StatusPreparing:      {StatusReady},
}

// CanTransition reports whether a staff-requested from→to edge is legal.
func CanTransition(from, to OrderStatus) bool {
	for _, t := range staffTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// IllegalTransitionError names a rejected status edge.
type IllegalTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}
