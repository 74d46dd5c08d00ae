package service

import (
	"context"
	"errors"
	"testing"

	"friterie/internal/domain"
	"friterie/internal/repository"
)

func setupOrders(t *testing.T) (*OrderService, *repository.MemoryOrders) {
	t.Helper()
	store := repository.NewMemoryStore()
	orders := repository.NewMemoryOrders(store)
	return NewOrderService(orders, testLogger()), orders
}

func orderWithStatus(t *testing.T, orders *repository.MemoryOrders, status domain.OrderStatus) *domain.Order {
	t.Helper()
	o := &domain.Order{Status: status, OrderType: domain.OrderTypeKiosk}
	if err := orders.Create(context.Background(), o); err != nil {
		t.Fatal(err)
	}
	return o
}

func TestUpdateStatus_LegalChain(t *testing.T) {
	ctx := context.Background()
	svc, orders := setupOrders(t)
	o := orderWithStatus(t, orders, domain.StatusPaid)

	if err := svc.UpdateStatus(ctx, o.ID, domain.StatusPreparing); err != nil {
		t.Fatalf("paid→preparing: %v", err)
	}
	if err := svc.UpdateStatus(ctx, o.ID, domain.StatusReady); err != nil {
		t.Fatalf("preparing→ready: %v", err)
	}
	got, _ := orders.GetByID(ctx, o.ID)
	if got.Status != domain.StatusReady {
		t.Fatalf("status = %s", got.Status)
	}
}

func TestUpdateStatus_IllegalEdgesRejectedWithoutMutation(t *testing.T) {
	ctx := context.Background()
	svc, orders := setupOrders(t)

	cases := []struct {
		current domain.OrderStatus
		target  domain.OrderStatus
	}{
		{domain.StatusReady, domain.StatusPreparing},        // no reverting
		{domain.StatusPaid, domain.StatusReady},             // no skipping preparing
		{domain.StatusPendingPayment, domain.StatusPreparing}, // must pass through paid
		{domain.StatusPending, domain.StatusPaid},           // webhook-only edge
	}
	for _, c := range cases {
		o := orderWithStatus(t, orders, c.current)
		err := svc.UpdateStatus(ctx, o.ID, c.target)
		var illegal *domain.IllegalTransitionError
		if !errors.As(err, &illegal) {
			t.Fatalf("%s→%s: expected IllegalTransitionError, got %v", c.current, c.target, err)
		}
		if illegal.From != c.current || illegal.To != c.target {
			t.Fatalf("error names wrong edge: %v", illegal)
		}
		got, _ := orders.GetByID(ctx, o.ID)
		if got.Status != c.current {
			t.Fatalf("%s→%s: status mutated to %s", c.current, c.target, got.Status)
		}
	}
}

func TestMarkAsPaid(t *testing.T) {
	ctx := context.Background()
	svc, orders := setupOrders(t)

	o := orderWithStatus(t, orders, domain.StatusPendingPayment)
	if err := svc.MarkAsPaid(ctx, o.ID); err != nil {
		t.Fatalf("mark as paid: %v", err)
	}
	got, _ := orders.GetByID(ctx, o.ID)
	if got.Status != domain.StatusPaid {
		t.Fatalf("status = %s", got.Status)
	}

	// second confirmation is an illegal transition, not a silent no-op:
	// staff should see that the order already moved on
	err := svc.MarkAsPaid(ctx, o.ID)
	var illegal *domain.IllegalTransitionError
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalTransitionError, got %v", err)
	}

	online := orderWithStatus(t, orders, domain.StatusPending)
	if err := svc.MarkAsPaid(ctx, online.ID); !errors.As(err, &illegal) {
		t.Fatalf("online pending order must not be manually payable, got %v", err)
	}
}

func TestList_HidesPendingByDefault(t *testing.T) {
	ctx := context.Background()
	svc, orders := setupOrders(t)
	orderWithStatus(t, orders, domain.StatusPending)
	orderWithStatus(t, orders, domain.StatusPaid)
	orderWithStatus(t, orders, domain.StatusReady)

	list, err := svc.List(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("default list = %d orders, want 2", len(list))
	}
	for _, o := range list {
		if o.Status == domain.StatusPending {
			t.Fatalf("pending order leaked into staff view")
		}
	}

	paid := domain.StatusPaid
	filtered, err := svc.List(ctx, &paid)
	if err != nil || len(filtered) != 1 {
		t.Fatalf("filtered list = %d (%v)", len(filtered), err)
	}
}

func TestGet_Validation(t *testing.T) {
	svc, _ := setupOrders(t)
	if _, err := svc.Get(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
