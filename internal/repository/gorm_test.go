package repository

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"friterie/internal/domain"
)

func setupGorm(t *testing.T) (*GormStore, *GormOrders) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	store := NewGormStore(db)
	if err := store.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return store, NewGormOrders(store)
}

func TestGormOrders_SequentialNumbers(t *testing.T) {
	ctx := context.Background()
	_, orders := setupGorm(t)

	for i := int64(1); i <= 5; i++ {
		o := domain.Order{Status: domain.StatusPending, OrderType: domain.OrderTypeOnline}
		if err := orders.Create(ctx, &o); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if o.OrderNumber != i {
			t.Fatalf("order number = %d, want %d", o.OrderNumber, i)
		}
	}
}

func TestGormOrders_MarkPaidReplay(t *testing.T) {
	ctx := context.Background()
	_, orders := setupGorm(t)

	o := domain.Order{Status: domain.StatusPending}
	if err := orders.Create(ctx, &o); err != nil {
		t.Fatal(err)
	}

	applied, err := orders.MarkPaid(ctx, o.ID, "pi_1")
	if err != nil || !applied {
		t.Fatalf("first delivery: applied=%v err=%v", applied, err)
	}
	applied, err = orders.MarkPaid(ctx, o.ID, "pi_1")
	if err != nil || applied {
		t.Fatalf("replay: applied=%v err=%v", applied, err)
	}
	if _, err := orders.MarkPaid(ctx, "no-such-order", "pi_1"); err != ErrNotFound {
		t.Fatalf("unknown order: %v", err)
	}

	got, _ := orders.GetByID(ctx, o.ID)
	if got.Status != domain.StatusPaid || got.PaymentIntentID != "pi_1" {
		t.Fatalf("order after replay: %s / %q", got.Status, got.PaymentIntentID)
	}
}

func TestGormOrders_ConditionalStatus(t *testing.T) {
	ctx := context.Background()
	_, orders := setupGorm(t)

	o := domain.Order{Status: domain.StatusPaid}
	if err := orders.Create(ctx, &o); err != nil {
		t.Fatal(err)
	}
	if err := orders.UpdateStatus(ctx, o.ID, domain.StatusPaid, domain.StatusPreparing); err != nil {
		t.Fatalf("legal update: %v", err)
	}
	if err := orders.UpdateStatus(ctx, o.ID, domain.StatusPaid, domain.StatusPreparing); err != ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := orders.UpdateStatus(ctx, "nope", domain.StatusPaid, domain.StatusPreparing); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGormStore_ItemsSurviveRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, orders := setupGorm(t)

	o := domain.Order{
		Status: domain.StatusPending,
		Items: domain.CartItems{
			domain.DishItem{ProductID: "d1", Size: domain.SizeL, Quantity: 2},
			domain.ComposeItem{Size: domain.SizeM, Base: "Riz", Quantity: 1},
		},
		TotalCents: 3500,
	}
	if err := orders.Create(ctx, &o); err != nil {
		t.Fatal(err)
	}
	got, err := orders.GetByID(ctx, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(got.Items))
	}
	if got.Items[0].Kind() != domain.KindDish || got.Items[1].Kind() != domain.KindCompose {
		t.Fatalf("kinds did not survive: %s, %s", got.Items[0].Kind(), got.Items[1].Kind())
	}
}
