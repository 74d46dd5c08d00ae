package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"friterie/internal/domain"
	"friterie/internal/payment"
	"friterie/internal/repository"
)

// fakeProvider records session requests and replays canned webhook
// events.
type fakeProvider struct {
	createErr   error
	created     int
	lastItems   []payment.LineItem
	lastOrderID string
	lastSuccess string
	lastCancel  string

	event     *payment.Event
	verifyErr error
}

var _ payment.Provider = (*fakeProvider)(nil)

func (f *fakeProvider) CreateSession(ctx context.Context, items []payment.LineItem, successURL, cancelURL, orderID string) (*payment.Session, error) {
	f.created++
	f.lastItems = items
	f.lastOrderID = orderID
	f.lastSuccess = successURL
	f.lastCancel = cancelURL
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &payment.Session{ID: "cs_test_1", URL: "https://pay.example/cs_test_1"}, nil
}

func (f *fakeProvider) VerifyWebhook(payload []byte, sigHeader string) (*payment.Event, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.event, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func cents(v int64) *int64 { return &v }

// seedCatalog inserts one product per category and returns the store.
func seedCatalog(t *testing.T, store *repository.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	products := []domain.Product{
		{
			ID: "dish-1", Category: domain.CategoryDish, Name: "Original",
			PriceM: cents(900), PriceL: cents(1300), PriceXL: cents(1700),
			IsAvailable: true,
		},
		{
			ID: "drink-1", Category: domain.CategoryDrink, Name: "Coca-Cola",
			Price: cents(250), IsAvailable: true,
		},
	}
	for i := range products {
		if err := store.Create(ctx, &products[i]); err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}
}

func activeToken(t *testing.T, tokens *repository.MemoryTokens, value string) *domain.KioskToken {
	t.Helper()
	tok := &domain.KioskToken{Token: value, Name: "Front terminal", IsActive: true}
	if err := tokens.Create(context.Background(), tok); err != nil {
		t.Fatal(err)
	}
	return tok
}
