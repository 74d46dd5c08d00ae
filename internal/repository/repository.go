package repository

import (
	"context"
	"errors"

	"friterie/internal/domain"
)

// ErrNotFound is returned when an entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned by conditional writes when the stored state no
// longer matches the expected one (lost race with another writer).
var ErrConflict = errors.New("conflict")

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Category      *domain.ProductCategory
	OnlyAvailable bool
}

// ProductRepository is the catalog store. Pricing only ever reads it.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)
}

// OrderFilter narrows order listings for the admin dashboard.
type OrderFilter struct {
	Status *domain.OrderStatus
	// ExcludePending drops transient pending online orders, which are
	// never actionable by staff.
	ExcludePending bool
}

// OrderRepository persists orders. Create assigns the id's order_number:
// the store is the sole arbiter of the monotonic, unique sequence.
// Status updates are conditional writes so concurrent staff clicks or
// webhook replays cannot double-apply.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, f OrderFilter) ([]domain.Order, error)
	// UpdateStatus sets the status only if the stored status equals
	// expected; otherwise ErrConflict and no mutation.
	UpdateStatus(ctx context.Context, id string, expected, next domain.OrderStatus) error
	// SetSessionID links the hosted payment session onto the order.
	SetSessionID(ctx context.Context, id, sessionID string) error
	// MarkPaid moves pending or pending_payment to paid and records the
	// payment confirmation id. Returns false with no error when the
	// order is already paid, which makes webhook replays a no-op.
	MarkPaid(ctx context.Context, id, paymentIntentID string) (bool, error)
}

// KioskTokenRepository stores terminal credentials.
type KioskTokenRepository interface {
	Create(ctx context.Context, t *domain.KioskToken) error
	GetByToken(ctx context.Context, token string) (*domain.KioskToken, error)
	List(ctx context.Context) ([]domain.KioskToken, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	TouchLastUsed(ctx context.Context, id string) error
}

// SettingsRepository is the global key/value switch store.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// TxManager is the transaction boundary abstraction. The in-memory store
// implements it with a global write lock; the GORM store with a real
// database transaction.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
