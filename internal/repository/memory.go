package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"friterie/internal/domain"
)

// MemoryStore is the shared in-memory state behind the per-entity
// repository wrappers. It backs unit tests and local runs without a
// database.
type MemoryStore struct {
	mu            sync.RWMutex
	nextOrderNum  int64
	productsByID  map[string]domain.Product
	ordersByID    map[string]domain.Order
	tokensByID    map[string]domain.KioskToken
	settingsByKey map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextOrderNum:  1,
		productsByID:  make(map[string]domain.Product),
		ordersByID:    make(map[string]domain.Order),
		tokensByID:    make(map[string]domain.KioskToken),
		settingsByKey: make(map[string]string),
	}
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v, ok := ctx.Value(txKey{}).(bool)
	return ok && v
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

// Ensure interfaces
var (
	_ ProductRepository  = (*MemoryStore)(nil)
	_ SettingsRepository = (*MemoryStore)(nil)
)

// ProductRepository implementation

func (m *MemoryStore) Create(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	m.productsByID[p.ID] = *p
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	p, ok := m.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, p *domain.Product) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	old, ok := m.productsByID[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = old.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	m.productsByID[p.ID] = *p
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.productsByID[id]; !ok {
		return ErrNotFound
	}
	delete(m.productsByID, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Product, 0)
	for _, p := range m.productsByID {
		if f.Category != nil && p.Category != *f.Category {
			continue
		}
		if f.OnlyAvailable && !p.IsAvailable {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

// SettingsRepository implementation

func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	v, ok := m.settingsByKey[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	m.settingsByKey[key] = value
	return nil
}

// MemoryOrders implements OrderRepository on the shared store.
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.OrderNumber = mo.store.nextOrderNum
	mo.store.nextOrderNum++
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	mo.store.ordersByID[o.ID] = *o
	return nil
}

func (mo *MemoryOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := o
	return &cp, nil
}

func (mo *MemoryOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	out := make([]domain.Order, 0)
	for _, o := range mo.store.ordersByID {
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		if f.ExcludePending && o.Status == domain.StatusPending {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (mo *MemoryOrders) UpdateStatus(ctx context.Context, id string, expected, next domain.OrderStatus) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return ErrNotFound
	}
	if o.Status != expected {
		return ErrConflict
	}
	o.Status = next
	o.UpdatedAt = time.Now().UTC()
	mo.store.ordersByID[id] = o
	return nil
}

func (mo *MemoryOrders) SetSessionID(ctx context.Context, id, sessionID string) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return ErrNotFound
	}
	o.StripeSessionID = sessionID
	o.UpdatedAt = time.Now().UTC()
	mo.store.ordersByID[id] = o
	return nil
}

func (mo *MemoryOrders) MarkPaid(ctx context.Context, id, paymentIntentID string) (bool, error) {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return false, ErrNotFound
	}
	if o.Status != domain.StatusPending && o.Status != domain.StatusPendingPayment {
		// already paid or further along: replay, nothing to do
		return false, nil
	}
	o.Status = domain.StatusPaid
	o.PaymentIntentID = paymentIntentID
	o.UpdatedAt = time.Now().UTC()
	mo.store.ordersByID[id] = o
	return true, nil
}

// MemoryTokens implements KioskTokenRepository on the shared store.
type MemoryTokens struct{ store *MemoryStore }

func NewMemoryTokens(store *MemoryStore) *MemoryTokens { return &MemoryTokens{store: store} }

var _ KioskTokenRepository = (*MemoryTokens)(nil)

func (mt *MemoryTokens) Create(ctx context.Context, t *domain.KioskToken) error {
	mt.store.wlock(ctx)
	defer mt.store.wunlock(ctx)
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now().UTC()
	mt.store.tokensByID[t.ID] = *t
	return nil
}

func (mt *MemoryTokens) GetByToken(ctx context.Context, token string) (*domain.KioskToken, error) {
	mt.store.rlock(ctx)
	defer mt.store.runlock(ctx)
	for _, t := range mt.store.tokensByID {
		if t.Token == token {
			cp := t
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (mt *MemoryTokens) List(ctx context.Context) ([]domain.KioskToken, error) {
	mt.store.rlock(ctx)
	defer mt.store.runlock(ctx)
	out := make([]domain.KioskToken, 0, len(mt.store.tokensByID))
	for _, t := range mt.store.tokensByID {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (mt *MemoryTokens) SetActive(ctx context.Context, id string, active bool) error {
	mt.store.wlock(ctx)
	defer mt.store.wunlock(ctx)
	t, ok := mt.store.tokensByID[id]
	if !ok {
		return ErrNotFound
	}
	t.IsActive = active
	mt.store.tokensByID[id] = t
	return nil
}

func (mt *MemoryTokens) Delete(ctx context.Context, id string) error {
	mt.store.wlock(ctx)
	defer mt.store.wunlock(ctx)
	if _, ok := mt.store.tokensByID[id]; !ok {
		return ErrNotFound
	}
	delete(mt.store.tokensByID, id)
	return nil
}

func (mt *MemoryTokens) TouchLastUsed(ctx context.Context, id string) error {
	mt.store.wlock(ctx)
	defer mt.store.wunlock(ctx)
	t, ok := mt.store.tokensByID[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	t.LastUsedAt = &now
	mt.store.tokensByID[id] = t
	return nil
}

// MemoryTx emulates a transaction boundary with the store's write lock.
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

var _ TxManager = (*MemoryTx)(nil)

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}
