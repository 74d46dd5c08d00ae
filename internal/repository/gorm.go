package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"friterie/internal/domain"
)

// GormStore backs the repositories with a real database through GORM.
// Conditional writes are expressed as guarded UPDATE statements so the
// database closes the race windows, not application code.
type GormStore struct{ db *gorm.DB }

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

// AutoMigrate creates or migrates every table the store owns.
func (g *GormStore) AutoMigrate() error {
	return g.db.AutoMigrate(
		&domain.Product{},
		&domain.Order{},
		&domain.KioskToken{},
		&domain.Setting{},
	)
}

// transaction propagation via context
type gormTxKey struct{}

func (g *GormStore) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(gormTxKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return g.db.WithContext(ctx)
}

var (
	_ ProductRepository  = (*GormStore)(nil)
	_ SettingsRepository = (*GormStore)(nil)
	_ TxManager          = (*GormStore)(nil)
)

// WithTransaction runs fn inside a database transaction; repository calls
// made with the passed context join it.
func (g *GormStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return g.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, gormTxKey{}, tx))
	})
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ProductRepository implementation

func (g *GormStore) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return g.conn(ctx).Create(p).Error
}

func (g *GormStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := g.conn(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (g *GormStore) Update(ctx context.Context, p *domain.Product) error {
	res := g.conn(ctx).Model(&domain.Product{}).Where("id = ?", p.ID).Select(
		"category", "name", "description",
		"price_m", "price_l", "price_xl", "price_small", "price_large", "price",
		"is_available", "sort_order", "updated_at",
	).Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStore) Delete(ctx context.Context, id string) error {
	res := g.conn(ctx).Delete(&domain.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	q := g.conn(ctx).Model(&domain.Product{}).Order("sort_order asc")
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.OnlyAvailable {
		q = q.Where("is_available = ?", true)
	}
	var out []domain.Product
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SettingsRepository implementation

func (g *GormStore) Get(ctx context.Context, key string) (string, error) {
	var s domain.Setting
	if err := g.conn(ctx).First(&s, "key = ?", key).Error; err != nil {
		return "", translate(err)
	}
	return s.Value, nil
}

func (g *GormStore) Set(ctx context.Context, key, value string) error {
	return g.conn(ctx).Save(&domain.Setting{Key: key, Value: value}).Error
}

// GormOrders implements OrderRepository.
type GormOrders struct{ store *GormStore }

func NewGormOrders(store *GormStore) *GormOrders { return &GormOrders{store: store} }

var _ OrderRepository = (*GormOrders)(nil)

// Create inserts the order and assigns the next order number inside one
// transaction. SQLite serializes writers, so max+1 cannot race; on
// engines with concurrent writers the unique index on order_number turns
// a lost race into an error instead of a duplicate ticket.
func (r *GormOrders) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return r.store.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var max int64
		if err := tx.Model(&domain.Order{}).
			Select("COALESCE(MAX(order_number), 0)").Scan(&max).Error; err != nil {
			return err
		}
		o.OrderNumber = max + 1
		return tx.Create(o).Error
	})
}

func (r *GormOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.store.conn(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *GormOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	q := r.store.conn(ctx).Model(&domain.Order{}).Order("created_at desc")
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.ExcludePending {
		q = q.Where("status <> ?", domain.StatusPending)
	}
	var out []domain.Order
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormOrders) UpdateStatus(ctx context.Context, id string, expected, next domain.OrderStatus) error {
	res := r.store.conn(ctx).Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(map[string]any{"status": next, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

func (r *GormOrders) SetSessionID(ctx context.Context, id, sessionID string) error {
	res := r.store.conn(ctx).Model(&domain.Order{}).Where("id = ?", id).
		Updates(map[string]any{"stripe_session_id": sessionID, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormOrders) MarkPaid(ctx context.Context, id, paymentIntentID string) (bool, error) {
	res := r.store.conn(ctx).Model(&domain.Order{}).
		Where("id = ? AND status IN ?", id,
			[]domain.OrderStatus{domain.StatusPending, domain.StatusPendingPayment}).
		Updates(map[string]any{
			"status":            domain.StatusPaid,
			"payment_intent_id": paymentIntentID,
			"updated_at":        time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		// distinguish replay (already paid) from a missing order
		if _, err := r.GetByID(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// GormTokens implements KioskTokenRepository.
type GormTokens struct{ store *GormStore }

func NewGormTokens(store *GormStore) *GormTokens { return &GormTokens{store: store} }

var _ KioskTokenRepository = (*GormTokens)(nil)

func (gt *GormTokens) Create(ctx context.Context, t *domain.KioskToken) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return gt.store.conn(ctx).Create(t).Error
}

func (gt *GormTokens) GetByToken(ctx context.Context, token string) (*domain.KioskToken, error) {
	var t domain.KioskToken
	if err := gt.store.conn(ctx).First(&t, "token = ?", token).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (gt *GormTokens) List(ctx context.Context) ([]domain.KioskToken, error) {
	var out []domain.KioskToken
	if err := gt.store.conn(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (gt *GormTokens) SetActive(ctx context.Context, id string, active bool) error {
	res := gt.store.conn(ctx).Model(&domain.KioskToken{}).Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (gt *GormTokens) Delete(ctx context.Context, id string) error {
	res := gt.store.conn(ctx).Delete(&domain.KioskToken{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (gt *GormTokens) TouchLastUsed(ctx context.Context, id string) error {
	return gt.store.conn(ctx).Model(&domain.KioskToken{}).Where("id = ?", id).
		Update("last_used_at", time.Now().UTC()).Error
}
