package domain

import "time"

// ProductCategory discriminates the menu catalog.
type ProductCategory string

const (
	CategoryDish    ProductCategory = "dish"
	CategoryEntry   ProductCategory = "entry"
	CategoryDrink   ProductCategory = "drink"
	CategoryDessert ProductCategory = "dessert"
)

// Product is a catalog record. Price fields are nullable because each
// category uses a different subset: dishes are size-tiered (M/L/XL),
// entries are portion-tiered (small/large), drinks and desserts carry a
// single flat price. All amounts are integer cents.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	Category    ProductCategory `json:"category" gorm:"index;size:16"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	PriceM      *int64          `json:"price_m"`
	PriceL      *int64          `json:"price_l"`
	PriceXL     *int64          `json:"price_xl"`
	PriceSmall  *int64          `json:"price_small"`
	PriceLarge  *int64          `json:"price_large"`
	Price       *int64          `json:"price"`
	IsAvailable bool            `json:"is_available"`
	SortOrder   int             `json:"sort_order"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderType distinguishes the paid online flow from kiosk intake.
type OrderType string

const (
	OrderTypeOnline OrderType = "online"
	OrderTypeKiosk  OrderType = "kiosk"
)

// Order is the persisted record of a submitted cart. Items are kept as an
// immutable snapshot of what the customer sent; TotalCents is always the
// server-side recomputation over the catalog, never a client value.
type Order struct {
	ID              string      `json:"id" gorm:"primaryKey;size:36"`
	OrderNumber     int64       `json:"order_number" gorm:"uniqueIndex;not null"`
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone"`
	Items           CartItems   `json:"items" gorm:"serializer:json"`
	TotalCents      int64       `json:"total_cents"`
	Status          OrderStatus `json:"status" gorm:"index;size:20"`
	OrderType       OrderType   `json:"order_type" gorm:"size:10"`
	KioskTokenID    string      `json:"kiosk_token_id,omitempty" gorm:"size:36"`
	StripeSessionID string      `json:"stripe_session_id,omitempty"`
	PaymentIntentID string      `json:"stripe_payment_intent,omitempty"`
	Locale          string      `json:"locale" gorm:"size:8"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// KioskToken is an opaque per-terminal credential that authorizes
// payment-free order creation.
type KioskToken struct {
	ID         string     `json:"id" gorm:"primaryKey;size:36"`
	Token      string     `json:"token" gorm:"uniqueIndex;size:64"`
	Name       string     `json:"name"`
	IsActive   bool       `json:"is_active"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Setting is a global key/value switch owned by admin actions.
type Setting struct {
	Key   string `json:"key" gorm:"primaryKey;size:64"`
	Value string `json:"value"`
}

// SettingClickCollect gates the online ordering entry point.
const SettingClickCollect = "click_collect_enabled"
