package domain

import (
	"encoding/json"
	"fmt"
)

// DishSize is a size tier shared by dishes and composed bowls.
type DishSize string

const (
	SizeM  DishSize = "M"
	SizeL  DishSize = "L"
	SizeXL DishSize = "XL"
)

// EntryPortion selects the small or large serving of an entry.
type EntryPortion string

const (
	PortionSmall EntryPortion = "small"
	PortionLarge EntryPortion = "large"
)

// ItemKind tags the cart item variants.
type ItemKind string

const (
	KindDish    ItemKind = "dish"
	KindEntry   ItemKind = "entry"
	KindDrink   ItemKind = "drink"
	KindDessert ItemKind = "dessert"
	KindCompose ItemKind = "compose"
)

// CartItem is the sum type over the five orderable item shapes. The
// variants deliberately carry no price fields: prices are always derived
// from the catalog (or the fixed compose tables) on the server.
type CartItem interface {
	Kind() ItemKind
	Qty() int64
}

// DishItem references a catalog dish by id.
type DishItem struct {
	ProductID   string   `json:"product_id"`
	Size        DishSize `json:"size"`
	Supplements []string `json:"supplements,omitempty"`
	Quantity    int64    `json:"quantity"`
}

// EntryItem references a catalog entry by id.
type EntryItem struct {
	ProductID string       `json:"product_id"`
	Portion   EntryPortion `json:"portion"`
	Quantity  int64        `json:"quantity"`
}

// DrinkItem references a catalog drink by id.
type DrinkItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// DessertItem references a catalog dessert by id.
type DessertItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// ComposeItem is a freeform build from the compose wizard. It has no
// catalog reference; its price comes from the fixed size table plus
// supplement surcharges.
type ComposeItem struct {
	Size        DishSize  `json:"size"`
	Base        string    `json:"base"`
	BaseSauce   string    `json:"base_sauce"`
	Protein     string    `json:"protein"`
	Sauce       string    `json:"sauce"`
	Toppings    [2]string `json:"toppings"`
	Supplements []string  `json:"supplements,omitempty"`
	Quantity    int64     `json:"quantity"`
}

func (i DishItem) Kind() ItemKind    { return KindDish }
func (i EntryItem) Kind() ItemKind   { return KindEntry }
func (i DrinkItem) Kind() ItemKind   { return KindDrink }
func (i DessertItem) Kind() ItemKind { return KindDessert }
func (i ComposeItem) Kind() ItemKind { return KindCompose }

func (i DishItem) Qty() int64    { return i.Quantity }
func (i EntryItem) Qty() int64   { return i.Quantity }
func (i DrinkItem) Qty() int64   { return i.Quantity }
func (i DessertItem) Qty() int64 { return i.Quantity }
func (i ComposeItem) Qty() int64 { return i.Quantity }

// CartItems is a JSON-round-trippable list of cart items. The wire shape
// is a flat object per item with a "type" discriminator; unknown fields
// (including any client-supplied price) are dropped on decode.
type CartItems []CartItem

type dishEnvelope struct {
	Type ItemKind `json:"type"`
	DishItem
}

type entryEnvelope struct {
	Type ItemKind `json:"type"`
	EntryItem
}

type drinkEnvelope struct {
	Type ItemKind `json:"type"`
	DrinkItem
}

type dessertEnvelope struct {
	Type ItemKind `json:"type"`
	DessertItem
}

type composeEnvelope struct {
	Type ItemKind `json:"type"`
	ComposeItem
}

func (c CartItems) MarshalJSON() ([]byte, error) {
	out := make([]any, len(c))
	for i, it := range c {
		switch v := it.(type) {
		case DishItem:
			out[i] = dishEnvelope{Type: KindDish, DishItem: v}
		case EntryItem:
			out[i] = entryEnvelope{Type: KindEntry, EntryItem: v}
		case DrinkItem:
			out[i] = drinkEnvelope{Type: KindDrink, DrinkItem: v}
		case DessertItem:
			out[i] = dessertEnvelope{Type: KindDessert, DessertItem: v}
		case ComposeItem:
			out[i] = composeEnvelope{Type: KindCompose, ComposeItem: v}
		default:
			return nil, fmt.Errorf("cart: unsupported item %T", it)
		}
	}
	return json.Marshal(out)
}

func (c *CartItems) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	items := make(CartItems, 0, len(raw))
	for _, r := range raw {
		var probe struct {
			Type ItemKind `json:"type"`
		}
		if err := json.Unmarshal(r, &probe); err != nil {
			return err
		}
		var (
			it  CartItem
			err error
		)
		switch probe.Type {
		case KindDish:
			var e dishEnvelope
			err = json.Unmarshal(r, &e)
			it = e.DishItem
		case KindEntry:
			var e entryEnvelope
			err = json.Unmarshal(r, &e)
			it = e.EntryItem
		case KindDrink:
			var e drinkEnvelope
			err = json.Unmarshal(r, &e)
			it = e.DrinkItem
		case KindDessert:
			var e dessertEnvelope
			err = json.Unmarshal(r, &e)
			it = e.DessertItem
		case KindCompose:
			var e composeEnvelope
			err = json.Unmarshal(r, &e)
			it = e.ComposeItem
		default:
			return fmt.Errorf("cart: unknown item type %q", probe.Type)
		}
		if err != nil {
			return err
		}
		items = append(items, it)
	}
	*c = items
	return nil
}
