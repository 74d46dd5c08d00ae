package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"friterie/internal/domain"
)

// Snapshot is a read-consistent view of the catalog for one pricing
// computation, keyed by product id.
type Snapshot map[string]domain.Product

// SnapshotOf builds a snapshot from a catalog listing.
func SnapshotOf(products []domain.Product) Snapshot {
	s := make(Snapshot, len(products))
	for _, p := range products {
		s[p.ID] = p
	}
	return s
}

// LineQuote is the server-side price of one cart line. UnitCents is what
// the payment provider is asked to charge per unit; TotalCents is the
// rounded line total that enters the order total.
type LineQuote struct {
	Label      string
	UnitCents  int64
	Quantity   int64
	TotalCents int64
}

// ErrInvalidQuantity rejects cart lines with quantity < 1.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// UnknownItemError marks a cart reference that does not resolve in the
// catalog snapshot. The whole pricing operation fails, never a partial
// total.
type UnknownItemError struct{ ID string }

func (e *UnknownItemError) Error() string { return fmt.Sprintf("unknown menu item: %s", e.ID) }

// UnavailableItemError marks a resolvable product that cannot be sold:
// either flagged unavailable or missing the price tier the cart asks for.
type UnavailableItemError struct{ ID string }

func (e *UnavailableItemError) Error() string { return fmt.Sprintf("item not available: %s", e.ID) }

// Quote computes the authoritative price of a cart against a catalog
// snapshot. Pure and deterministic: same cart and snapshot, same result.
// Monetary arithmetic runs in decimal euros and is rounded half-up to
// cents once per line before summation, so the stored total is exactly
// the sum of what each line charges.
func Quote(items domain.CartItems, snap Snapshot) ([]LineQuote, int64, error) {
	quotes := make([]LineQuote, 0, len(items))
	var total int64
	for _, it := range items {
		if it.Qty() < 1 {
			return nil, 0, ErrInvalidQuantity
		}
		q, err := quoteItem(it, snap)
		if err != nil {
			return nil, 0, err
		}
		quotes = append(quotes, q)
		total += q.TotalCents
	}
	return quotes, total, nil
}

func quoteItem(it domain.CartItem, snap Snapshot) (LineQuote, error) {
	switch v := it.(type) {
	case domain.DishItem:
		p, err := resolve(snap, v.ProductID, domain.CategoryDish)
		if err != nil {
			return LineQuote{}, err
		}
		base, err := dishTier(p, v.Size)
		if err != nil {
			return LineQuote{}, err
		}
		unit := base.Add(supplementTotal(v.Supplements))
		label := fmt.Sprintf("%s (%s)", p.Name, v.Size)
		if len(v.Supplements) > 0 {
			label += " + " + strings.Join(v.Supplements, ", ")
		}
		return lineQuote(label, unit, v.Quantity), nil

	case domain.EntryItem:
		p, err := resolve(snap, v.ProductID, domain.CategoryEntry)
		if err != nil {
			return LineQuote{}, err
		}
		var cents *int64
		if v.Portion == domain.PortionSmall {
			cents = p.PriceSmall
		} else {
			cents = p.PriceLarge
		}
		if cents == nil {
			return LineQuote{}, &UnavailableItemError{ID: p.ID}
		}
		label := fmt.Sprintf("%s (%s)", p.Name, v.Portion)
		return lineQuote(label, fromCents(*cents), v.Quantity), nil

	case domain.DrinkItem:
		p, err := resolve(snap, v.ProductID, domain.CategoryDrink)
		if err != nil {
			return LineQuote{}, err
		}
		if p.Price == nil {
			return LineQuote{}, &UnavailableItemError{ID: p.ID}
		}
		return lineQuote(p.Name, fromCents(*p.Price), v.Quantity), nil

	case domain.DessertItem:
		p, err := resolve(snap, v.ProductID, domain.CategoryDessert)
		if err != nil {
			return LineQuote{}, err
		}
		if p.Price == nil {
			return LineQuote{}, &UnavailableItemError{ID: p.ID}
		}
		return lineQuote(p.Name, fromCents(*p.Price), v.Quantity), nil

	case domain.ComposeItem:
		base, ok := composePrices[v.Size]
		if !ok {
			return LineQuote{}, fmt.Errorf("unknown compose size %q", v.Size)
		}
		unit := base.Add(supplementTotal(v.Supplements))
		label := fmt.Sprintf("Compose (%s) - %s, %s", v.Size, v.Base, v.Protein)
		if len(v.Supplements) > 0 {
			label += " + " + strings.Join(v.Supplements, ", ")
		}
		return lineQuote(label, unit, v.Quantity), nil

	default:
		return LineQuote{}, fmt.Errorf("unsupported cart item %T", it)
	}
}

func resolve(snap Snapshot, id string, cat domain.ProductCategory) (domain.Product, error) {
	p, ok := snap[id]
	if !ok || p.Category != cat {
		return domain.Product{}, &UnknownItemError{ID: id}
	}
	if !p.IsAvailable {
		return domain.Product{}, &UnavailableItemError{ID: id}
	}
	return p, nil
}

func dishTier(p domain.Product, size domain.DishSize) (decimal.Decimal, error) {
	var cents *int64
	switch size {
	case domain.SizeM:
		cents = p.PriceM
	case domain.SizeL:
		cents = p.PriceL
	case domain.SizeXL:
		cents = p.PriceXL
	default:
		return decimal.Decimal{}, fmt.Errorf("unknown dish size %q", size)
	}
	if cents == nil {
		return decimal.Decimal{}, &UnavailableItemError{ID: p.ID}
	}
	return fromCents(*cents), nil
}

func fromCents(c int64) decimal.Decimal { return decimal.New(c, -2) }

// roundCents converts a euro amount to integer cents, rounding half-up
// at the cent boundary.
func roundCents(eur decimal.Decimal) int64 { return eur.Shift(2).Round(0).IntPart() }

func lineQuote(label string, unitEur decimal.Decimal, qty int64) LineQuote {
	return LineQuote{
		Label:      label,
		UnitCents:  roundCents(unitEur),
		Quantity:   qty,
		TotalCents: roundCents(unitEur.Mul(decimal.NewFromInt(qty))),
	}
}
