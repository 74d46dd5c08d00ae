package pricing

import (
	"github.com/shopspring/decimal"

	"friterie/internal/domain"
)

// Composed bowls are not catalog products; their base price comes from
// this fixed size table, in euros.
var composePrices = map[domain.DishSize]decimal.Decimal{
	domain.SizeM:  decimal.RequireFromString("9.00"),
	domain.SizeL:  decimal.RequireFromString("13.00"),
	domain.SizeXL: decimal.RequireFromString("17.00"),
}

// Named supplement surcharges, in euros, applied to dishes and composed
// bowls. Unknown names carry no surcharge.
var supplementPrices = map[string]decimal.Decimal{
	"Cheddar": decimal.RequireFromString("2.90"),
	"Poulet":  decimal.RequireFromString("3.90"),
	"Bacon":   decimal.RequireFromString("1.50"),
}

func supplementTotal(names []string) decimal.Decimal {
	sum := decimal.Zero
	for _, n := range names {
		if p, ok := supplementPrices[n]; ok {
			sum = sum.Add(p)
		}
	}
	return sum
}
