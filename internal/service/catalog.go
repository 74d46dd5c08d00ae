package service

import (
	"context"

	"friterie/internal/domain"
	"friterie/internal/repository"
)

// CatalogService owns the menu catalog: admin CRUD plus the public
// availability listing the ordering pages read.
type CatalogService struct {
	products repository.ProductRepository
}

func NewCatalogService(products repository.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// validate enforces the category/price invariant: a product that is
// available for sale must carry every price field its category uses.
func validate(p *domain.Product) error {
	if p.Name == "" {
		return ErrInvalidInput
	}
	required := func(prices ...*int64) bool {
		for _, c := range prices {
			if c == nil || *c < 0 {
				return false
			}
		}
		return true
	}
	switch p.Category {
	case domain.CategoryDish:
		if p.IsAvailable && !required(p.PriceM, p.PriceL, p.PriceXL) {
			return ErrInvalidInput
		}
	case domain.CategoryEntry:
		if p.IsAvailable && !required(p.PriceSmall, p.PriceLarge) {
			return ErrInvalidInput
		}
	case domain.CategoryDrink, domain.CategoryDessert:
		if p.IsAvailable && !required(p.Price) {
			return ErrInvalidInput
		}
	default:
		return ErrInvalidInput
	}
	return nil
}

func (s *CatalogService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	cp := p
	if err := validate(&cp); err != nil {
		return nil, err
	}
	if cp.SortOrder == 0 {
		// append to the end of its category
		existing, err := s.products.List(ctx, repository.ProductFilter{Category: &cp.Category})
		if err != nil {
			return nil, unavailable(err)
		}
		for _, e := range existing {
			if e.SortOrder >= cp.SortOrder {
				cp.SortOrder = e.SortOrder + 1
			}
		}
	}
	if err := s.products.Create(ctx, &cp); err != nil {
		return nil, unavailable(err)
	}
	return &cp, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.products.GetByID(ctx, id)
}

func (s *CatalogService) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.ID == "" {
		return nil, ErrInvalidInput
	}
	cp := p
	if err := validate(&cp); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, &cp); err != nil {
		return nil, unavailable(err)
	}
	return &cp, nil
}

// SetAvailability flips the availability flag without touching anything
// else. Making a product available re-checks the price invariant.
func (s *CatalogService) SetAvailability(ctx context.Context, id string, available bool) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.IsAvailable = available
	if err := validate(p); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, unavailable(err)
	}
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return s.products.Delete(ctx, id)
}

// List returns the full catalog for the admin menu page.
func (s *CatalogService) List(ctx context.Context, category *domain.ProductCategory) ([]domain.Product, error) {
	return s.products.List(ctx, repository.ProductFilter{Category: category})
}

// ListAvailable returns only sellable products, for the public site and
// kiosk menus.
func (s *CatalogService) ListAvailable(ctx context.Context, category *domain.ProductCategory) ([]domain.Product, error) {
	return s.products.List(ctx, repository.ProductFilter{Category: category, OnlyAvailable: true})
}
