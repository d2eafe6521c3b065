// internal/application/usecase/catalog_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	productdom "stoky/internal/domain/product"
)

var (
	ErrCatalogInvalidArgument = errors.New("catalog_usecase: invalid argument")
	ErrCatalogNotFound        = errors.New("catalog_usecase: product not found")
)

// CatalogUsecase serves catalog browse and search for the selling flow.
type CatalogUsecase struct {
	products productdom.Repository
}

func NewCatalogUsecase(products productdom.Repository) *CatalogUsecase {
	return &CatalogUsecase{products: products}
}

// GetAll returns the full catalog.
func (uc *CatalogUsecase) GetAll(ctx context.Context) ([]productdom.Product, error) {
	return uc.products.GetAll(ctx)
}

// GetByCode resolves one product (barcode scan path).
func (uc *CatalogUsecase) GetByCode(ctx context.Context, code string) (*productdom.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCatalogInvalidArgument
	}
	p, err := uc.products.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrCatalogNotFound
	}
	return p, nil
}

// GetByCategory uses the indexed category filter at the store.
func (uc *CatalogUsecase) GetByCategory(ctx context.Context, category string) ([]productdom.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, ErrCatalogInvalidArgument
	}
	return uc.products.GetByCategory(ctx, category)
}

// Search does a case-insensitive substring match over description, category
// and code. Firestore has no contains operator, so this filters the fetched
// catalog in memory; catalog size is small (hundreds) for this product.
func (uc *CatalogUsecase) Search(ctx context.Context, query string) ([]productdom.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return uc.products.GetAll(ctx)
	}

	all, err := uc.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	out := make([]productdom.Product, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) ||
			strings.Contains(strings.ToLower(p.Code), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

// InStock returns only products with at least one sellable unit.
func (uc *CatalogUsecase) InStock(ctx context.Context) ([]productdom.Product, error) {
	all, err := uc.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]productdom.Product, 0, len(all))
	for _, p := range all {
		if p.HasStock() {
			out = append(out, p)
		}
	}
	return out, nil
}
