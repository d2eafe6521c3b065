// internal/domain/product/repository_port.go
package product

import "context"

// Repository is the read side of the catalog plus the stock write used by checkout.
//
// Storage (Firestore):
// - collection: productos
// - docId: auto
// - "codigo" carries a unique index in practice (one doc per code)
//
// Not-found policy: GetByCode returns (nil, nil) when no document matches.
type Repository interface {
	GetAll(ctx context.Context) ([]Product, error)
	GetByCode(ctx context.Context, code string) (*Product, error)
	GetByCategory(ctx context.Context, category string) ([]Product, error)

	// RegisterSale decrements stock and folds the sold quantity/amount into
	// the reporting fields, as a single field update on the product document.
	RegisterSale(ctx context.Context, code string, qty int, amount float64) error
}
