// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	productdom "stoky/internal/domain/product"
)

// ProductRepositoryFS implements product.Repository using Firestore.
//
// Collection design:
// - collection: productos
// - docId: auto; "codigo" is the logical key (one doc per code)
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("productos")
}

func (r *ProductRepositoryFS) GetAll(ctx context.Context) ([]productdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}

	it := r.col().OrderBy("codigo", firestore.Asc).Documents(ctx)
	defer it.Stop()

	out := []productdom.Product{}
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, docToProduct(snap))
	}
	return out, nil
}

// GetByCode returns (nil, nil) if no document matches (nil policy).
func (r *ProductRepositoryFS) GetByCode(ctx context.Context, code string) (*productdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.New("product_repository_fs: code is empty")
	}

	it := r.col().Where("codigo", "==", code).Limit(1).Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := docToProduct(snap)
	return &p, nil
}

func (r *ProductRepositoryFS) GetByCategory(ctx context.Context, category string) ([]productdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, errors.New("product_repository_fs: category is empty")
	}

	it := r.col().Where("categoria", "==", category).Documents(ctx)
	defer it.Stop()

	out := []productdom.Product{}
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, docToProduct(snap))
	}
	return out, nil
}

// RegisterSale folds a sold line into the product document with atomic
// increments; stock goes down, reporting counters go up, same write.
func (r *ProductRepositoryFS) RegisterSale(ctx context.Context, code string, qty int, amount float64) error {
	if r == nil || r.Client == nil {
		return errors.New("product_repository_fs: firestore client is nil")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return errors.New("product_repository_fs: code is empty")
	}
	if qty <= 0 {
		return errors.New("product_repository_fs: qty must be positive")
	}

	it := r.col().Where("codigo", "==", code).Limit(1).Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if err == iterator.Done {
		return errors.New("product_repository_fs: product not found: " + code)
	}
	if err != nil {
		return err
	}

	_, err = snap.Ref.Update(ctx, []firestore.Update{
		{Path: "stock_actual", Value: firestore.Increment(-qty)},
		{Path: "cantidad_vendida", Value: firestore.Increment(qty)},
		{Path: "valor_vendido", Value: firestore.Increment(amount)},
	})
	return err
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

// docToProduct parses document data defensively (numeric fields may be
// stored as int64 or float64 depending on who wrote them).
func docToProduct(snap *firestore.DocumentSnapshot) productdom.Product {
	raw := snap.Data()
	if raw == nil {
		raw = map[string]any{}
	}

	return productdom.Product{
		Code:        asString(raw["codigo"]),
		Description: asString(raw["descripcion"]),
		Category:    asString(raw["categoria"]),
		Unit:        asString(raw["medida"]),
		Stock:       asInt(raw["stock_actual"]),
		Cost:        asFloat(raw["costo"]),
		Price:       asFloat(raw["precio"]),
		StockValue:  asFloat(raw["valor_stock_actual"]),
		SoldValue:   asFloat(raw["valor_vendido"]),
		QtySold:     asInt(raw["cantidad_vendida"]),
		QtyIssued:   asInt(raw["cantidad_salidas"]),
		Margin:      asFloat(raw["ganancia"]),
	}
}
