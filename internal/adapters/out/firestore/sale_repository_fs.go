// internal/adapters/out/firestore/sale_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	saledom "stoky/internal/domain/sale"
)

// SaleRepositoryFS implements sale.Repository using Firestore.
//
// Collection design:
// - collection: ventas
// - docId: auto
// - "fecha" is range-queried for the daily export
type SaleRepositoryFS struct {
	Client *firestore.Client
}

func NewSaleRepositoryFS(client *firestore.Client) *SaleRepositoryFS {
	return &SaleRepositoryFS{Client: client}
}

func (r *SaleRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("ventas")
}

func (r *SaleRepositoryFS) Create(ctx context.Context, s saledom.Sale) (string, error) {
	if r == nil || r.Client == nil {
		return "", errors.New("sale_repository_fs: firestore client is nil")
	}
	if len(s.Lines) == 0 {
		return "", errors.New("sale_repository_fs: sale has no lines")
	}

	doc := r.col().NewDoc()
	if _, err := doc.Set(ctx, saleToDoc(s)); err != nil {
		return "", err
	}
	return doc.ID, nil
}

// GetByID returns (nil, nil) if not found (nil policy).
func (r *SaleRepositoryFS) GetByID(ctx context.Context, id string) (*saledom.Sale, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("sale_repository_fs: firestore client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("sale_repository_fs: id is empty")
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	s := docToSale(snap)
	return &s, nil
}

func (r *SaleRepositoryFS) ListByDay(ctx context.Context, day time.Time) ([]saledom.Sale, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("sale_repository_fs: firestore client is nil")
	}

	start := time.Date(day.UTC().Year(), day.UTC().Month(), day.UTC().Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	it := r.col().
		Where("fecha", ">=", start).
		Where("fecha", "<", end).
		OrderBy("fecha", firestore.Asc).
		Documents(ctx)
	defer it.Stop()

	out := []saledom.Sale{}
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, docToSale(snap))
	}
	return out, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type saleDoc struct {
	SellerID      string        `firestore:"vendedorId"`
	SellerEmail   string        `firestore:"vendedorCorreo"`
	Lines         []saleLineDoc `firestore:"items"`
	TotalQuantity int           `firestore:"cantidadTotal"`
	TotalAmount   float64       `firestore:"total"`
	CreatedAt     time.Time     `firestore:"fecha"`
}

type saleLineDoc struct {
	Code        string  `firestore:"codigo"`
	Description string  `firestore:"descripcion"`
	Quantity    int     `firestore:"cantidad"`
	UnitPrice   float64 `firestore:"precioUnitario"`
	Subtotal    float64 `firestore:"subtotal"`
}

func saleToDoc(s saledom.Sale) saleDoc {
	lines := make([]saleLineDoc, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, saleLineDoc{
			Code:        l.Code,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}
	return saleDoc{
		SellerID:      s.SellerID,
		SellerEmail:   s.SellerEmail,
		Lines:         lines,
		TotalQuantity: s.TotalQuantity,
		TotalAmount:   s.TotalAmount,
		CreatedAt:     s.CreatedAt,
	}
}

func docToSale(snap *firestore.DocumentSnapshot) saledom.Sale {
	raw := snap.Data()
	if raw == nil {
		raw = map[string]any{}
	}

	s := saledom.Sale{
		ID:            snap.Ref.ID,
		SellerID:      asString(raw["vendedorId"]),
		SellerEmail:   asString(raw["vendedorCorreo"]),
		TotalQuantity: asInt(raw["cantidadTotal"]),
		TotalAmount:   asFloat(raw["total"]),
	}
	if t, ok := asTime(raw["fecha"]); ok {
		s.CreatedAt = t
	}

	items, _ := raw["items"].([]any)
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		s.Lines = append(s.Lines, saledom.Line{
			Code:        asString(m["codigo"]),
			Description: asString(m["descripcion"]),
			Quantity:    asInt(m["cantidad"]),
			UnitPrice:   asFloat(m["precioUnitario"]),
			Subtotal:    asFloat(m["subtotal"]),
		})
	}
	return s
}
