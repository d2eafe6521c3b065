// internal/domain/sale/entity.go
package sale

import (
	"errors"
	"strings"
	"time"

	"stoky/internal/domain/cart"
)

var (
	ErrInvalidSale = errors.New("sale: invalid")
	ErrEmptySale   = errors.New("sale: no lines")
)

// Line is one sold line, denormalized from the ledger entry so the sale
// document stays readable after the catalog changes.
type Line struct {
	Code        string  `json:"codigo"`
	Description string  `json:"descripcion"`
	Quantity    int     `json:"cantidad"`
	UnitPrice   float64 `json:"precioUnitario"`
	Subtotal    float64 `json:"subtotal"`
}

// Sale represents "one confirmed sale document".
type Sale struct {
	ID            string    `json:"id"`
	SellerID      string    `json:"vendedorId"`
	SellerEmail   string    `json:"vendedorCorreo,omitempty"`
	Lines         []Line    `json:"items"`
	TotalQuantity int       `json:"cantidadTotal"`
	TotalAmount   float64   `json:"total"`
	CreatedAt     time.Time `json:"fecha"`
}

// NewFromEntries builds a sale from ledger entries at confirmation time.
func NewFromEntries(entries []cart.Entry, sellerID, sellerEmail string, now time.Time) (Sale, error) {
	sid := strings.TrimSpace(sellerID)
	if sid == "" {
		return Sale{}, ErrInvalidSale
	}
	if len(entries) == 0 {
		return Sale{}, ErrEmptySale
	}

	s := Sale{
		SellerID:    sid,
		SellerEmail: strings.TrimSpace(sellerEmail),
		Lines:       make([]Line, 0, len(entries)),
		CreatedAt:   now.UTC(),
	}
	for _, e := range entries {
		if e.Quantity <= 0 {
			return Sale{}, ErrInvalidSale
		}
		s.Lines = append(s.Lines, Line{
			Code:        e.Product.Code,
			Description: e.Product.Description,
			Quantity:    e.Quantity,
			UnitPrice:   e.UnitPrice,
			Subtotal:    e.Subtotal(),
		})
		s.TotalQuantity += e.Quantity
		s.TotalAmount += e.Subtotal()
	}
	return s, nil
}
