// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
)

var (
	ErrInvalidProduct = errors.New("product: invalid")
)

// Product represents "one catalog document".
//   - Code is the unique catalog key (also the barcode value).
//   - Stock/Cost/Price drive the selling flow.
//   - The reporting fields (StockValue, SoldValue, QtySold, QtyIssued, Margin)
//     are maintained by the reporting pipeline and passed through untouched here.
type Product struct {
	Code        string  `json:"codigo"`
	Description string  `json:"descripcion"`
	Category    string  `json:"categoria"`
	Unit        string  `json:"medida"`
	Stock       int     `json:"stock_actual"`
	Cost        float64 `json:"costo"`
	Price       float64 `json:"precio"`

	// Reporting pass-through (not computed by this core).
	StockValue float64 `json:"valor_stock_actual"`
	SoldValue  float64 `json:"valor_vendido"`
	QtySold    int     `json:"cantidad_vendida"`
	QtyIssued  int     `json:"cantidad_salidas"`
	Margin     float64 `json:"ganancia"`
}

// HasStock reports whether at least one unit can be sold.
func (p Product) HasStock() bool { return p.Stock > 0 }

// CanSell reports whether qty units fit in the current stock count.
func (p Product) CanSell(qty int) bool { return qty > 0 && p.Stock >= qty }

// TotalPrice returns the catalog price for qty units.
func (p Product) TotalPrice(qty int) float64 { return p.Price * float64(qty) }

// Validate checks the structural invariants of a catalog document.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Code) == "" {
		return ErrInvalidProduct
	}
	if p.Stock < 0 {
		return ErrInvalidProduct
	}
	if p.Price < 0 || p.Cost < 0 {
		return ErrInvalidProduct
	}
	return nil
}
