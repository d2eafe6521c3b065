package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockHelpers(t *testing.T) {
	p := Product{Code: "A1", Stock: 3, Price: 2.50}

	assert.True(t, p.HasStock())
	assert.True(t, p.CanSell(1))
	assert.True(t, p.CanSell(3))
	assert.False(t, p.CanSell(4))
	assert.False(t, p.CanSell(0))
	assert.False(t, p.CanSell(-1))
	assert.InDelta(t, 7.50, p.TotalPrice(3), 1e-9)

	empty := Product{Code: "B2", Stock: 0}
	assert.False(t, empty.HasStock())
	assert.False(t, empty.CanSell(1))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Product
		ok   bool
	}{
		{name: "valid", p: Product{Code: "A1", Stock: 1, Price: 1, Cost: 0.5}, ok: true},
		{name: "blank code", p: Product{Code: " ", Stock: 1}, ok: false},
		{name: "negative stock", p: Product{Code: "A1", Stock: -1}, ok: false},
		{name: "negative price", p: Product{Code: "A1", Price: -1}, ok: false},
		{name: "negative cost", p: Product{Code: "A1", Cost: -1}, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidProduct)
			}
		})
	}
}
