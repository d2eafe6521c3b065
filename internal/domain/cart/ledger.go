// internal/domain/cart/ledger.go
package cart

import (
	"strings"

	"stoky/internal/domain/product"
)

// Entry represents "one line item" in a ledger.
// Product is a read-only snapshot taken when the line was created; UnitPrice
// is frozen at add-time so catalog price changes mid-session never alter an
// in-progress cart.
type Entry struct {
	Product   product.Product `json:"producto"`
	Quantity  int             `json:"cantidad"`
	UnitPrice float64         `json:"precioUnitario"`
}

// Subtotal returns quantity x price-at-add-time.
func (e Entry) Subtotal() float64 {
	return e.UnitPrice * float64(e.Quantity)
}

// Ledger is an in-memory cart owned by a single checkout session.
//
// - insertion-ordered, at most one entry per product code
// - every mutation is stock-bounded against the snapshot held by the entry
//   (the ledger is only as fresh as the snapshot the caller passed in)
// - rejected mutations return false and leave the ledger untouched;
//   running out of stock is an expected outcome, not an error
//
// Not safe for concurrent use: one session, one caller.
type Ledger struct {
	entries []Entry
}

// NewLedger creates an empty ledger for one checkout session.
func NewLedger() *Ledger {
	return &Ledger{entries: []Entry{}}
}

// Add merges qty units of p into the ledger.
// If a line for p.Code exists the quantities are combined; the resulting
// quantity must fit in the snapshot's stock or the call is rejected.
// A fresh line keeps p and p.Price as its immutable snapshot.
func (l *Ledger) Add(p product.Product, qty int) bool {
	code := strings.TrimSpace(p.Code)
	if code == "" || qty <= 0 {
		return false
	}

	if idx := l.indexOf(code); idx >= 0 {
		next := l.entries[idx].Quantity + qty
		if !l.entries[idx].Product.CanSell(next) {
			return false
		}
		l.entries[idx].Quantity = next
		return true
	}

	if !p.CanSell(qty) {
		return false
	}
	l.entries = append(l.entries, Entry{
		Product:   p,
		Quantity:  qty,
		UnitPrice: p.Price,
	})
	return true
}

// Remove deletes the line for code. Absent code is a no-op.
func (l *Ledger) Remove(code string) {
	idx := l.indexOf(strings.TrimSpace(code))
	if idx < 0 {
		return
	}
	l.entries = append(l.entries[:idx], l.entries[idx+1:]...)
}

// SetQuantity replaces the line's quantity.
// Succeeds only for 1 <= qty <= stock; on failure the line is unchanged.
func (l *Ledger) SetQuantity(code string, qty int) bool {
	idx := l.indexOf(strings.TrimSpace(code))
	if idx < 0 {
		return false
	}
	if qty <= 0 || !l.entries[idx].Product.CanSell(qty) {
		return false
	}
	l.entries[idx].Quantity = qty
	return true
}

// Increment adds one unit. Missing line or exhausted stock returns false.
func (l *Ledger) Increment(code string) bool {
	idx := l.indexOf(strings.TrimSpace(code))
	if idx < 0 {
		return false
	}
	next := l.entries[idx].Quantity + 1
	if !l.entries[idx].Product.CanSell(next) {
		return false
	}
	l.entries[idx].Quantity = next
	return true
}

// Decrement removes one unit but never goes below 1.
// At quantity 1 it is a no-op returning false; removal is explicit via Remove.
func (l *Ledger) Decrement(code string) bool {
	idx := l.indexOf(strings.TrimSpace(code))
	if idx < 0 {
		return false
	}
	if l.entries[idx].Quantity <= 1 {
		return false
	}
	l.entries[idx].Quantity--
	return true
}

// Items returns a snapshot copy in insertion order.
// Mutating the returned slice does not affect the ledger.
func (l *Ledger) Items() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// TotalQuantity sums all line quantities.
func (l *Ledger) TotalQuantity() int {
	total := 0
	for _, e := range l.entries {
		total += e.Quantity
	}
	return total
}

// TotalAmount sums quantity x price-at-add-time over all lines.
func (l *Ledger) TotalAmount() float64 {
	total := 0.0
	for _, e := range l.entries {
		total += e.Subtotal()
	}
	return total
}

// IsEmpty reports whether the ledger has no lines.
func (l *Ledger) IsEmpty() bool { return len(l.entries) == 0 }

// Clear empties the ledger (after a confirmed sale or explicit cancel).
func (l *Ledger) Clear() { l.entries = []Entry{} }

// Contains reports whether a line for code exists.
func (l *Ledger) Contains(code string) bool {
	return l.indexOf(strings.TrimSpace(code)) >= 0
}

// Find returns a copy of the line for code.
func (l *Ledger) Find(code string) (Entry, bool) {
	idx := l.indexOf(strings.TrimSpace(code))
	if idx < 0 {
		return Entry{}, false
	}
	return l.entries[idx], true
}

func (l *Ledger) indexOf(code string) int {
	for i := range l.entries {
		if l.entries[i].Product.Code == code {
			return i
		}
	}
	return -1
}
