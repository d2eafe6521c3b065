// internal/adapters/in/http/session/registry.go
package session

import (
	"strings"
	"sync"

	cartdom "stoky/internal/domain/cart"
)

// Registry hands out one cart ledger per seller session.
//
// The ledger itself is single-caller by contract; the registry only guards
// the map so concurrent requests from different sellers can resolve their
// own ledgers. Two parallel requests for the SAME seller still race on the
// ledger, which matches the one-device-per-seller assumption of the POS.
type Registry struct {
	mu      sync.Mutex
	ledgers map[string]*cartdom.Ledger
}

func NewRegistry() *Registry {
	return &Registry{ledgers: map[string]*cartdom.Ledger{}}
}

// Get returns the ledger for sellerUID, creating one on first use.
func (r *Registry) Get(sellerUID string) *cartdom.Ledger {
	uid := strings.TrimSpace(sellerUID)
	if uid == "" {
		return cartdom.NewLedger() // throwaway; callers validate uid upstream
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.ledgers[uid]; ok {
		return l
	}
	l := cartdom.NewLedger()
	r.ledgers[uid] = l
	return l
}

// Drop discards the ledger for sellerUID (logout / session end).
func (r *Registry) Drop(sellerUID string) {
	uid := strings.TrimSpace(sellerUID)
	if uid == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ledgers, uid)
}
