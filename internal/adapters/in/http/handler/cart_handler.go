// internal/adapters/in/http/handler/cart_handler.go
package handler

import (
	"net/http"
	"strings"

	"stoky/internal/adapters/in/http/middleware"
	"stoky/internal/adapters/in/http/session"
	"stoky/internal/application/usecase"
	cartdom "stoky/internal/domain/cart"
)

// CartHandler serves the per-seller cart session:
//
//	GET    /cart                         items + totals
//	DELETE /cart                         clear
//	POST   /cart/items                   {codigo, cantidad?} add (stock-bounded)
//	PUT    /cart/items/{codigo}          {cantidad} set quantity
//	POST   /cart/items/{codigo}/increment
//	POST   /cart/items/{codigo}/decrement
//	DELETE /cart/items/{codigo}          remove line
//
// Stock-bounded rejections answer 409 with "ok": false; the ledger state in
// the body is unchanged, mirroring the reject-not-error cart contract.
type CartHandler struct {
	sessions *session.Registry
	catalog  *usecase.CatalogUsecase
}

func NewCartHandler(sessions *session.Registry, catalog *usecase.CatalogUsecase) *CartHandler {
	return &CartHandler{sessions: sessions, catalog: catalog}
}

type cartView struct {
	Items         []cartdom.Entry `json:"items"`
	TotalQuantity int             `json:"cantidadTotal"`
	TotalAmount   float64         `json:"total"`
	Empty         bool            `json:"vacio"`
}

func viewOf(l *cartdom.Ledger) cartView {
	return cartView{
		Items:         l.Items(),
		TotalQuantity: l.TotalQuantity(),
		TotalAmount:   l.TotalAmount(),
		Empty:         l.IsEmpty(),
	}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil || h.catalog == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}

	uid, ok := middleware.CurrentSellerUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	ledger := h.sessions.Get(uid)

	path := strings.TrimRight(r.URL.Path, "/")

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/cart"):
		writeJSON(w, http.StatusOK, viewOf(ledger))

	case r.Method == http.MethodDelete && strings.HasSuffix(path, "/cart"):
		ledger.Clear()
		writeJSON(w, http.StatusOK, viewOf(ledger))

	case r.Method == http.MethodPost && strings.HasSuffix(path, "/cart/items"):
		h.handleAdd(w, r, ledger)

	case strings.HasSuffix(path, "/increment") && r.Method == http.MethodPost:
		code := segmentBefore(path, "/increment")
		h.respondMutation(w, ledger, ledger.Increment(code), "sin stock disponible")

	case strings.HasSuffix(path, "/decrement") && r.Method == http.MethodPost:
		code := segmentBefore(path, "/decrement")
		h.respondMutation(w, ledger, ledger.Decrement(code), "la cantidad mínima es 1")

	case r.Method == http.MethodPut:
		h.handleSetQuantity(w, r, ledger, lastSegment(path))

	case r.Method == http.MethodDelete:
		ledger.Remove(lastSegment(path))
		writeJSON(w, http.StatusOK, viewOf(ledger))

	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

func (h *CartHandler) handleAdd(w http.ResponseWriter, r *http.Request, ledger *cartdom.Ledger) {
	var in struct {
		Code     string `json:"codigo"`
		Quantity int    `json:"cantidad"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	p, err := h.catalog.GetByCode(r.Context(), in.Code)
	if err != nil {
		writeErr(w, http.StatusNotFound, "producto no encontrado")
		return
	}

	h.respondMutation(w, ledger, ledger.Add(*p, in.Quantity), "stock insuficiente")
}

func (h *CartHandler) handleSetQuantity(w http.ResponseWriter, r *http.Request, ledger *cartdom.Ledger, code string) {
	var in struct {
		Quantity int `json:"cantidad"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	h.respondMutation(w, ledger, ledger.SetQuantity(code, in.Quantity), "cantidad fuera de rango")
}

func (h *CartHandler) respondMutation(w http.ResponseWriter, ledger *cartdom.Ledger, ok bool, rejectMsg string) {
	if !ok {
		writeJSON(w, http.StatusConflict, map[string]any{
			"ok":     false,
			"motivo": rejectMsg,
			"cart":   viewOf(ledger),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "cart": viewOf(ledger)})
}

func lastSegment(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}

func segmentBefore(path, suffix string) string {
	trimmed := strings.TrimSuffix(path, suffix)
	return lastSegment(trimmed)
}
