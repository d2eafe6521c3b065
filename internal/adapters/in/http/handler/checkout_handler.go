// internal/adapters/in/http/handler/checkout_handler.go
package handler

import (
	"errors"
	"log"
	"net/http"

	"stoky/internal/adapters/in/http/middleware"
	"stoky/internal/adapters/in/http/session"
	"stoky/internal/application/usecase"
	userdom "stoky/internal/domain/user"
)

// CheckoutHandler confirms the seller's current cart session as a sale.
//
//	POST /checkout/confirm
type CheckoutHandler struct {
	sessions *session.Registry
	checkout *usecase.CheckoutUsecase
	users    userdom.Repository
}

func NewCheckoutHandler(sessions *session.Registry, checkout *usecase.CheckoutUsecase, users userdom.Repository) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, checkout: checkout, users: users}
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil || h.checkout == nil {
		writeErr(w, http.StatusInternalServerError, "checkout handler is not configured")
		return
	}
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	uid, ok := middleware.CurrentSellerUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	seller := h.resolveSeller(r, uid)
	ledger := h.sessions.Get(uid)

	s, err := h.checkout.Confirm(r.Context(), ledger, seller)
	if err != nil {
		if errors.Is(err, usecase.ErrCheckoutEmptyCart) {
			writeErr(w, http.StatusConflict, "el carrito está vacío")
			return
		}
		log.Printf("[checkout_handler] confirm failed seller=%s: %v", uid, err)
		writeErr(w, http.StatusInternalServerError, "no se pudo confirmar la venta")
		return
	}

	writeJSON(w, http.StatusCreated, s)
}

// resolveSeller prefers the stored user record (it carries role and the
// receipt address); when lookup fails the token identity is enough to sell.
func (h *CheckoutHandler) resolveSeller(r *http.Request, uid string) *userdom.User {
	if h.users != nil {
		if u, err := h.users.GetByGoogleID(r.Context(), uid); err == nil && u != nil {
			return u
		}
		if u, err := h.users.GetByID(r.Context(), uid); err == nil && u != nil {
			return u
		}
	}

	seller := &userdom.User{ID: uid, Active: true, Role: userdom.RoleSeller}
	if email, ok := middleware.CurrentSellerEmail(r); ok {
		seller.Email = email
	}
	return seller
}
