// internal/adapters/in/http/handler/product_handler.go
package handler

import (
	"errors"
	"net/http"
	"strings"

	"stoky/internal/application/usecase"
)

// ProductHandler serves the catalog read endpoints:
//
//	GET /products                  full catalog
//	GET /products?q=...            substring search
//	GET /products?categoria=...    category filter
//	GET /products/in-stock         sellable subset
//	GET /products/{codigo}         single product (barcode scan path)
type ProductHandler struct {
	uc *usecase.CatalogUsecase
}

func NewProductHandler(uc *usecase.CatalogUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "product handler is not configured")
		return
	}
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")

	switch {
	case strings.HasSuffix(path, "/products/in-stock"):
		products, err := h.uc.InStock(r.Context())
		if err != nil {
			writeErr(w, http.StatusInternalServerError, "catálogo no disponible")
			return
		}
		writeJSON(w, http.StatusOK, products)

	case strings.HasSuffix(path, "/products"):
		if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
			products, err := h.uc.Search(r.Context(), q)
			if err != nil {
				writeErr(w, http.StatusInternalServerError, "catálogo no disponible")
				return
			}
			writeJSON(w, http.StatusOK, products)
			return
		}
		if cat := strings.TrimSpace(r.URL.Query().Get("categoria")); cat != "" {
			products, err := h.uc.GetByCategory(r.Context(), cat)
			if err != nil {
				writeErr(w, http.StatusInternalServerError, "catálogo no disponible")
				return
			}
			writeJSON(w, http.StatusOK, products)
			return
		}
		products, err := h.uc.GetAll(r.Context())
		if err != nil {
			writeErr(w, http.StatusInternalServerError, "catálogo no disponible")
			return
		}
		writeJSON(w, http.StatusOK, products)

	default:
		// /products/{codigo}
		code := path[strings.LastIndex(path, "/")+1:]
		p, err := h.uc.GetByCode(r.Context(), code)
		if err != nil {
			if errors.Is(err, usecase.ErrCatalogNotFound) {
				writeErr(w, http.StatusNotFound, "producto no encontrado")
				return
			}
			if errors.Is(err, usecase.ErrCatalogInvalidArgument) {
				writeErr(w, http.StatusBadRequest, "código inválido")
				return
			}
			writeErr(w, http.StatusInternalServerError, "catálogo no disponible")
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}
