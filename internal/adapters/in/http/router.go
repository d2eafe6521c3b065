// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	firebaseauth "firebase.google.com/go/v4/auth"

	"stoky/internal/adapters/in/http/handler"
	"stoky/internal/adapters/in/http/middleware"
	"stoky/internal/adapters/in/http/session"
	usecase "stoky/internal/application/usecase"
	userdom "stoky/internal/domain/user"
)

// RouterDeps collects the usecases (and other dependencies) injected from the container.
type RouterDeps struct {
	AuthUC     *usecase.AuthUsecase
	CatalogUC  *usecase.CatalogUsecase
	CheckoutUC *usecase.CheckoutUsecase
	ReportUC   *usecase.ReportUsecase

	// CheckoutHandler resolves the seller record for receipts.
	UserRepo userdom.Repository

	// FirebaseAuth gates the selling routes (cart/checkout).
	FirebaseAuth *firebaseauth.Client
}

// NewRouter sets up HTTP routing for all POS endpoints.
// Handlers whose dependencies are missing simply stay unmounted.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// Health check (always on)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if deps.AuthUC != nil {
		mux.Handle("/auth/", handler.NewAuthHandler(deps.AuthUC))
	}

	if deps.CatalogUC != nil {
		mux.Handle("/products", handler.NewProductHandler(deps.CatalogUC))
		mux.Handle("/products/", handler.NewProductHandler(deps.CatalogUC))
	}

	// Selling routes require a verified seller token.
	if deps.FirebaseAuth != nil && deps.CatalogUC != nil {
		sellerAuth := &middleware.SellerAuthMiddleware{FirebaseAuth: deps.FirebaseAuth}
		sessions := session.NewRegistry()

		cartHandler := handler.NewCartHandler(sessions, deps.CatalogUC)
		mux.Handle("/cart", sellerAuth.Handler(cartHandler))
		mux.Handle("/cart/", sellerAuth.Handler(cartHandler))

		if deps.CheckoutUC != nil {
			mux.Handle("/checkout/confirm", sellerAuth.Handler(
				handler.NewCheckoutHandler(sessions, deps.CheckoutUC, deps.UserRepo)))
		}
	}

	if deps.ReportUC != nil {
		mux.Handle("/reports/sales/export", handler.NewReportHandler(deps.ReportUC))
	}

	return mux
}
