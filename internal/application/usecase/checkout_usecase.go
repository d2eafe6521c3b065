// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	cartdom "stoky/internal/domain/cart"
	productdom "stoky/internal/domain/product"
	saledom "stoky/internal/domain/sale"
	userdom "stoky/internal/domain/user"
)

var (
	ErrCheckoutEmptyCart     = errors.New("checkout_usecase: cart is empty")
	ErrCheckoutSellerMissing = errors.New("checkout_usecase: seller is missing")
)

// ReceiptMailer is an outbound port; delivery is best-effort.
type ReceiptMailer interface {
	SendReceipt(ctx context.Context, to string, s saledom.Sale) error
}

// ReportMirror is an outbound port for the Postgres reporting copy;
// the mirror write is best-effort and never fails the sale.
type ReportMirror interface {
	Insert(ctx context.Context, s saledom.Sale) error
}

// CheckoutUsecase turns a ledger into a confirmed sale:
// 1) persist the sale document
// 2) register each sold line on its product (stock decrement + reporting fields)
// 3) clear the ledger
// 4) best-effort: receipt mail, reporting mirror
//
// Each store write is a single atomic document write; there is no multi-step
// transaction to roll back. A failure between (1) and (2) leaves the sale
// recorded with stale stock, which the reporting pipeline reconciles.
type CheckoutUsecase struct {
	sales    saledom.Repository
	products productdom.Repository
	mailer   ReceiptMailer // optional
	mirror   ReportMirror  // optional
	clock    Clock
}

func NewCheckoutUsecase(sales saledom.Repository, products productdom.Repository, mailer ReceiptMailer, mirror ReportMirror) *CheckoutUsecase {
	return &CheckoutUsecase{
		sales:    sales,
		products: products,
		mailer:   mailer,
		mirror:   mirror,
		clock:    systemClock{},
	}
}

// NewCheckoutUsecaseWithClock is useful for tests.
func NewCheckoutUsecaseWithClock(sales saledom.Repository, products productdom.Repository, mailer ReceiptMailer, mirror ReportMirror, clock Clock) *CheckoutUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CheckoutUsecase{sales: sales, products: products, mailer: mailer, mirror: mirror, clock: clock}
}

// Confirm finalizes the checkout session held in ledger for seller.
// On success the ledger is empty and the returned sale carries its assigned id.
func (uc *CheckoutUsecase) Confirm(ctx context.Context, ledger *cartdom.Ledger, seller *userdom.User) (saledom.Sale, error) {
	if seller == nil {
		return saledom.Sale{}, ErrCheckoutSellerMissing
	}
	if ledger == nil || ledger.IsEmpty() {
		return saledom.Sale{}, ErrCheckoutEmptyCart
	}

	now := uc.clock.Now()
	s, err := saledom.NewFromEntries(ledger.Items(), seller.ID, seller.Email, now)
	if err != nil {
		return saledom.Sale{}, err
	}

	id, err := uc.sales.Create(ctx, s)
	if err != nil {
		return saledom.Sale{}, fmt.Errorf("checkout_usecase: sale create failed: %w", err)
	}
	s.ID = id

	for _, line := range s.Lines {
		if err := uc.products.RegisterSale(ctx, line.Code, line.Quantity, line.Subtotal); err != nil {
			// The sale document is the source of truth; stock catches up later.
			log.Printf("[checkout_usecase] stock update failed sale=%s code=%s: %v", s.ID, line.Code, err)
		}
	}

	ledger.Clear()

	if uc.mirror != nil {
		if err := uc.mirror.Insert(ctx, s); err != nil {
			log.Printf("[checkout_usecase] reporting mirror insert failed sale=%s: %v", s.ID, err)
		}
	}

	if uc.mailer != nil && s.SellerEmail != "" {
		if err := uc.mailer.SendReceipt(ctx, s.SellerEmail, s); err != nil {
			log.Printf("[checkout_usecase] receipt mail failed sale=%s to=%s: %v", s.ID, s.SellerEmail, err)
		}
	}

	return s, nil
}
