package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "stoky/internal/domain/cart"
	productdom "stoky/internal/domain/product"
	saledom "stoky/internal/domain/sale"
	userdom "stoky/internal/domain/user"
)

type fakeSaleRepo struct {
	created []saledom.Sale
	fail    bool
}

func (r *fakeSaleRepo) Create(_ context.Context, s saledom.Sale) (string, error) {
	if r.fail {
		return "", errStoreDown
	}
	r.created = append(r.created, s)
	return "sale-1", nil
}

func (r *fakeSaleRepo) GetByID(_ context.Context, id string) (*saledom.Sale, error) {
	for i := range r.created {
		if r.created[i].ID == id {
			return &r.created[i], nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) ListByDay(_ context.Context, _ time.Time) ([]saledom.Sale, error) {
	return r.created, nil
}

type registeredSale struct {
	code   string
	qty    int
	amount float64
}

type fakeProductRepo struct {
	products   map[string]productdom.Product
	registered []registeredSale
	failSale   bool
}

func (r *fakeProductRepo) GetAll(_ context.Context) ([]productdom.Product, error) {
	out := make([]productdom.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) GetByCode(_ context.Context, code string) (*productdom.Product, error) {
	if p, ok := r.products[code]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByCategory(_ context.Context, category string) ([]productdom.Product, error) {
	var out []productdom.Product
	for _, p := range r.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) RegisterSale(_ context.Context, code string, qty int, amount float64) error {
	if r.failSale {
		return errStoreDown
	}
	r.registered = append(r.registered, registeredSale{code: code, qty: qty, amount: amount})
	return nil
}

type fakeMailer struct {
	sentTo []string
	fail   bool
}

func (m *fakeMailer) SendReceipt(_ context.Context, to string, _ saledom.Sale) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.sentTo = append(m.sentTo, to)
	return nil
}

type fakeMirror struct {
	inserted []saledom.Sale
	fail     bool
}

func (m *fakeMirror) Insert(_ context.Context, s saledom.Sale) error {
	if m.fail {
		return errors.New("pg down")
	}
	m.inserted = append(m.inserted, s)
	return nil
}

func testProduct(code string, stock int, price float64) productdom.Product {
	return productdom.Product{
		Code:        code,
		Description: "Producto " + code,
		Category:    "bebidas",
		Unit:        "unidad",
		Stock:       stock,
		Cost:        price / 2,
		Price:       price,
	}
}

func loadedLedger(t *testing.T) *cartdom.Ledger {
	t.Helper()
	l := cartdom.NewLedger()
	require.True(t, l.Add(testProduct("A1", 5, 10), 2))
	require.True(t, l.Add(testProduct("B2", 3, 4.5), 1))
	return l
}

func testSeller() *userdom.User {
	return &userdom.User{ID: "u-1", Email: "ana@stoky.app", Name: "Ana", Active: true}
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()

	sales := &fakeSaleRepo{}
	products := &fakeProductRepo{}
	mailer := &fakeMailer{}
	mirror := &fakeMirror{}
	uc := NewCheckoutUsecaseWithClock(sales, products, mailer, mirror, fixedClock{at: testNow})

	ledger := loadedLedger(t)
	s, err := uc.Confirm(ctx, ledger, testSeller())
	require.NoError(t, err)

	assert.Equal(t, "sale-1", s.ID)
	assert.Equal(t, testNow, s.CreatedAt)
	assert.Equal(t, "u-1", s.SellerID)
	require.Len(t, s.Lines, 2)
	assert.InDelta(t, 24.5, s.TotalAmount, 1e-9)

	assert.True(t, ledger.IsEmpty(), "ledger cleared after confirm")

	require.Len(t, products.registered, 2)
	assert.Equal(t, registeredSale{code: "A1", qty: 2, amount: 20}, products.registered[0])
	assert.Equal(t, registeredSale{code: "B2", qty: 1, amount: 4.5}, products.registered[1])

	require.Len(t, mirror.inserted, 1)
	assert.Equal(t, "sale-1", mirror.inserted[0].ID)
	assert.Equal(t, []string{"ana@stoky.app"}, mailer.sentTo)
}

func TestConfirmRejections(t *testing.T) {
	ctx := context.Background()
	uc := NewCheckoutUsecaseWithClock(&fakeSaleRepo{}, &fakeProductRepo{}, nil, nil, fixedClock{at: testNow})

	_, err := uc.Confirm(ctx, cartdom.NewLedger(), testSeller())
	assert.ErrorIs(t, err, ErrCheckoutEmptyCart)

	_, err = uc.Confirm(ctx, nil, testSeller())
	assert.ErrorIs(t, err, ErrCheckoutEmptyCart)

	_, err = uc.Confirm(ctx, loadedLedger(t), nil)
	assert.ErrorIs(t, err, ErrCheckoutSellerMissing)
}

func TestConfirmSaleCreateFailureKeepsLedger(t *testing.T) {
	ctx := context.Background()
	uc := NewCheckoutUsecaseWithClock(&fakeSaleRepo{fail: true}, &fakeProductRepo{}, nil, nil, fixedClock{at: testNow})

	ledger := loadedLedger(t)
	_, err := uc.Confirm(ctx, ledger, testSeller())
	require.Error(t, err)
	assert.False(t, ledger.IsEmpty(), "failed checkout must not lose the cart")
}

func TestConfirmBestEffortSidecarsNeverFailTheSale(t *testing.T) {
	ctx := context.Background()

	sales := &fakeSaleRepo{}
	products := &fakeProductRepo{failSale: true}
	uc := NewCheckoutUsecaseWithClock(sales, products,
		&fakeMailer{fail: true}, &fakeMirror{fail: true}, fixedClock{at: testNow})

	ledger := loadedLedger(t)
	s, err := uc.Confirm(ctx, ledger, testSeller())
	require.NoError(t, err)
	assert.Equal(t, "sale-1", s.ID)
	assert.True(t, ledger.IsEmpty())
	assert.Len(t, sales.created, 1)
}

func TestConfirmWithoutOptionalPorts(t *testing.T) {
	ctx := context.Background()
	uc := NewCheckoutUsecaseWithClock(&fakeSaleRepo{}, &fakeProductRepo{}, nil, nil, fixedClock{at: testNow})

	_, err := uc.Confirm(ctx, loadedLedger(t), testSeller())
	assert.NoError(t, err)
}
