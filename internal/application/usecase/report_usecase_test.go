package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	saledom "stoky/internal/domain/sale"
)

type fakeUploader struct {
	object      string
	contentType string
	data        []byte
}

func (u *fakeUploader) Upload(_ context.Context, object, contentType string, data []byte) error {
	u.object = object
	u.contentType = contentType
	u.data = data
	return nil
}

func TestExportDaily(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	sales := &fakeSaleRepo{created: []saledom.Sale{{
		ID:       "sale-1",
		SellerID: "u-1",
		Lines: []saledom.Line{
			{Code: "A1", Description: "Coca Cola 500ml", Quantity: 2, UnitPrice: 10, Subtotal: 20},
		},
		TotalQuantity: 2,
		TotalAmount:   20,
		CreatedAt:     day.Add(14 * time.Hour),
	}}}
	up := &fakeUploader{}
	uc := NewReportUsecase(sales, up)

	object, err := uc.ExportDaily(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "sales/2025-06-01.csv", object)
	assert.Equal(t, "text/csv", up.contentType)

	lines := strings.Split(strings.TrimSpace(string(up.data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "venta,fecha,vendedor,codigo,descripcion,cantidad,precioUnitario,subtotal", lines[0])
	assert.Equal(t, "sale-1,2025-06-01T14:00:00Z,u-1,A1,Coca Cola 500ml,2,10.00,20.00", lines[1])
}

func TestExportDailyEmptyDayWritesHeaderOnly(t *testing.T) {
	up := &fakeUploader{}
	uc := NewReportUsecase(&fakeSaleRepo{}, up)

	object, err := uc.ExportDaily(context.Background(), time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "sales/2025-06-02.csv", object)

	lines := strings.Split(strings.TrimSpace(string(up.data)), "\n")
	assert.Len(t, lines, 1)
}

func TestExportDailyWithoutUploader(t *testing.T) {
	uc := NewReportUsecase(&fakeSaleRepo{}, nil)
	_, err := uc.ExportDaily(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrReportUploaderMissing)
}
