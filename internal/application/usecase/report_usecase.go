// internal/application/usecase/report_usecase.go
package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	saledom "stoky/internal/domain/sale"
)

var (
	ErrReportUploaderMissing = errors.New("report_usecase: uploader is not configured")
)

// ReportUploader is an outbound port for the export bucket.
type ReportUploader interface {
	Upload(ctx context.Context, object string, contentType string, data []byte) error
}

// ReportUsecase exports one day of sales as CSV to the report bucket.
type ReportUsecase struct {
	sales    saledom.Repository
	uploader ReportUploader
}

func NewReportUsecase(sales saledom.Repository, uploader ReportUploader) *ReportUsecase {
	return &ReportUsecase{sales: sales, uploader: uploader}
}

// ExportDaily writes sales/YYYY-MM-DD.csv and returns the object name.
// A day with no sales still produces a header-only file.
func (uc *ReportUsecase) ExportDaily(ctx context.Context, day time.Time) (string, error) {
	if uc.uploader == nil {
		return "", ErrReportUploaderMissing
	}

	sales, err := uc.sales.ListByDay(ctx, day)
	if err != nil {
		return "", fmt.Errorf("report_usecase: list failed: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"venta", "fecha", "vendedor", "codigo", "descripcion", "cantidad", "precioUnitario", "subtotal"})
	for _, s := range sales {
		for _, line := range s.Lines {
			_ = w.Write([]string{
				s.ID,
				s.CreatedAt.UTC().Format(time.RFC3339),
				s.SellerID,
				line.Code,
				line.Description,
				strconv.Itoa(line.Quantity),
				strconv.FormatFloat(line.UnitPrice, 'f', 2, 64),
				strconv.FormatFloat(line.Subtotal, 'f', 2, 64),
			})
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("report_usecase: csv encode failed: %w", err)
	}

	object := "sales/" + day.UTC().Format("2006-01-02") + ".csv"
	if err := uc.uploader.Upload(ctx, object, "text/csv", buf.Bytes()); err != nil {
		return "", fmt.Errorf("report_usecase: upload failed: %w", err)
	}
	return object, nil
}
