// internal/adapters/out/gcs/sales_report_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/storage"
)

// SalesReportGCS uploads exported sales reports to a GCS bucket.
type SalesReportGCS struct {
	Client *storage.Client
	Bucket string
}

func NewSalesReportGCS(client *storage.Client, bucket string) *SalesReportGCS {
	return &SalesReportGCS{Client: client, Bucket: bucket}
}

// Upload writes data to gs://<bucket>/<object>, overwriting any previous export.
func (r *SalesReportGCS) Upload(ctx context.Context, object string, contentType string, data []byte) error {
	if r == nil || r.Client == nil {
		return errors.New("sales_report_gcs: storage client is nil")
	}
	bucket := strings.TrimSpace(r.Bucket)
	if bucket == "" {
		return errors.New("sales_report_gcs: bucket is empty")
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return errors.New("sales_report_gcs: object name is empty")
	}

	w := r.Client.Bucket(bucket).Object(object).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("sales_report_gcs: write failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("sales_report_gcs: close failed: %w", err)
	}

	log.Printf("[sales_report_gcs] uploaded object=%s bytes=%d", object, len(data))
	return nil
}
