// internal/adapters/out/postgres/sale_report_repository_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	saledom "stoky/internal/domain/sale"
)

// SaleReportRepositoryPG mirrors confirmed sales into Postgres for reporting.
// Firestore stays the source of truth; this copy only feeds SQL dashboards.
type SaleReportRepositoryPG struct {
	DB *sql.DB
}

func NewSaleReportRepositoryPG(db *sql.DB) *SaleReportRepositoryPG {
	return &SaleReportRepositoryPG{DB: db}
}

// EnsureSchema creates the reporting tables when they do not exist yet.
func (r *SaleReportRepositoryPG) EnsureSchema(ctx context.Context) error {
	if r == nil || r.DB == nil {
		return errors.New("sale_report_repository_pg: db is nil")
	}

	const ddl = `
CREATE TABLE IF NOT EXISTS pos_sales (
    id             TEXT PRIMARY KEY,
    seller_id      TEXT NOT NULL,
    seller_email   TEXT NOT NULL DEFAULT '',
    total_quantity INTEGER NOT NULL,
    total_amount   NUMERIC(12,2) NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS pos_sale_lines (
    sale_id     TEXT NOT NULL REFERENCES pos_sales(id) ON DELETE CASCADE,
    code        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    quantity    INTEGER NOT NULL,
    unit_price  NUMERIC(12,2) NOT NULL,
    subtotal    NUMERIC(12,2) NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pos_sales_created_at ON pos_sales (created_at);
`
	if _, err := r.DB.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sale_report_repository_pg: schema init failed: %w", err)
	}
	return nil
}

// Insert writes the sale and its lines in one transaction.
// Re-inserting the same sale id is a no-op (the mirror is retried by callers).
func (r *SaleReportRepositoryPG) Insert(ctx context.Context, s saledom.Sale) error {
	if r == nil || r.DB == nil {
		return errors.New("sale_report_repository_pg: db is nil")
	}
	if s.ID == "" {
		return errors.New("sale_report_repository_pg: sale id is empty")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sale_report_repository_pg: begin failed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO pos_sales (id, seller_id, seller_email, total_quantity, total_amount, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING`,
		s.ID, s.SellerID, s.SellerEmail, s.TotalQuantity, s.TotalAmount, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sale_report_repository_pg: sale insert failed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// already mirrored
		return nil
	}

	for _, line := range s.Lines {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pos_sale_lines (sale_id, code, description, quantity, unit_price, subtotal)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			s.ID, line.Code, line.Description, line.Quantity, line.UnitPrice, line.Subtotal,
		); err != nil {
			return fmt.Errorf("sale_report_repository_pg: line insert failed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sale_report_repository_pg: commit failed: %w", err)
	}
	return nil
}
