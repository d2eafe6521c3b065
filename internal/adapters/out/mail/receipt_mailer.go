// internal/adapters/out/mail/receipt_mailer.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	saledom "stoky/internal/domain/sale"
)

// EmailClient is the raw send port (implemented by SendGridClient).
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// ReceiptMailer renders a plain-text receipt and sends it to the seller.
type ReceiptMailer struct {
	client EmailClient
	from   string
}

func NewReceiptMailer(client EmailClient, from string) *ReceiptMailer {
	return &ReceiptMailer{client: client, from: from}
}

// SendReceipt sends the receipt for a confirmed sale.
func (m *ReceiptMailer) SendReceipt(ctx context.Context, to string, s saledom.Sale) error {
	if m == nil || m.client == nil {
		return errors.New("receipt_mailer: email client is nil")
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return errors.New("receipt_mailer: recipient is empty")
	}

	subject := fmt.Sprintf("Venta confirmada %s (total %.2f)", s.ID, s.TotalAmount)
	return m.client.Send(ctx, m.from, to, subject, renderReceipt(s))
}

func renderReceipt(s saledom.Sale) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Venta: %s\n", s.ID)
	fmt.Fprintf(&b, "Fecha: %s\n", s.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Vendedor: %s\n\n", s.SellerID)
	for _, line := range s.Lines {
		fmt.Fprintf(&b, "%-12s %-30s x%-3d %8.2f  %10.2f\n",
			line.Code, line.Description, line.Quantity, line.UnitPrice, line.Subtotal)
	}
	fmt.Fprintf(&b, "\nArtículos: %d\nTotal: %.2f\n", s.TotalQuantity, s.TotalAmount)
	return b.String()
}
