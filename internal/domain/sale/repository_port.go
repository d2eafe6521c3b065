// internal/domain/sale/repository_port.go
package sale

import (
	"context"
	"time"
)

// Repository is a persistence port for Sale.
//
// Storage (Firestore):
// - collection: ventas
// - docId: auto
// - "fecha" is range-queried for the daily report export
type Repository interface {
	// Create persists the sale and returns the assigned document id.
	Create(ctx context.Context, s Sale) (string, error)

	GetByID(ctx context.Context, id string) (*Sale, error)

	// ListByDay returns the sales whose fecha falls on the given calendar
	// day (UTC), ordered by fecha ascending.
	ListByDay(ctx context.Context, day time.Time) ([]Sale, error)
}
