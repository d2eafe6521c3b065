// internal/domain/user/repository_port.go
package user

import "context"

// Repository is a persistence port for User.
//
// Storage (Firestore):
// - collection: usuarios
// - docId: auto (the assigned identifier)
// - "correo" is queried with an indexed equality filter; the old
//   scan-the-whole-collection lookup must not come back.
//
// Not-found policy: GetByID / GetByEmail / GetByGoogleID return (nil, nil)
// when no document matches.
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail returns the first active user with the given email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	GetByGoogleID(ctx context.Context, googleID string) (*User, error)

	// Create persists a new user and returns the assigned document id.
	Create(ctx context.Context, u User) (string, error)

	// Update overwrites the full document (last write wins).
	Update(ctx context.Context, u User) error

	// UpdateFields applies a partial field update by document id.
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}
