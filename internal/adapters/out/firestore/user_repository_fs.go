// internal/adapters/out/firestore/user_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	userdom "stoky/internal/domain/user"
)

// UserRepositoryFS implements user.Repository using Firestore.
//
// Collection design:
// - collection: usuarios
// - docId: auto (assigned identifier)
// - lookups by "correo" / "googleId" use indexed equality queries
type UserRepositoryFS struct {
	Client *firestore.Client
}

func NewUserRepositoryFS(client *firestore.Client) *UserRepositoryFS {
	return &UserRepositoryFS{Client: client}
}

func (r *UserRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("usuarios")
}

// GetByID returns (nil, nil) if not found (nil policy).
func (r *UserRepositoryFS) GetByID(ctx context.Context, id string) (*userdom.User, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("user_repository_fs: firestore client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("user_repository_fs: id is empty")
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	u := docToUser(snap)
	return &u, nil
}

// GetByEmail returns the first active user for email, or (nil, nil).
func (r *UserRepositoryFS) GetByEmail(ctx context.Context, email string) (*userdom.User, error) {
	return r.getByField(ctx, "correo", strings.ToLower(strings.TrimSpace(email)))
}

// GetByGoogleID returns the first active user for googleID, or (nil, nil).
func (r *UserRepositoryFS) GetByGoogleID(ctx context.Context, googleID string) (*userdom.User, error) {
	return r.getByField(ctx, "googleId", strings.TrimSpace(googleID))
}

func (r *UserRepositoryFS) getByField(ctx context.Context, field, value string) (*userdom.User, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("user_repository_fs: firestore client is nil")
	}
	if value == "" {
		return nil, errors.New("user_repository_fs: lookup value is empty")
	}

	it := r.col().Where(field, "==", value).Where("activo", "==", true).Limit(1).Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u := docToUser(snap)
	return &u, nil
}

// Create persists a new user doc and returns the generated docId.
func (r *UserRepositoryFS) Create(ctx context.Context, u userdom.User) (string, error) {
	if r == nil || r.Client == nil {
		return "", errors.New("user_repository_fs: firestore client is nil")
	}

	doc := r.col().NewDoc()
	if _, err := doc.Set(ctx, userToDoc(u)); err != nil {
		return "", err
	}
	return doc.ID, nil
}

// Update overwrites the full document (last write wins).
func (r *UserRepositoryFS) Update(ctx context.Context, u userdom.User) error {
	if r == nil || r.Client == nil {
		return errors.New("user_repository_fs: firestore client is nil")
	}
	id := strings.TrimSpace(u.ID)
	if id == "" {
		return errors.New("user_repository_fs: Update requires user.ID")
	}

	_, err := r.col().Doc(id).Set(ctx, userToDoc(u))
	return err
}

// UpdateFields applies a partial field update by docId.
func (r *UserRepositoryFS) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if r == nil || r.Client == nil {
		return errors.New("user_repository_fs: firestore client is nil")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("user_repository_fs: id is empty")
	}
	if len(fields) == 0 {
		return nil
	}

	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	_, err := r.col().Doc(id).Update(ctx, updates)
	return err
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type userDoc struct {
	Email       string    `firestore:"correo"`
	Name        string    `firestore:"nombre"`
	Pwd         string    `firestore:"pwd"`
	Role        string    `firestore:"rol"`
	LoginMethod string    `firestore:"tipoLogin"`
	GoogleID    string    `firestore:"googleId"`
	CreatedAt   time.Time `firestore:"fechaCreacion"`
	LastLogin   time.Time `firestore:"ultimoLogin"`
	Active      bool      `firestore:"activo"`
}

func userToDoc(u userdom.User) userDoc {
	return userDoc{
		Email:       strings.ToLower(strings.TrimSpace(u.Email)),
		Name:        u.Name,
		Pwd:         u.PasswordHash,
		Role:        string(u.Role),
		LoginMethod: string(u.LoginMethod),
		GoogleID:    u.GoogleID,
		CreatedAt:   u.CreatedAt,
		LastLogin:   u.LastLogin,
		Active:      u.Active,
	}
}

// docToUser parses document data defensively: docs written by older app
// versions may miss fields, so every read goes through typed accessors
// with defaults instead of DataTo on a strict struct.
func docToUser(snap *firestore.DocumentSnapshot) userdom.User {
	raw := snap.Data()
	if raw == nil {
		raw = map[string]any{}
	}

	u := userdom.User{
		ID:           snap.Ref.ID,
		Email:        asString(raw["correo"]),
		Name:         asString(raw["nombre"]),
		PasswordHash: asString(raw["pwd"]),
		Role:         userdom.Role(asString(raw["rol"])),
		LoginMethod:  userdom.LoginMethod(asString(raw["tipoLogin"])),
		GoogleID:     asString(raw["googleId"]),
		Active:       asBool(raw["activo"], true),
	}
	if u.Role == "" {
		u.Role = userdom.RoleSeller
	}
	if u.LoginMethod == "" {
		u.LoginMethod = userdom.LoginEmail
	}
	if t, ok := asTime(raw["fechaCreacion"]); ok {
		u.CreatedAt = t
	}
	if t, ok := asTime(raw["ultimoLogin"]); ok {
		u.LastLogin = t
	}
	return u
}
