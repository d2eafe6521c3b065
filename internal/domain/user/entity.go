// internal/domain/user/entity.go
package user

import (
	"errors"
	"strings"
	"time"
)

// Errors (single source)
var (
	ErrInvalidID          = errors.New("user: invalid id")
	ErrInvalidEmail       = errors.New("user: invalid email")
	ErrInvalidName        = errors.New("user: invalid name")
	ErrInvalidLoginMethod = errors.New("user: invalid login method")
	ErrInvalidCreatedAt   = errors.New("user: invalid createdAt")
)

// Role is the seller role stored on the user document.
type Role string

const (
	RoleSeller Role = "vendedor"
	RoleAdmin  Role = "admin"
)

// LoginMethod marks which credential types an account accepts.
type LoginMethod string

const (
	LoginEmail  LoginMethod = "email"
	LoginGoogle LoginMethod = "google"
	LoginBoth   LoginMethod = "both"
)

// User mirrors the "usuarios" document.
//
// Invariant: LoginMethod must agree with the populated credential fields
// (email => PasswordHash present; google => GoogleID present; both => both).
// Email is unique across active documents.
type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"correo"`
	Name         string      `json:"nombre"`
	PasswordHash string      `json:"-"`
	Role         Role        `json:"rol"`
	LoginMethod  LoginMethod `json:"tipoLogin"`
	GoogleID     string      `json:"googleId,omitempty"`
	CreatedAt    time.Time   `json:"fechaCreacion"`
	LastLogin    time.Time   `json:"ultimoLogin"`
	Active       bool        `json:"activo"`
}

// NewGoogleUser builds a fresh google-only account (first Google sign-in).
func NewGoogleUser(email, name, googleID string, now time.Time) (User, error) {
	u := User{
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Name:        strings.TrimSpace(name),
		Role:        RoleSeller,
		LoginMethod: LoginGoogle,
		GoogleID:    strings.TrimSpace(googleID),
		CreatedAt:   now.UTC(),
		LastLogin:   now.UTC(),
		Active:      true,
	}
	if u.Name == "" {
		u.Name = "Usuario Google"
	}
	if err := u.Validate(); err != nil {
		return User{}, err
	}
	return u, nil
}

// LinkGoogle merges a Google identity into an email-only account.
// The password hash is left untouched so email login keeps working.
func (u *User) LinkGoogle(googleID string, now time.Time) error {
	gid := strings.TrimSpace(googleID)
	if gid == "" {
		return ErrInvalidLoginMethod
	}
	if u.LoginMethod != LoginEmail {
		return ErrInvalidLoginMethod
	}
	u.LoginMethod = LoginBoth
	u.GoogleID = gid
	u.LastLogin = now.UTC()
	return u.Validate()
}

// TouchLogin refreshes the last-login timestamp.
func (u *User) TouchLogin(now time.Time) {
	u.LastLogin = now.UTC()
}

// CanUseEmail reports whether email/password login applies to this account.
func (u User) CanUseEmail() bool {
	return u.LoginMethod == LoginEmail || u.LoginMethod == LoginBoth
}

// CanUseGoogle reports whether Google login applies to this account.
func (u User) CanUseGoogle() bool {
	return u.LoginMethod == LoginGoogle || u.LoginMethod == LoginBoth
}

// Validate checks the credential/method agreement invariant.
// ID may be empty before the store assigns one.
func (u User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(u.Name) == "" {
		return ErrInvalidName
	}
	if u.CreatedAt.IsZero() {
		return ErrInvalidCreatedAt
	}
	switch u.LoginMethod {
	case LoginEmail:
		if u.PasswordHash == "" {
			return ErrInvalidLoginMethod
		}
	case LoginGoogle:
		if strings.TrimSpace(u.GoogleID) == "" {
			return ErrInvalidLoginMethod
		}
	case LoginBoth:
		if u.PasswordHash == "" || strings.TrimSpace(u.GoogleID) == "" {
			return ErrInvalidLoginMethod
		}
	default:
		return ErrInvalidLoginMethod
	}
	return nil
}
