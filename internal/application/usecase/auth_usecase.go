// internal/application/usecase/auth_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	userdom "stoky/internal/domain/user"
)

var (
	ErrAuthInvalidArgument = errors.New("auth_usecase: invalid argument")
	ErrAuthEmailTaken      = errors.New("auth_usecase: email already registered")
	ErrAuthUserNotFound    = errors.New("auth_usecase: user not found")
)

// Validation policy (checked before any I/O).
var (
	emailPattern      = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	MinPasswordLength = 6
)

// PasswordHasher is the outbound port for the KDF service.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, stored string) bool
}

// GoogleIdentity is the verified result of an ID token exchange.
// The exchange is trusted as-is; no further local verification happens.
type GoogleIdentity struct {
	UID   string
	Email string
	Name  string
}

// GoogleTokenVerifier is the outbound port for the external identity provider.
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (GoogleIdentity, error)
}

// LoginResult is the tagged outcome of a login attempt. Business failures and
// store failures both land on the failure branch; callers never see a raw
// fault and can only tell them apart by message text.
type LoginResult struct {
	Success      bool          `json:"success"`
	User         *userdom.User `json:"usuario,omitempty"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
	LoginMethod  string        `json:"tipoLogin,omitempty"`
}

func loginFailure(msg string) LoginResult {
	return LoginResult{Success: false, ErrorMessage: msg}
}

// AuthUsecase resolves login attempts against the user store, creating,
// matching, or merging accounts.
type AuthUsecase struct {
	users    userdom.Repository
	hasher   PasswordHasher
	verifier GoogleTokenVerifier
	clock    Clock
}

func NewAuthUsecase(users userdom.Repository, hasher PasswordHasher, verifier GoogleTokenVerifier) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		clock:    systemClock{},
	}
}

// NewAuthUsecaseWithClock is useful for tests.
func NewAuthUsecaseWithClock(users userdom.Repository, hasher PasswordHasher, verifier GoogleTokenVerifier, clock Clock) *AuthUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &AuthUsecase{users: users, hasher: hasher, verifier: verifier, clock: clock}
}

// LoginWithEmail authenticates an email/password account.
// Lookup is an indexed query by email; inactive accounts never match.
func (uc *AuthUsecase) LoginWithEmail(ctx context.Context, email, password string) LoginResult {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return loginFailure("Correo inválido")
	}
	if password == "" {
		return loginFailure("Contraseña requerida")
	}

	u, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		log.Printf("[auth_usecase] email login store error: %v", err)
		return loginFailure("Error al conectar con la base de datos")
	}
	if u == nil || !u.Active {
		return loginFailure("Usuario no encontrado o inactivo")
	}

	if !u.CanUseEmail() {
		return loginFailure("Este usuario debe iniciar sesión con Google")
	}

	if u.PasswordHash == "" || !uc.hasher.Verify(password, u.PasswordHash) {
		return loginFailure("Contraseña incorrecta")
	}

	u.TouchLogin(uc.clock.Now())
	if err := uc.users.UpdateFields(ctx, u.ID, map[string]any{"ultimoLogin": u.LastLogin}); err != nil {
		// Non-fatal: the login itself already succeeded.
		log.Printf("[auth_usecase] last-login refresh failed id=%s: %v", u.ID, err)
	}

	return LoginResult{Success: true, User: u, LoginMethod: string(userdom.LoginEmail)}
}

// LoginWithGoogle exchanges the ID token for a verified identity and then
// creates, matches, or merges the user record:
//
//	no record              -> create (method=google)
//	method=email           -> auto-link to "both" (implicit merge by email)
//	method=google / both   -> normal re-login
//	anything else          -> unrecognized login method
func (uc *AuthUsecase) LoginWithGoogle(ctx context.Context, idToken string) LoginResult {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return loginFailure("Token de Google requerido")
	}

	ident, err := uc.verifier.Verify(ctx, idToken)
	if err != nil {
		log.Printf("[auth_usecase] google token verify failed: %v", err)
		return loginFailure("Error en la autenticación con Google")
	}

	email := strings.ToLower(strings.TrimSpace(ident.Email))
	if email == "" {
		return loginFailure("Error obteniendo datos de Google")
	}

	now := uc.clock.Now()

	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		log.Printf("[auth_usecase] google login store error: %v", err)
		return loginFailure("Error al acceder a la base de datos")
	}

	if existing == nil {
		nu, err := userdom.NewGoogleUser(email, ident.Name, ident.UID, now)
		if err != nil {
			return loginFailure(fmt.Sprintf("Error creando usuario: %v", err))
		}
		id, err := uc.users.Create(ctx, nu)
		if err != nil {
			log.Printf("[auth_usecase] google user create failed email=%s: %v", email, err)
			return loginFailure("Error creando usuario")
		}
		nu.ID = id
		return LoginResult{Success: true, User: &nu, LoginMethod: string(userdom.LoginGoogle)}
	}

	switch existing.LoginMethod {
	case userdom.LoginEmail:
		// Auto-link: merge the Google identity into the email account.
		// The password hash stays intact. Known gap: two concurrent first
		// Google logins race on this full-document overwrite (last write wins).
		if err := existing.LinkGoogle(ident.UID, now); err != nil {
			return loginFailure("Error vinculando cuenta")
		}
		if err := uc.users.Update(ctx, *existing); err != nil {
			log.Printf("[auth_usecase] auto-link update failed id=%s: %v", existing.ID, err)
			return loginFailure("Error vinculando cuenta")
		}
		return LoginResult{Success: true, User: existing, LoginMethod: string(userdom.LoginBoth)}

	case userdom.LoginGoogle, userdom.LoginBoth:
		existing.TouchLogin(now)
		if err := uc.users.UpdateFields(ctx, existing.ID, map[string]any{"ultimoLogin": existing.LastLogin}); err != nil {
			log.Printf("[auth_usecase] last-login refresh failed id=%s: %v", existing.ID, err)
		}
		return LoginResult{Success: true, User: existing, LoginMethod: string(existing.LoginMethod)}

	default:
		// Unreachable while the entity invariant holds; kept defensive.
		return loginFailure("Tipo de login no reconocido")
	}
}

// LinkAccounts is the explicit, confirmation-gated variant of the auto-link:
// the caller has already confirmed ownership of the email account.
func (uc *AuthUsecase) LinkAccounts(ctx context.Context, userID, googleUID string) LoginResult {
	userID = strings.TrimSpace(userID)
	googleUID = strings.TrimSpace(googleUID)
	if userID == "" || googleUID == "" {
		return loginFailure("Datos de vinculación incompletos")
	}

	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("[auth_usecase] link lookup failed id=%s: %v", userID, err)
		return loginFailure("Error al acceder a la base de datos")
	}
	if u == nil || !u.Active {
		return loginFailure("Usuario no encontrado o inactivo")
	}

	if err := u.LinkGoogle(googleUID, uc.clock.Now()); err != nil {
		return loginFailure("La cuenta no admite vinculación con Google")
	}
	if err := uc.users.Update(ctx, *u); err != nil {
		log.Printf("[auth_usecase] link update failed id=%s: %v", userID, err)
		return loginFailure("Error vinculando cuentas")
	}
	return LoginResult{Success: true, User: u, LoginMethod: string(userdom.LoginBoth)}
}

// CreateUserInput carries the registration fields; Password is plaintext and
// is replaced by its hash before anything is persisted.
type CreateUserInput struct {
	Email    string
	Name     string
	Password string
	Role     userdom.Role
}

// CreateUser registers a new email-method account and returns the assigned id.
func (uc *AuthUsecase) CreateUser(ctx context.Context, in CreateUserInput) (string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)

	if !emailPattern.MatchString(email) {
		return "", fmt.Errorf("%w: email", ErrAuthInvalidArgument)
	}
	if name == "" {
		return "", fmt.Errorf("%w: name", ErrAuthInvalidArgument)
	}
	if len(in.Password) < MinPasswordLength {
		return "", fmt.Errorf("%w: password too short", ErrAuthInvalidArgument)
	}

	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("auth_usecase: lookup failed: %w", err)
	}
	if existing != nil && existing.Active {
		return "", ErrAuthEmailTaken
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return "", fmt.Errorf("auth_usecase: hash failed: %w", err)
	}

	role := in.Role
	if role == "" {
		role = userdom.RoleSeller
	}

	now := uc.clock.Now().UTC()
	u := userdom.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		LoginMethod:  userdom.LoginEmail,
		CreatedAt:    now,
		LastLogin:    now,
		Active:       true,
	}
	if err := u.Validate(); err != nil {
		return "", err
	}

	id, err := uc.users.Create(ctx, u)
	if err != nil {
		return "", fmt.Errorf("auth_usecase: create failed: %w", err)
	}
	return id, nil
}

// UpdatePassword rehashes and writes only the pwd field of the document.
func (uc *AuthUsecase) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: userID", ErrAuthInvalidArgument)
	}
	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("%w: password too short", ErrAuthInvalidArgument)
	}

	u, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("auth_usecase: lookup failed: %w", err)
	}
	if u == nil {
		return ErrAuthUserNotFound
	}

	hash, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("auth_usecase: hash failed: %w", err)
	}
	return uc.users.UpdateFields(ctx, userID, map[string]any{"pwd": hash})
}
