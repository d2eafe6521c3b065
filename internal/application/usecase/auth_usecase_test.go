package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userdom "stoky/internal/domain/user"
)

// ----------------------------
// Fakes
// ----------------------------

type fakeUserRepo struct {
	users  map[string]*userdom.User // id -> user
	nextID int

	failLookups bool
	failWrites  bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*userdom.User{}, nextID: 1}
}

var errStoreDown = errors.New("store unreachable")

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*userdom.User, error) {
	if r.failLookups {
		return nil, errStoreDown
	}
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*userdom.User, error) {
	if r.failLookups {
		return nil, errStoreDown
	}
	for _, u := range r.users {
		if u.Email == email && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByGoogleID(_ context.Context, googleID string) (*userdom.User, error) {
	if r.failLookups {
		return nil, errStoreDown
	}
	for _, u := range r.users {
		if u.GoogleID == googleID && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(_ context.Context, u userdom.User) (string, error) {
	if r.failWrites {
		return "", errStoreDown
	}
	id := "u" + time.Now().Format("0102") + string(rune('0'+r.nextID))
	r.nextID++
	u.ID = id
	r.users[id] = &u
	return id, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u userdom.User) error {
	if r.failWrites {
		return errStoreDown
	}
	cp := u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	if r.failWrites {
		return errStoreDown
	}
	u, ok := r.users[id]
	if !ok {
		return errors.New("not found")
	}
	if v, ok := fields["pwd"]; ok {
		u.PasswordHash = v.(string)
	}
	if v, ok := fields["ultimoLogin"]; ok {
		u.LastLogin = v.(time.Time)
	}
	return nil
}

// fakeHasher marks hashes as "h(<plain>)" so tests can assert without a KDF.
type fakeHasher struct{ failing bool }

func (f fakeHasher) Hash(password string) (string, error) {
	if f.failing {
		return "", errors.New("kdf broken")
	}
	return "h(" + password + ")", nil
}

func (f fakeHasher) Verify(password, stored string) bool {
	return stored == "h("+password+")"
}

type fakeVerifier struct {
	ident GoogleIdentity
	err   error
}

func (f fakeVerifier) Verify(context.Context, string) (GoogleIdentity, error) {
	return f.ident, f.err
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func seedEmailUser(r *fakeUserRepo, email, password string, active bool) *userdom.User {
	u := &userdom.User{
		ID:           "u-email",
		Email:        email,
		Name:         "Ana",
		PasswordHash: "h(" + password + ")",
		Role:         userdom.RoleSeller,
		LoginMethod:  userdom.LoginEmail,
		CreatedAt:    testNow.Add(-24 * time.Hour),
		LastLogin:    testNow.Add(-24 * time.Hour),
		Active:       active,
	}
	r.users[u.ID] = u
	return u
}

func newAuthUC(r *fakeUserRepo, v GoogleTokenVerifier) *AuthUsecase {
	return NewAuthUsecaseWithClock(r, fakeHasher{}, v, fixedClock{at: testNow})
}

// ----------------------------
// LoginWithEmail
// ----------------------------

func TestLoginWithEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := newFakeUserRepo()
		seedEmailUser(repo, "ana@stoky.app", "secreto", true)
		uc := newAuthUC(repo, fakeVerifier{})

		res := uc.LoginWithEmail(ctx, " Ana@Stoky.App ", "secreto")
		require.True(t, res.Success)
		require.NotNil(t, res.User)
		assert.Equal(t, "ana@stoky.app", res.User.Email)
		assert.Equal(t, "email", res.LoginMethod)
		assert.Equal(t, testNow, repo.users["u-email"].LastLogin, "last login refreshed")
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := newFakeUserRepo()
		seedEmailUser(repo, "ana@stoky.app", "secreto", true)
		uc := newAuthUC(repo, fakeVerifier{})

		res := uc.LoginWithEmail(ctx, "ana@stoky.app", "otra")
		assert.False(t, res.Success)
		assert.Nil(t, res.User)
		assert.Equal(t, "Contraseña incorrecta", res.ErrorMessage)
	})

	t.Run("unknown email", func(t *testing.T) {
		uc := newAuthUC(newFakeUserRepo(), fakeVerifier{})
		res := uc.LoginWithEmail(ctx, "nadie@stoky.app", "secreto")
		assert.False(t, res.Success)
		assert.Equal(t, "Usuario no encontrado o inactivo", res.ErrorMessage)
	})

	t.Run("inactive account", func(t *testing.T) {
		repo := newFakeUserRepo()
		seedEmailUser(repo, "ana@stoky.app", "secreto", false)
		uc := newAuthUC(repo, fakeVerifier{})

		res := uc.LoginWithEmail(ctx, "ana@stoky.app", "secreto")
		assert.False(t, res.Success)
		assert.Equal(t, "Usuario no encontrado o inactivo", res.ErrorMessage)
	})

	t.Run("google-only account", func(t *testing.T) {
		repo := newFakeUserRepo()
		u := seedEmailUser(repo, "ana@stoky.app", "secreto", true)
		u.LoginMethod = userdom.LoginGoogle
		u.PasswordHash = ""
		u.GoogleID = "g-1"
		uc := newAuthUC(repo, fakeVerifier{})

		res := uc.LoginWithEmail(ctx, "ana@stoky.app", "secreto")
		assert.False(t, res.Success)
		assert.Equal(t, "Este usuario debe iniciar sesión con Google", res.ErrorMessage)
	})

	t.Run("linked account keeps email login working", func(t *testing.T) {
		repo := newFakeUserRepo()
		u := seedEmailUser(repo, "ana@stoky.app", "secreto", true)
		u.LoginMethod = userdom.LoginBoth
		u.GoogleID = "g-1"
		uc := newAuthUC(repo, fakeVerifier{})

		res := uc.LoginWithEmail(ctx, "ana@stoky.app", "secreto")
		assert.True(t, res.Success)
	})

	t.Run("invalid email caught before any I/O", func(t *testing.T) {
		repo := newFakeUserRepo()
		repo.failLookups = true // would explode if the store were touched
		uc := newAuthUC(repo, fakeVerifier{})

		res := uc.LoginWithEmail(ctx, "no-es-un-correo", "secreto")
		assert.False(t, res.Success)
		assert.Equal(t, "Correo inválido", res.ErrorMessage)
	})

	t.Run("store failure coerced to tagged failure", func(t *testing.T) {
		repo := newFakeUserRepo()
		repo.failLookups = true
		uc := newAuthUC(repo, fakeVerifier{})

		res := uc.LoginWithEmail(ctx, "ana@stoky.app", "secreto")
		assert.False(t, res.Success)
		assert.Equal(t, "Error al conectar con la base de datos", res.ErrorMessage)
	})
}

// ----------------------------
// LoginWithGoogle
// ----------------------------

func TestLoginWithGoogle(t *testing.T) {
	ctx := context.Background()
	ident := GoogleIdentity{UID: "g-777", Email: "ana@stoky.app", Name: "Ana G"}

	t.Run("creates exactly one new record when email is unknown", func(t *testing.T) {
		repo := newFakeUserRepo()
		uc := newAuthUC(repo, fakeVerifier{ident: ident})

		res := uc.LoginWithGoogle(ctx, "token")
		require.True(t, res.Success)
		require.NotNil(t, res.User)
		assert.Equal(t, "google", res.LoginMethod)
		assert.NotEmpty(t, res.User.ID)
		assert.Equal(t, userdom.LoginGoogle, res.User.LoginMethod)
		assert.Equal(t, "g-777", res.User.GoogleID)
		assert.Equal(t, userdom.RoleSeller, res.User.Role)
		assert.Len(t, repo.users, 1)
	})

	t.Run("auto-links an email account sharing the address", func(t *testing.T) {
		repo := newFakeUserRepo()
		seedEmailUser(repo, "ana@stoky.app", "secreto", true)
		uc := newAuthUC(repo, fakeVerifier{ident: ident})

		res := uc.LoginWithGoogle(ctx, "token")
		require.True(t, res.Success)
		assert.Equal(t, "both", res.LoginMethod)

		stored := repo.users["u-email"]
		assert.Equal(t, userdom.LoginBoth, stored.LoginMethod)
		assert.Equal(t, "g-777", stored.GoogleID)
		assert.Equal(t, "h(secreto)", stored.PasswordHash, "hash untouched by the merge")
		assert.Len(t, repo.users, 1, "merge, not a second record")
	})

	t.Run("re-login refreshes last login", func(t *testing.T) {
		repo := newFakeUserRepo()
		u := seedEmailUser(repo, "ana@stoky.app", "secreto", true)
		u.LoginMethod = userdom.LoginBoth
		u.GoogleID = "g-777"
		uc := newAuthUC(repo, fakeVerifier{ident: ident})

		res := uc.LoginWithGoogle(ctx, "token")
		require.True(t, res.Success)
		assert.Equal(t, "both", res.LoginMethod)
		assert.Equal(t, testNow, repo.users["u-email"].LastLogin)
	})

	t.Run("unrecognized login method", func(t *testing.T) {
		repo := newFakeUserRepo()
		u := seedEmailUser(repo, "ana@stoky.app", "secreto", true)
		u.LoginMethod = "magic"
		uc := newAuthUC(repo, fakeVerifier{ident: ident})

		res := uc.LoginWithGoogle(ctx, "token")
		assert.False(t, res.Success)
		assert.Equal(t, "Tipo de login no reconocido", res.ErrorMessage)
	})

	t.Run("verifier failure", func(t *testing.T) {
		uc := newAuthUC(newFakeUserRepo(), fakeVerifier{err: errors.New("bad token")})
		res := uc.LoginWithGoogle(ctx, "token")
		assert.False(t, res.Success)
		assert.Equal(t, "Error en la autenticación con Google", res.ErrorMessage)
	})

	t.Run("store failure coerced to tagged failure", func(t *testing.T) {
		repo := newFakeUserRepo()
		repo.failLookups = true
		uc := newAuthUC(repo, fakeVerifier{ident: ident})

		res := uc.LoginWithGoogle(ctx, "token")
		assert.False(t, res.Success)
		assert.Equal(t, "Error al acceder a la base de datos", res.ErrorMessage)
	})

	t.Run("empty token", func(t *testing.T) {
		uc := newAuthUC(newFakeUserRepo(), fakeVerifier{ident: ident})
		res := uc.LoginWithGoogle(ctx, "   ")
		assert.False(t, res.Success)
	})
}

// ----------------------------
// LinkAccounts
// ----------------------------

func TestLinkAccounts(t *testing.T) {
	ctx := context.Background()

	repo := newFakeUserRepo()
	seedEmailUser(repo, "ana@stoky.app", "secreto", true)
	uc := newAuthUC(repo, fakeVerifier{})

	res := uc.LinkAccounts(ctx, "u-email", "g-9")
	require.True(t, res.Success)
	assert.Equal(t, "both", res.LoginMethod)
	assert.Equal(t, "g-9", repo.users["u-email"].GoogleID)

	// second link attempt: account no longer email-only
	res = uc.LinkAccounts(ctx, "u-email", "g-10")
	assert.False(t, res.Success)

	res = uc.LinkAccounts(ctx, "ghost", "g-9")
	assert.False(t, res.Success)
	assert.Equal(t, "Usuario no encontrado o inactivo", res.ErrorMessage)

	res = uc.LinkAccounts(ctx, "", "")
	assert.False(t, res.Success)
}

// ----------------------------
// CreateUser / UpdatePassword
// ----------------------------

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password before persisting", func(t *testing.T) {
		repo := newFakeUserRepo()
		uc := newAuthUC(repo, fakeVerifier{})

		id, err := uc.CreateUser(ctx, CreateUserInput{
			Email:    "Nuevo@Stoky.App",
			Name:     "Nuevo",
			Password: "secreto",
		})
		require.NoError(t, err)
		require.NotEmpty(t, id)

		stored := repo.users[id]
		require.NotNil(t, stored)
		assert.Equal(t, "nuevo@stoky.app", stored.Email)
		assert.Equal(t, "h(secreto)", stored.PasswordHash)
		assert.Equal(t, userdom.LoginEmail, stored.LoginMethod)
		assert.Equal(t, userdom.RoleSeller, stored.Role)
		assert.True(t, stored.Active)
	})

	t.Run("duplicate active email rejected", func(t *testing.T) {
		repo := newFakeUserRepo()
		seedEmailUser(repo, "ana@stoky.app", "secreto", true)
		uc := newAuthUC(repo, fakeVerifier{})

		_, err := uc.CreateUser(ctx, CreateUserInput{Email: "ana@stoky.app", Name: "Ana 2", Password: "secreto"})
		assert.ErrorIs(t, err, ErrAuthEmailTaken)
	})

	t.Run("inactive record does not block the email", func(t *testing.T) {
		repo := newFakeUserRepo()
		seedEmailUser(repo, "ana@stoky.app", "secreto", false)
		uc := newAuthUC(repo, fakeVerifier{})

		_, err := uc.CreateUser(ctx, CreateUserInput{Email: "ana@stoky.app", Name: "Ana", Password: "secreto"})
		assert.NoError(t, err)
	})

	t.Run("validation failures", func(t *testing.T) {
		uc := newAuthUC(newFakeUserRepo(), fakeVerifier{})

		_, err := uc.CreateUser(ctx, CreateUserInput{Email: "malo", Name: "Ana", Password: "secreto"})
		assert.ErrorIs(t, err, ErrAuthInvalidArgument)

		_, err = uc.CreateUser(ctx, CreateUserInput{Email: "a@b.co", Name: "  ", Password: "secreto"})
		assert.ErrorIs(t, err, ErrAuthInvalidArgument)

		_, err = uc.CreateUser(ctx, CreateUserInput{Email: "a@b.co", Name: "Ana", Password: "corta"})
		assert.ErrorIs(t, err, ErrAuthInvalidArgument)
	})
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()

	repo := newFakeUserRepo()
	seedEmailUser(repo, "ana@stoky.app", "secreto", true)
	uc := newAuthUC(repo, fakeVerifier{})

	require.NoError(t, uc.UpdatePassword(ctx, "u-email", "nuevosecreto"))
	assert.Equal(t, "h(nuevosecreto)", repo.users["u-email"].PasswordHash)
	assert.Equal(t, "Ana", repo.users["u-email"].Name, "other fields untouched")

	assert.ErrorIs(t, uc.UpdatePassword(ctx, "ghost", "nuevosecreto"), ErrAuthUserNotFound)
	assert.ErrorIs(t, uc.UpdatePassword(ctx, "u-email", "corta"), ErrAuthInvalidArgument)
	assert.ErrorIs(t, uc.UpdatePassword(ctx, "  ", "nuevosecreto"), ErrAuthInvalidArgument)
}
