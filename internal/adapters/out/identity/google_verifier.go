// internal/adapters/out/identity/google_verifier.go
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	firebaseauth "firebase.google.com/go/v4/auth"

	"stoky/internal/application/usecase"
)

// FirebaseVerifier implements usecase.GoogleTokenVerifier on Firebase Auth.
// The verified token is trusted as-is (the provider is the oracle); only
// shape checks happen here.
type FirebaseVerifier struct {
	Auth *firebaseauth.Client
}

func NewFirebaseVerifier(auth *firebaseauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{Auth: auth}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (usecase.GoogleIdentity, error) {
	if v == nil || v.Auth == nil {
		return usecase.GoogleIdentity{}, errors.New("google_verifier: firebase auth client is nil")
	}
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return usecase.GoogleIdentity{}, errors.New("google_verifier: id token is empty")
	}

	token, err := v.Auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return usecase.GoogleIdentity{}, fmt.Errorf("google_verifier: verify failed: %w", err)
	}

	uid := strings.TrimSpace(token.UID)
	if uid == "" {
		return usecase.GoogleIdentity{}, errors.New("google_verifier: uid missing in token")
	}

	ident := usecase.GoogleIdentity{UID: uid}
	if e, ok := token.Claims["email"].(string); ok {
		ident.Email = strings.TrimSpace(e)
	}
	if n, ok := token.Claims["name"].(string); ok {
		ident.Name = strings.TrimSpace(n)
	}
	return ident, nil
}
