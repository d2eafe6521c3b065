// internal/adapters/in/http/handler/auth_handler.go
package handler

import (
	"errors"
	"net/http"
	"strings"

	"stoky/internal/application/usecase"
	userdom "stoky/internal/domain/user"
)

// AuthHandler serves the identity endpoints:
//
//	POST /auth/login     {correo, password}
//	POST /auth/google    {idToken}
//	POST /auth/link      {usuarioId, googleUid}
//	POST /auth/register  {correo, nombre, password, rol?}
//	POST /auth/password  {usuarioId, password}
//
// Login endpoints answer 200 with the tagged LoginResult even on business
// failure; the result body, not the status code, carries the outcome.
type AuthHandler struct {
	uc *usecase.AuthUsecase
}

func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "auth handler is not configured")
		return
	}
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	switch {
	case strings.HasSuffix(path, "/auth/login"):
		h.handleLogin(w, r)
	case strings.HasSuffix(path, "/auth/google"):
		h.handleGoogle(w, r)
	case strings.HasSuffix(path, "/auth/link"):
		h.handleLink(w, r)
	case strings.HasSuffix(path, "/auth/register"):
		h.handleRegister(w, r)
	case strings.HasSuffix(path, "/auth/password"):
		h.handlePassword(w, r)
	default:
		writeErr(w, http.StatusNotFound, "not found")
	}
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"correo"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	writeJSON(w, http.StatusOK, h.uc.LoginWithEmail(r.Context(), in.Email, in.Password))
}

func (h *AuthHandler) handleGoogle(w http.ResponseWriter, r *http.Request) {
	var in struct {
		IDToken string `json:"idToken"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	writeJSON(w, http.StatusOK, h.uc.LoginWithGoogle(r.Context(), in.IDToken))
}

func (h *AuthHandler) handleLink(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID    string `json:"usuarioId"`
		GoogleUID string `json:"googleUid"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	writeJSON(w, http.StatusOK, h.uc.LinkAccounts(r.Context(), in.UserID, in.GoogleUID))
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"correo"`
		Name     string `json:"nombre"`
		Password string `json:"password"`
		Role     string `json:"rol"`
	}
	if !decodeBody(w, r, &in) {
		return
	}

	id, err := h.uc.CreateUser(r.Context(), usecase.CreateUserInput{
		Email:    in.Email,
		Name:     in.Name,
		Password: in.Password,
		Role:     userdom.Role(strings.TrimSpace(in.Role)),
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAuthEmailTaken):
			writeErr(w, http.StatusConflict, "Ya existe un usuario con ese correo")
		case errors.Is(err, usecase.ErrAuthInvalidArgument):
			writeErr(w, http.StatusBadRequest, err.Error())
		default:
			writeErr(w, http.StatusInternalServerError, "registro fallido")
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *AuthHandler) handlePassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID   string `json:"usuarioId"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &in) {
		return
	}

	if err := h.uc.UpdatePassword(r.Context(), in.UserID, in.Password); err != nil {
		switch {
		case errors.Is(err, usecase.ErrAuthUserNotFound):
			writeErr(w, http.StatusNotFound, "usuario no encontrado")
		case errors.Is(err, usecase.ErrAuthInvalidArgument):
			writeErr(w, http.StatusBadRequest, err.Error())
		default:
			writeErr(w, http.StatusInternalServerError, "actualización fallida")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
