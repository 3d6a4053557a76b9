// Package http provides the HTTP handlers and routing for the LinkHub API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/atinyakov/LinkHub/internal/middleware"
	"github.com/atinyakov/LinkHub/internal/models"
	"go.uber.org/zap"
)

// AccountService defines the account operations required by AccountHandler.
type AccountService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.AccountResponse, error)
	Authenticate(ctx context.Context, req models.LoginRequest) (models.Identity, error)
	FindByEmail(ctx context.Context, email string) (models.AccountResponse, error)
	Update(ctx context.Context, identity models.Identity, req models.AccountUpdateRequest) (models.AccountResponse, error)
}

// TokenIssuer mints bearer tokens for an authenticated subject.
type TokenIssuer interface {
	Issue(subject string) (string, time.Time, error)
}

// TokenResponse is returned on login and whenever a new token is minted.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AccountUpdateResponse is the account after a self-service update. Token is
// set only when the email changed, since the old token names the old email.
type AccountUpdateResponse struct {
	models.AccountResponse
	Token *TokenResponse `json:"token,omitempty"`
}

// AccountHandler handles registration, login and self-service endpoints.
type AccountHandler struct {
	Accounts AccountService
	Tokens   TokenIssuer
	Log      *zap.Logger
}

// Register handles POST /api/auth/register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}

	account, err := h.Accounts.Register(r.Context(), req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	h.Log.Info("account registered", zap.Int64("account_id", account.ID))
	writeJSON(w, http.StatusCreated, account)
}

// Login handles POST /api/auth/login and returns a bearer token.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}

	identity, err := h.Accounts.Authenticate(r.Context(), req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	resp, err := h.issue(identity.Email)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Me handles GET /api/accounts/me.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	account, err := h.Accounts.FindByEmail(r.Context(), identity.Email)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// UpdateMe handles PUT /api/accounts/me.
func (h *AccountHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req models.AccountUpdateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, h.Log, err)
		return
	}

	account, err := h.Accounts.Update(r.Context(), identity, req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	resp := AccountUpdateResponse{AccountResponse: account}
	if account.Email != identity.Email {
		token, err := h.issue(account.Email)
		if err != nil {
			writeError(w, h.Log, err)
			return
		}
		resp.Token = &token
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AccountHandler) issue(subject string) (TokenResponse, error) {
	token, expiresAt, err := h.Tokens.Issue(subject)
	if err != nil {
		return TokenResponse{}, err
	}
	return TokenResponse{Token: token, ExpiresAt: expiresAt}, nil
}
