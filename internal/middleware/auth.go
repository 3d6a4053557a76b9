// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/atinyakov/LinkHub/internal/auth"
	"github.com/atinyakov/LinkHub/internal/issue"
	"github.com/atinyakov/LinkHub/internal/models"
	"go.uber.org/zap"
)

type ctxKey string

const identityKey ctxKey = "identity"

// TokenVerifier checks a bearer token.
type TokenVerifier interface {
	Verify(token string) auth.Verification
}

// AccountFinder resolves the account a token subject names.
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (models.AccountResponse, error)
}

// Authenticator is the per-request auth gate. It never rejects a request:
// when the bearer token is missing, invalid or names an unknown account the
// request continues unauthenticated and downstream authorization decides.
type Authenticator struct {
	tokens   TokenVerifier
	accounts AccountFinder
	log      *zap.Logger
}

// NewAuthenticator creates the auth gate.
func NewAuthenticator(tokens TokenVerifier, accounts AccountFinder, log *zap.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, accounts: accounts, log: log}
}

// Handler wraps next. On a valid token for an existing account the caller's
// Identity is stored in the request context.
func (a *Authenticator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		v := a.tokens.Verify(token)
		if !v.Valid {
			next.ServeHTTP(w, r)
			return
		}

		account, err := a.accounts.FindByEmail(r.Context(), v.Subject)
		if err != nil {
			if issue.KindOf(err) != issue.KindObjectNotFound {
				a.log.Warn("auth gate account lookup failed", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}

		id := models.Identity{Email: account.Email, Role: models.RoleUser}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// RequireIdentity answers 401 when no identity was established for the request.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			is := issue.Unauthenticated()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(is.Kind.Status())
			_ = json.NewEncoder(w).Encode(is)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext extracts the caller identity from the request context.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey).(models.Identity)
	if !ok || id.IsZero() {
		return models.Identity{}, false
	}
	return id, true
}
