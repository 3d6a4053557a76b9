package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atinyakov/LinkHub/internal/auth"
	"github.com/atinyakov/LinkHub/internal/issue"
	"github.com/atinyakov/LinkHub/internal/models"
	"go.uber.org/zap"
)

// dummyHandler is a placeholder that records if it was called and the context it received.
type dummyHandler struct {
	called bool
	ctx    context.Context
}

func (d *dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.called = true
	d.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

type fakeVerifier struct {
	calls  int
	result auth.Verification
}

func (f *fakeVerifier) Verify(token string) auth.Verification {
	f.calls++
	if token != "good-token" {
		return auth.Verification{}
	}
	return f.result
}

type fakeAccounts struct {
	calls int
	err   error
}

func (f *fakeAccounts) FindByEmail(ctx context.Context, email string) (models.AccountResponse, error) {
	f.calls++
	if f.err != nil {
		return models.AccountResponse{}, f.err
	}
	return models.AccountResponse{ID: 1, Email: email}, nil
}

func newGate(accounts *fakeAccounts) (*Authenticator, *fakeVerifier) {
	v := &fakeVerifier{result: auth.Verification{Valid: true, Subject: "kibe@email.com"}}
	return NewAuthenticator(v, accounts, zap.NewNop()), v
}

func TestAuthenticator_PassesThroughUnauthenticated(t *testing.T) {
	headers := []string{"", "Basic abc", "Bearer", "Bearer ", "bearer good-token", "Bearer bad-token", "Bearer good token"}
	for _, h := range headers {
		t.Run(h, func(t *testing.T) {
			accounts := &fakeAccounts{}
			gate, _ := newGate(accounts)
			dummy := &dummyHandler{}

			req := httptest.NewRequest(http.MethodGet, "/api/pages", nil)
			if h != "" {
				req.Header.Set("Authorization", h)
			}
			rec := httptest.NewRecorder()
			gate.Handler(dummy).ServeHTTP(rec, req)

			if !dummy.called {
				t.Fatal("expected next handler to be called")
			}
			if rec.Code != http.StatusOK {
				t.Errorf("expected 200 OK, got %d", rec.Code)
			}
			if _, ok := IdentityFromContext(dummy.ctx); ok {
				t.Error("did not expect an identity")
			}
			if accounts.calls != 0 {
				t.Errorf("expected no account lookup, got %d", accounts.calls)
			}
		})
	}
}

func TestAuthenticator_ValidToken(t *testing.T) {
	accounts := &fakeAccounts{}
	gate, verifier := newGate(accounts)
	dummy := &dummyHandler{}

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	gate.Handler(dummy).ServeHTTP(httptest.NewRecorder(), req)

	id, ok := IdentityFromContext(dummy.ctx)
	if !ok {
		t.Fatal("expected identity in context")
	}
	if id.Email != "kibe@email.com" || id.Role != models.RoleUser {
		t.Errorf("unexpected identity %+v", id)
	}
	if verifier.calls != 1 || accounts.calls != 1 {
		t.Errorf("expected one verify and one lookup, got %d and %d", verifier.calls, accounts.calls)
	}
}

func TestAuthenticator_UnknownAccount(t *testing.T) {
	for _, err := range []error{issue.ObjectNotFound("Account not found"), errors.New("db down")} {
		accounts := &fakeAccounts{err: err}
		gate, _ := newGate(accounts)
		dummy := &dummyHandler{}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		gate.Handler(dummy).ServeHTTP(httptest.NewRecorder(), req)

		if !dummy.called {
			t.Fatal("expected next handler to be called")
		}
		if _, ok := IdentityFromContext(dummy.ctx); ok {
			t.Errorf("did not expect identity when lookup fails with %v", err)
		}
	}
}

func TestRequireIdentity(t *testing.T) {
	dummy := &dummyHandler{}
	h := RequireIdentity(dummy)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/accounts/me", nil))
	if dummy.called {
		t.Error("did not expect next handler without identity")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Authentication required") {
		t.Errorf("unexpected body %q", rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/me", nil)
	req = req.WithContext(WithIdentity(req.Context(), models.Identity{Email: "a@email.com", Role: models.RoleUser}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if !dummy.called || rec.Code != http.StatusOK {
		t.Errorf("expected pass-through with identity, got called=%v code=%d", dummy.called, rec.Code)
	}
}

func TestIdentityFromContext(t *testing.T) {
	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Error("expected no identity in empty context")
	}
	ctx := WithIdentity(context.Background(), models.Identity{Email: "bob@email.com"})
	id, ok := IdentityFromContext(ctx)
	if !ok || id.Email != "bob@email.com" {
		t.Errorf("expected bob@email.com, got %+v", id)
	}
}
