package http

import (
	"context"
	"strings"
	"time"

	"github.com/atinyakov/LinkHub/internal/auth"
	"github.com/atinyakov/LinkHub/internal/issue"
	"github.com/atinyakov/LinkHub/internal/models"
)

// fakeAccountService implements AccountService for testing.
type fakeAccountService struct {
	registerErr error
	authErr     error
	findErr     error
	updateErr   error
	updated     models.AccountResponse

	lastUpdate   models.AccountUpdateRequest
	lastIdentity models.Identity
}

func (f *fakeAccountService) Register(ctx context.Context, req models.RegisterRequest) (models.AccountResponse, error) {
	if f.registerErr != nil {
		return models.AccountResponse{}, f.registerErr
	}
	return models.AccountResponse{ID: 7, Name: req.Name, Email: req.Email}, nil
}

func (f *fakeAccountService) Authenticate(ctx context.Context, req models.LoginRequest) (models.Identity, error) {
	if f.authErr != nil {
		return models.Identity{}, f.authErr
	}
	return models.Identity{Email: req.Email, Role: models.RoleUser}, nil
}

func (f *fakeAccountService) FindByEmail(ctx context.Context, email string) (models.AccountResponse, error) {
	if f.findErr != nil {
		return models.AccountResponse{}, f.findErr
	}
	if email != "kibe@email.com" {
		return models.AccountResponse{}, issue.ObjectNotFound("Account not found")
	}
	return models.AccountResponse{ID: 1, Name: "Kibe", Email: email}, nil
}

func (f *fakeAccountService) Update(ctx context.Context, identity models.Identity, req models.AccountUpdateRequest) (models.AccountResponse, error) {
	f.lastIdentity = identity
	f.lastUpdate = req
	if f.updateErr != nil {
		return models.AccountResponse{}, f.updateErr
	}
	return f.updated, nil
}

// fakeTokens implements TokenIssuer and middleware.TokenVerifier.
type fakeTokens struct {
	issued []string
}

var fakeExpiry = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

func (f *fakeTokens) Issue(subject string) (string, time.Time, error) {
	f.issued = append(f.issued, subject)
	return "token-for-" + subject, fakeExpiry, nil
}

func (f *fakeTokens) Verify(token string) auth.Verification {
	subject, ok := strings.CutPrefix(token, "token-for-")
	if !ok || subject == "" {
		return auth.Verification{}
	}
	return auth.Verification{Valid: true, Subject: subject, ExpiresAt: fakeExpiry}
}

// fakePageService implements PageService for testing.
type fakePageService struct {
	err error

	lastIdentity models.Identity
	lastID       int64
	lastUpdate   models.PageUpdateRequest
	calls        int
}

func (f *fakePageService) Create(ctx context.Context, identity models.Identity, req models.PageCreateRequest) (models.PageResponse, error) {
	f.calls++
	f.lastIdentity = identity
	if f.err != nil {
		return models.PageResponse{}, f.err
	}
	return models.PageResponse{ID: 3, Slug: req.Slug, Title: req.Title, OwnerID: 1}, nil
}

func (f *fakePageService) Update(ctx context.Context, identity models.Identity, req models.PageUpdateRequest, pageID int64) (models.PageResponse, error) {
	f.calls++
	f.lastIdentity = identity
	f.lastID = pageID
	f.lastUpdate = req
	if f.err != nil {
		return models.PageResponse{}, f.err
	}
	return models.PageResponse{ID: pageID, Slug: "kibe"}, nil
}

func (f *fakePageService) FindBySlug(ctx context.Context, slug string) (models.PageResponse, error) {
	f.calls++
	if f.err != nil {
		return models.PageResponse{}, f.err
	}
	return models.PageResponse{ID: 3, Slug: slug}, nil
}

func (f *fakePageService) ListOwned(ctx context.Context, identity models.Identity) ([]models.PageResponse, error) {
	f.calls++
	f.lastIdentity = identity
	if f.err != nil {
		return nil, f.err
	}
	return []models.PageResponse{}, nil
}
