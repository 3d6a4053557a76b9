// Package service provides the account and page domain services: uniqueness
// and consistency rules plus owner-only mutation, delegating persistence to
// repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atinyakov/LinkHub/internal/issue"
	"github.com/atinyakov/LinkHub/internal/models"
	"github.com/atinyakov/LinkHub/internal/repository"
)

// AccountRepository defines the persistence operations required by AccountService.
type AccountRepository interface {
	// FindByEmail returns repository.ErrNotFound when no account has this email.
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	// Save inserts or updates the account; a duplicate email yields repository.ErrConflict.
	Save(ctx context.Context, account *models.Account) (*models.Account, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// dummyPassword is hashed once and compared against when the email is
// unknown, so a failed login costs the same with or without an account.
const dummyPassword = "linkhub-dummy-password"

// AccountService implements registration, authentication, lookup and
// self-service update of accounts.
type AccountService struct {
	repo   AccountRepository
	hasher PasswordHasher
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAccountService constructs an AccountService.
func NewAccountService(repo AccountRepository, hasher PasswordHasher) *AccountService {
	return &AccountService{repo: repo, hasher: hasher, now: time.Now}
}

func emailTaken(email string) error {
	return issue.RuleViolation("Email already registered", fmt.Sprintf("%s already registered", email))
}

func accountNotFound(email string) error {
	return issue.ObjectNotFound("Account not found", fmt.Sprintf("no account for %s", email))
}

// Register creates an account. The email must not be registered yet.
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (models.AccountResponse, error) {
	if err := validateRegister(req); err != nil {
		return models.AccountResponse{}, err
	}

	_, err := s.repo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return models.AccountResponse{}, emailTaken(req.Email)
	case !errors.Is(err, repository.ErrNotFound):
		return models.AccountResponse{}, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return models.AccountResponse{}, fmt.Errorf("register: %w", err)
	}

	now := s.now().UTC()
	saved, err := s.repo.Save(ctx, &models.Account{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return models.AccountResponse{}, emailTaken(req.Email)
		}
		return models.AccountResponse{}, fmt.Errorf("register: %w", err)
	}
	return saved.Response(), nil
}

// Authenticate checks the credentials and returns the caller's identity.
// Unknown email and wrong password fail with the same InvalidCredentials issue.
func (s *AccountService) Authenticate(ctx context.Context, req models.LoginRequest) (models.Identity, error) {
	account, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return models.Identity{}, fmt.Errorf("authenticate: %w", err)
	}

	if account == nil {
		s.hasher.Verify(req.Password, s.dummyPasswordHash())
		return models.Identity{}, issue.InvalidCredentials()
	}
	if !s.hasher.Verify(req.Password, account.PasswordHash) {
		return models.Identity{}, issue.InvalidCredentials()
	}
	return models.Identity{Email: account.Email, Role: models.RoleUser}, nil
}

func (s *AccountService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(dummyPassword)
	})
	return s.dummyHash
}

// FindByEmail returns the projection of the account with this email.
func (s *AccountService) FindByEmail(ctx context.Context, email string) (models.AccountResponse, error) {
	account, err := s.load(ctx, email)
	if err != nil {
		return models.AccountResponse{}, err
	}
	return account.Response(), nil
}

func (s *AccountService) load(ctx context.Context, email string) (*models.Account, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, accountNotFound(email)
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}

// Update applies the non-empty fields of req to the caller's own account.
// A new email must not belong to a different account.
func (s *AccountService) Update(ctx context.Context, identity models.Identity, req models.AccountUpdateRequest) (models.AccountResponse, error) {
	if identity.IsZero() {
		return models.AccountResponse{}, issue.Unauthenticated()
	}
	if err := validateAccountUpdate(req); err != nil {
		return models.AccountResponse{}, err
	}

	account, err := s.load(ctx, identity.Email)
	if err != nil {
		return models.AccountResponse{}, err
	}

	if req.Name != "" {
		account.Name = req.Name
	}
	if req.Email != "" && req.Email != account.Email {
		other, err := s.repo.FindByEmail(ctx, req.Email)
		switch {
		case err == nil && other.ID != account.ID:
			return models.AccountResponse{}, emailTaken(req.Email)
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return models.AccountResponse{}, fmt.Errorf("update account: %w", err)
		}
		account.Email = req.Email
	}
	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return models.AccountResponse{}, fmt.Errorf("update account: %w", err)
		}
		account.PasswordHash = hash
	}
	account.UpdatedAt = s.now().UTC()

	saved, err := s.repo.Save(ctx, account)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return models.AccountResponse{}, emailTaken(account.Email)
		case errors.Is(err, repository.ErrNotFound):
			return models.AccountResponse{}, accountNotFound(identity.Email)
		}
		return models.AccountResponse{}, fmt.Errorf("update account: %w", err)
	}
	return saved.Response(), nil
}
