package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/LinkHub/internal/issue"
	"github.com/atinyakov/LinkHub/internal/models"
	"github.com/atinyakov/LinkHub/internal/repository"
)

// PageRepository defines the persistence operations required by PageService.
type PageRepository interface {
	// FindBySlug and FindByID return repository.ErrNotFound for missing pages.
	FindBySlug(ctx context.Context, slug string) (*models.Page, error)
	FindByID(ctx context.Context, id int64) (*models.Page, error)
	FindByOwner(ctx context.Context, ownerID int64) ([]models.Page, error)
	// Save inserts or updates the page; a duplicate slug yields repository.ErrConflict.
	Save(ctx context.Context, page *models.Page) (*models.Page, error)
}

// AccountFinder resolves the account behind an identity.
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (models.AccountResponse, error)
}

// PageDefaults are substituted for empty optional fields on page creation.
type PageDefaults struct {
	Photo           string
	FontColor       string
	BackgroundType  string
	BackgroundValue string
}

// DefaultPageDefaults returns the built-in defaults.
func DefaultPageDefaults() PageDefaults {
	return PageDefaults{
		Photo:           "default",
		FontColor:       "#000000",
		BackgroundType:  string(models.BackgroundColor),
		BackgroundValue: "#FFFFFF",
	}
}

// Validate reports whether the defaults satisfy the same rules as user input.
func (d PageDefaults) Validate() error {
	if d.Photo == "" {
		return errors.New("default photo cannot be empty")
	}
	if !hexColorPattern.MatchString(d.FontColor) {
		return fmt.Errorf("default font color %q is not a hex color", d.FontColor)
	}
	if _, err := checkBackground(d.BackgroundType, d.BackgroundValue); err != nil {
		return fmt.Errorf("default background: %w", err)
	}
	return nil
}

// PageService implements page creation, update and lookup with slug
// uniqueness, default substitution, background consistency and owner-only
// mutation.
type PageService struct {
	pages    PageRepository
	accounts AccountFinder
	defaults PageDefaults
	now      func() time.Time
}

// NewPageService constructs a PageService.
func NewPageService(pages PageRepository, accounts AccountFinder, defaults PageDefaults) *PageService {
	return &PageService{pages: pages, accounts: accounts, defaults: defaults, now: time.Now}
}

func slugTaken(slug string) error {
	return issue.RuleViolation("Slug already registered", fmt.Sprintf("%s already registered", slug))
}

func pageNotFound(ref string) error {
	return issue.ObjectNotFound("Page not found", fmt.Sprintf("no page %s", ref))
}

// ensureSlugFree fails when slug belongs to a page other than selfID.
func (s *PageService) ensureSlugFree(ctx context.Context, slug string, selfID int64) error {
	existing, err := s.pages.FindBySlug(ctx, slug)
	switch {
	case err == nil && existing.ID != selfID:
		return slugTaken(slug)
	case err == nil, errors.Is(err, repository.ErrNotFound):
		return nil
	}
	return fmt.Errorf("check slug: %w", err)
}

func (s *PageService) applyDefaults(req *models.PageCreateRequest) {
	if req.Photo == "" {
		req.Photo = s.defaults.Photo
	}
	if req.FontColor == "" {
		req.FontColor = s.defaults.FontColor
	}
	if req.BackgroundType == "" {
		req.BackgroundType = s.defaults.BackgroundType
	}
	if req.BackgroundValue == "" {
		req.BackgroundValue = s.defaults.BackgroundValue
	}
}

// Create stores a new page owned by the caller. Defaults are substituted
// before the background rule runs.
func (s *PageService) Create(ctx context.Context, identity models.Identity, req models.PageCreateRequest) (models.PageResponse, error) {
	if identity.IsZero() {
		return models.PageResponse{}, issue.Unauthenticated()
	}
	if err := validatePageCreate(req); err != nil {
		return models.PageResponse{}, err
	}

	owner, err := s.accounts.FindByEmail(ctx, identity.Email)
	if err != nil {
		return models.PageResponse{}, err
	}
	if err := s.ensureSlugFree(ctx, req.Slug, 0); err != nil {
		return models.PageResponse{}, err
	}

	s.applyDefaults(&req)
	bgType, err := checkBackground(req.BackgroundType, req.BackgroundValue)
	if err != nil {
		return models.PageResponse{}, err
	}

	now := s.now().UTC()
	saved, err := s.pages.Save(ctx, &models.Page{
		Slug:            req.Slug,
		Title:           req.Title,
		Description:     req.Description,
		Photo:           req.Photo,
		FontColor:       req.FontColor,
		BackgroundType:  string(bgType),
		BackgroundValue: req.BackgroundValue,
		CreatedAt:       now,
		UpdatedAt:       now,
		OwnerID:         owner.ID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return models.PageResponse{}, slugTaken(req.Slug)
		}
		return models.PageResponse{}, fmt.Errorf("create page: %w", err)
	}
	return saved.Response(), nil
}

// Update merges the non-nil fields of req into page pageID. Only the owner
// may update; ownership is checked before any field is looked at.
func (s *PageService) Update(ctx context.Context, identity models.Identity, req models.PageUpdateRequest, pageID int64) (models.PageResponse, error) {
	if identity.IsZero() {
		return models.PageResponse{}, issue.Unauthenticated()
	}

	page, err := s.pages.FindByID(ctx, pageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.PageResponse{}, pageNotFound(fmt.Sprintf("with id %d", pageID))
		}
		return models.PageResponse{}, fmt.Errorf("update page: %w", err)
	}

	caller, err := s.accounts.FindByEmail(ctx, identity.Email)
	if err != nil {
		return models.PageResponse{}, err
	}
	if caller.ID != page.OwnerID {
		return models.PageResponse{}, issue.Forbidden("Access denied",
			fmt.Sprintf("%s is not the owner of page %s", identity.Email, page.Slug))
	}

	if err := validatePageUpdate(req); err != nil {
		return models.PageResponse{}, err
	}

	if req.Slug != nil && *req.Slug != page.Slug {
		if err := s.ensureSlugFree(ctx, *req.Slug, page.ID); err != nil {
			return models.PageResponse{}, err
		}
		page.Slug = *req.Slug
	}
	if req.Title != nil {
		page.Title = *req.Title
	}
	if req.Description != nil {
		page.Description = *req.Description
	}
	if req.Photo != nil {
		page.Photo = *req.Photo
	}
	if req.FontColor != nil {
		page.FontColor = *req.FontColor
	}
	if req.BackgroundType != nil {
		page.BackgroundType = *req.BackgroundType
	}
	if req.BackgroundValue != nil {
		page.BackgroundValue = *req.BackgroundValue
	}

	bgType, err := checkBackground(page.BackgroundType, page.BackgroundValue)
	if err != nil {
		return models.PageResponse{}, err
	}
	page.BackgroundType = string(bgType)
	page.UpdatedAt = s.now().UTC()

	saved, err := s.pages.Save(ctx, page)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return models.PageResponse{}, slugTaken(page.Slug)
		case errors.Is(err, repository.ErrNotFound):
			return models.PageResponse{}, pageNotFound(fmt.Sprintf("with id %d", pageID))
		}
		return models.PageResponse{}, fmt.Errorf("update page: %w", err)
	}
	return saved.Response(), nil
}

// FindBySlug returns the public projection of the page with this slug.
func (s *PageService) FindBySlug(ctx context.Context, slug string) (models.PageResponse, error) {
	page, err := s.pages.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.PageResponse{}, pageNotFound(slug)
		}
		return models.PageResponse{}, fmt.Errorf("find page: %w", err)
	}
	return page.Response(), nil
}

// ListOwned returns the caller's pages.
func (s *PageService) ListOwned(ctx context.Context, identity models.Identity) ([]models.PageResponse, error) {
	if identity.IsZero() {
		return nil, issue.Unauthenticated()
	}
	owner, err := s.accounts.FindByEmail(ctx, identity.Email)
	if err != nil {
		return nil, err
	}

	pages, err := s.pages.FindByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	out := make([]models.PageResponse, 0, len(pages))
	for i := range pages {
		out = append(out, pages[i].Response())
	}
	return out, nil
}
