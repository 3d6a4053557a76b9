// Package models defines the core data structures for accounts, pages and
// the per-request caller identity.
package models

import (
	"strings"
	"time"
)

// RoleUser is the only role an authenticated caller can hold.
const RoleUser = "USER"

// Account represents a registered user of the link hub.
type Account struct {
	// ID is assigned by the store on creation.
	ID int64
	// Name is the display name.
	Name string
	// Email is unique across all accounts and compared case-sensitively.
	Email string
	// PasswordHash is the bcrypt hash of the password. The plaintext is never stored.
	PasswordHash string
	// CreatedAt is the UTC creation time.
	CreatedAt time.Time
	// UpdatedAt is the UTC time of the last mutation.
	UpdatedAt time.Time
}

// AccountResponse is the public projection of an Account. It never carries
// the password hash.
type AccountResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Response builds the public projection of the account.
func (a *Account) Response() AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// BackgroundType defines how a page background value is interpreted.
type BackgroundType string

const (
	// BackgroundColor means the background value is a hex color.
	BackgroundColor BackgroundType = "COLOR"
	// BackgroundImage means the background value is an image URL.
	BackgroundImage BackgroundType = "IMAGE"
)

// ParseBackgroundType matches s case-insensitively against the known
// background types.
func ParseBackgroundType(s string) (BackgroundType, bool) {
	switch strings.ToUpper(s) {
	case string(BackgroundColor):
		return BackgroundColor, true
	case string(BackgroundImage):
		return BackgroundImage, true
	}
	return "", false
}

// Page is a public profile page owned by one account.
type Page struct {
	ID              int64
	Slug            string
	Title           string
	Description     string
	Photo           string
	FontColor       string
	BackgroundType  string
	BackgroundValue string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	// OwnerID references the owning Account and never changes after creation.
	OwnerID int64
}

// PageResponse is the public projection of a Page.
type PageResponse struct {
	ID              int64     `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Photo           string    `json:"photo"`
	FontColor       string    `json:"fontColor"`
	BackgroundType  string    `json:"backgroundType"`
	BackgroundValue string    `json:"backgroundValue"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	OwnerID         int64     `json:"ownerId"`
}

// Response builds the public projection of the page.
func (p *Page) Response() PageResponse {
	return PageResponse{
		ID:              p.ID,
		Slug:            p.Slug,
		Title:           p.Title,
		Description:     p.Description,
		Photo:           p.Photo,
		FontColor:       p.FontColor,
		BackgroundType:  p.BackgroundType,
		BackgroundValue: p.BackgroundValue,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		OwnerID:         p.OwnerID,
	}
}

// Identity is the authenticated caller of a single request. It is derived
// from a verified token and lives only as long as the request.
type Identity struct {
	Email string
	Role  string
}

// IsZero reports whether the identity is unset.
func (i Identity) IsZero() bool {
	return i.Email == ""
}
