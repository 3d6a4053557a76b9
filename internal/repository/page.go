package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/LinkHub/internal/models"
)

const pageColumns = `id, slug, title, description, photo, font_color,
	background_type, background_value, created_at, updated_at, account_id`

// PostgresPageRepository stores pages in PostgreSQL.
type PostgresPageRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresPageRepository creates a new PostgresPageRepository using the provided *sql.DB.
func NewPostgresPageRepository(db *sql.DB) *PostgresPageRepository {
	return &PostgresPageRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (*models.Page, error) {
	var p models.Page
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Description, &p.Photo, &p.FontColor,
		&p.BackgroundType, &p.BackgroundValue, &p.CreatedAt, &p.UpdatedAt, &p.OwnerID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindBySlug returns the page with exactly this slug, or ErrNotFound.
func (r *PostgresPageRepository) FindBySlug(ctx context.Context, slug string) (*models.Page, error) {
	p, err := scanPage(r.DB.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find page by slug: %w", err)
	}
	return p, nil
}

// FindByID returns the page with the given id, or ErrNotFound.
func (r *PostgresPageRepository) FindByID(ctx context.Context, id int64) (*models.Page, error) {
	p, err := scanPage(r.DB.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find page by id: %w", err)
	}
	return p, nil
}

// FindByOwner lists the pages of one account ordered by id.
func (r *PostgresPageRepository) FindByOwner(ctx context.Context, ownerID int64) ([]models.Page, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE account_id = $1 ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("find pages by owner: %w", err)
	}
	defer rows.Close()

	pages := []models.Page{}
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		pages = append(pages, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find pages by owner: %w", err)
	}
	return pages, nil
}

// Save inserts the page when it has no ID yet, otherwise updates the mutable
// columns of the existing row. The owner is written only on insert.
// A duplicate slug yields ErrConflict.
func (r *PostgresPageRepository) Save(ctx context.Context, p *models.Page) (*models.Page, error) {
	if p.ID == 0 {
		err := r.DB.QueryRowContext(ctx, `
			INSERT INTO pages (slug, title, description, photo, font_color,
				background_type, background_value, created_at, updated_at, account_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`, p.Slug, p.Title, p.Description, p.Photo, p.FontColor,
			p.BackgroundType, p.BackgroundValue, p.CreatedAt, p.UpdatedAt, p.OwnerID).Scan(&p.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrConflict
			}
			return nil, fmt.Errorf("insert page: %w", err)
		}
		return p, nil
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE pages SET slug = $1, title = $2, description = $3, photo = $4, font_color = $5,
			background_type = $6, background_value = $7, updated_at = $8
		WHERE id = $9
	`, p.Slug, p.Title, p.Description, p.Photo, p.FontColor,
		p.BackgroundType, p.BackgroundValue, p.UpdatedAt, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("update page: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return p, nil
}
