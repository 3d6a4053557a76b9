package service

import (
	"context"

	"github.com/atinyakov/LinkHub/internal/models"
	"github.com/atinyakov/LinkHub/internal/repository"
)

// memAccountRepo is an in-memory AccountRepository enforcing email uniqueness
// the way the database constraint does.
type memAccountRepo struct {
	byID   map[int64]models.Account
	nextID int64

	FindByEmailErr error
	SaveErr        error
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{byID: map[int64]models.Account{}}
}

func (m *memAccountRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.FindByEmailErr != nil {
		return nil, m.FindByEmailErr
	}
	for _, a := range m.byID {
		if a.Email == email {
			found := a
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memAccountRepo) Save(ctx context.Context, a *models.Account) (*models.Account, error) {
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}
	for id, other := range m.byID {
		if other.Email == a.Email && id != a.ID {
			return nil, repository.ErrConflict
		}
	}
	if a.ID == 0 {
		m.nextID++
		a.ID = m.nextID
	} else if _, ok := m.byID[a.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	m.byID[a.ID] = *a
	return a, nil
}

// memPageRepo is an in-memory PageRepository enforcing slug uniqueness.
type memPageRepo struct {
	byID   map[int64]models.Page
	nextID int64
	saves  int

	SaveErr error
}

func newMemPageRepo() *memPageRepo {
	return &memPageRepo{byID: map[int64]models.Page{}}
}

func (m *memPageRepo) FindBySlug(ctx context.Context, slug string) (*models.Page, error) {
	for _, p := range m.byID {
		if p.Slug == slug {
			found := p
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memPageRepo) FindByID(ctx context.Context, id int64) (*models.Page, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memPageRepo) FindByOwner(ctx context.Context, ownerID int64) ([]models.Page, error) {
	out := []models.Page{}
	for id := int64(1); id <= m.nextID; id++ {
		if p, ok := m.byID[id]; ok && p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPageRepo) Save(ctx context.Context, p *models.Page) (*models.Page, error) {
	m.saves++
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}
	for id, other := range m.byID {
		if other.Slug == p.Slug && id != p.ID {
			return nil, repository.ErrConflict
		}
	}
	if p.ID == 0 {
		m.nextID++
		p.ID = m.nextID
	}
	m.byID[p.ID] = *p
	return p, nil
}

// put stores a page as-is, bypassing the service.
func (m *memPageRepo) put(p models.Page) {
	m.byID[p.ID] = p
	if p.ID > m.nextID {
		m.nextID = p.ID
	}
}

// plainHasher is a fast reversible stand-in for bcrypt in service tests.
type plainHasher struct {
	hashCalls int
}

func (h *plainHasher) Hash(password string) (string, error) {
	h.hashCalls++
	return "hashed:" + password, nil
}

func (h *plainHasher) Verify(password, hash string) bool {
	return hash == "hashed:"+password
}
