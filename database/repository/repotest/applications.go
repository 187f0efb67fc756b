package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"memberportal/database/repository"
	applicationRepo "memberportal/database/repository/application"
	"memberportal/models"
)

// MemoryApplicationRepo mirrors the unique email index of the Mongo repository.
type MemoryApplicationRepo struct {
	mu   sync.Mutex
	apps []models.Application
}

func NewMemoryApplicationRepo() *MemoryApplicationRepo {
	return &MemoryApplicationRepo{}
}

// NewMemoryAll returns one empty repository per kind.
func NewMemoryAll() map[models.ApplicationKind]applicationRepo.ApplicationRepository {
	repos := make(map[models.ApplicationKind]applicationRepo.ApplicationRepository, len(models.Kinds))
	for _, kind := range models.Kinds {
		repos[kind] = NewMemoryApplicationRepo()
	}
	return repos
}

func (r *MemoryApplicationRepo) Exists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryApplicationRepo) Insert(_ context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.Email == app.Email || a.ID == app.ID {
			return fmt.Errorf("application %s: %w", app.Email, repository.ErrDuplicate)
		}
	}
	r.apps = append(r.apps, *app)
	return nil
}

func (r *MemoryApplicationRepo) List(_ context.Context) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]models.Application{}, r.apps...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryApplicationRepo) Get(_ context.Context, id string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("application %s: %w", id, repository.ErrNotFound)
}

func (r *MemoryApplicationRepo) SetStatus(_ context.Context, id, status string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.apps {
		if r.apps[i].ID == id {
			r.apps[i].Status = status
			r.apps[i].UpdatedAt = time.Now()
			a := r.apps[i]
			return &a, nil
		}
	}
	return nil, fmt.Errorf("application %s: %w", id, repository.ErrNotFound)
}

func (r *MemoryApplicationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.apps {
		if r.apps[i].ID == id {
			r.apps = append(r.apps[:i], r.apps[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("application %s: %w", id, repository.ErrNotFound)
}
