package repotest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"memberportal/database/repository"
	"memberportal/models"
)

// MemorySettingsRepo holds the singleton in process. FailNext makes the next
// Upsert fail, which is how tests exercise the revert path.
type MemorySettingsRepo struct {
	mu       sync.Mutex
	row      *models.AppSettings
	FailNext bool
}

func NewMemorySettingsRepo() *MemorySettingsRepo {
	return &MemorySettingsRepo{}
}

var errInjected = errors.New("injected write failure")

func (r *MemorySettingsRepo) Get(_ context.Context) (*models.AppSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.row == nil {
		return nil, fmt.Errorf("failed to load settings: %w", repository.ErrNotFound)
	}
	s := *r.row
	return &s, nil
}

func (r *MemorySettingsRepo) Upsert(_ context.Context, s *models.AppSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailNext {
		r.FailNext = false
		return fmt.Errorf("failed to save settings: %w", errInjected)
	}
	s.ID = models.SettingsID
	row := *s
	r.row = &row
	return nil
}

// Rows reports how many singleton rows exist, which is at most one.
func (r *MemorySettingsRepo) Rows() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.row == nil {
		return 0
	}
	return 1
}
