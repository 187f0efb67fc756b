package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"memberportal/database/repository"
	contentRepo "memberportal/database/repository/content"
	"memberportal/models"
	"memberportal/utils"

	"go.uber.org/zap"
)

// ErrNotFound is returned when an id matches no record.
var ErrNotFound = errors.New("content not found")

// Manager is the admin CRUD surface of one content collection. Writes are
// last-write-wins; there is no version check.
type Manager[T any, P interface {
	*T
	models.Record
}] struct {
	name  string
	store contentRepo.Store[T]
	order contentRepo.Sort
	now   func() time.Time
}

func NewManager[T any, P interface {
	*T
	models.Record
}](name string, store contentRepo.Store[T], order contentRepo.Sort) *Manager[T, P] {
	return &Manager[T, P]{name: name, store: store, order: order, now: time.Now}
}

func (m *Manager[T, P]) Name() string { return m.name }

// List returns every record, unpaginated, in the collection's display order.
func (m *Manager[T, P]) List(ctx context.Context) ([]*T, error) {
	return fetch(ctx, m.name, m.store, m.order)
}

func (m *Manager[T, P]) Get(ctx context.Context, id string) (*T, error) {
	doc, err := m.store.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return doc, err
}

func (m *Manager[T, P]) Create(ctx context.Context, doc *T) (*T, error) {
	rec := P(doc)
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	rec.SetID(utils.NewID())
	rec.SetCreated(time.Time{})
	rec.Touch(m.now())
	if err := m.store.Insert(ctx, doc); err != nil {
		utils.GetLogger().Error("Failed to create content", zap.String("collection", m.name), zap.Error(err))
		return nil, fmt.Errorf("failed to create %s: %w", m.name, err)
	}
	return doc, nil
}

// Update replaces the record with id, keeping its id and creation time.
func (m *Manager[T, P]) Update(ctx context.Context, id string, doc *T) (*T, error) {
	rec := P(doc)
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	existing, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.SetID(id)
	rec.SetCreated(P(existing).Created())
	rec.Touch(m.now())

	err = m.store.Replace(ctx, id, doc)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		utils.GetLogger().Error("Failed to update content", zap.String("collection", m.name), zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update %s: %w", m.name, err)
	}
	return doc, nil
}

func (m *Manager[T, P]) Delete(ctx context.Context, id string) error {
	err := m.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		utils.GetLogger().Error("Failed to delete content", zap.String("collection", m.name), zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete %s: %w", m.name, err)
	}
	return nil
}
