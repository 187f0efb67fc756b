package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"memberportal/database/repository"
	contentRepo "memberportal/database/repository/content"
	"memberportal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process contentRepo.Store. Documents are kept in their
// BSON form so List can honour the same Sort fields as the Mongo store.
type MemoryStore[T any] struct {
	mu   sync.Mutex
	name string
	docs []bson.M

	// Missing makes every read behave as if the collection was never created.
	Missing bool
}

func NewMemoryStore[T any](name string) *MemoryStore[T] {
	return &MemoryStore[T]{name: name}
}

func toDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func fromDoc[T any](m bson.M) (*T, error) {
	raw, err := bson.Marshal(m)
	if err != nil {
		return nil, err
	}
	var v T
	if err := bson.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *MemoryStore[T]) indexOf(id string) int {
	for i, d := range s.docs {
		if d["id"] == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore[T]) List(_ context.Context, order contentRepo.Sort) ([]*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Missing {
		return nil, fmt.Errorf("failed to list %s: %w", s.name, repository.ErrCollectionMissing)
	}
	docs := append([]bson.M(nil), s.docs...)
	sort.SliceStable(docs, func(i, j int) bool {
		for _, f := range order {
			c := compare(docs[i][f.Field], docs[j][f.Field])
			if c == 0 {
				continue
			}
			if f.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	out := make([]*T, 0, len(docs))
	for _, d := range docs {
		v, err := fromDoc[T](d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *MemoryStore[T]) Get(_ context.Context, id string) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if s.Missing || i < 0 {
		return nil, fmt.Errorf("%s %s: %w", s.name, id, repository.ErrNotFound)
	}
	return fromDoc[T](s.docs[i])
}

func (s *MemoryStore[T]) Insert(_ context.Context, doc *T) error {
	m, err := toDoc(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, _ := m["id"].(string); s.indexOf(id) >= 0 {
		return fmt.Errorf("%s %s: %w", s.name, id, repository.ErrDuplicate)
	}
	s.Missing = false
	s.docs = append(s.docs, m)
	return nil
}

func (s *MemoryStore[T]) Replace(_ context.Context, id string, doc *T) error {
	m, err := toDoc(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%s %s: %w", s.name, id, repository.ErrNotFound)
	}
	s.docs[i] = m
	return nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%s %s: %w", s.name, id, repository.ErrNotFound)
	}
	s.docs = append(s.docs[:i], s.docs[i+1:]...)
	return nil
}

// compare orders the scalar kinds content documents sort on.
func compare(a, b any) int {
	switch x := a.(type) {
	case primitive.DateTime:
		y, _ := b.(primitive.DateTime)
		return cmpOrdered(int64(x), int64(y))
	case string:
		y, _ := b.(string)
		return cmpOrdered(x, y)
	case bool:
		y, _ := b.(bool)
		return cmpOrdered(boolRank(x), boolRank(y))
	case int32:
		y, _ := b.(int32)
		return cmpOrdered(x, y)
	case int64:
		y, _ := b.(int64)
		return cmpOrdered(x, y)
	case float64:
		y, _ := b.(float64)
		return cmpOrdered(x, y)
	case nil:
		if b == nil {
			return 0
		}
		return -1
	}
	return 0
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func cmpOrdered[V int | int32 | int64 | float64 | string](a, b V) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// MemorySocialStore adds the social mutations on top of MemoryStore.
type MemorySocialStore struct {
	*MemoryStore[models.SocialPost]
}

func NewMemorySocialStore() *MemorySocialStore {
	return &MemorySocialStore{MemoryStore: NewMemoryStore[models.SocialPost](contentRepo.SocialCollection)}
}

func (s *MemorySocialStore) TogglePin(_ context.Context, id string) (*models.SocialPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("social post %s: %w", id, repository.ErrNotFound)
	}
	pinned, _ := s.docs[i]["pinned"].(bool)
	s.docs[i]["pinned"] = !pinned
	s.docs[i]["updated_at"] = primitive.NewDateTimeFromTime(time.Now())
	return fromDoc[models.SocialPost](s.docs[i])
}

func (s *MemorySocialStore) SetMetadata(_ context.Context, id, title, thumbnailURL string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("social post %s: %w", id, repository.ErrNotFound)
	}
	if title != "" {
		s.docs[i]["title"] = title
	}
	if thumbnailURL != "" {
		s.docs[i]["thumbnail_url"] = thumbnailURL
	}
	s.docs[i]["enriched_at"] = primitive.NewDateTimeFromTime(at)
	s.docs[i]["updated_at"] = primitive.NewDateTimeFromTime(at)
	return nil
}
