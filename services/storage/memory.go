package storage

import (
	"context"
	"path"
	"strings"
	"sync"
)

// MemoryStore keeps blobs in process. Used for local runs and tests; the
// server serves its blobs back under /media.
type MemoryStore struct {
	baseURL string

	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: baseURL,
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (s *MemoryStore) Put(_ context.Context, folder, name, contentType string, data []byte) (Object, error) {
	id := path.Join(folder, name)
	buf := append([]byte(nil), data...)

	s.mu.Lock()
	s.objects[id] = buf
	s.types[id] = contentType
	s.mu.Unlock()
	return Object{URL: strings.TrimRight(s.baseURL, "/") + "/" + id, PublicID: id}, nil
}

func (s *MemoryStore) Delete(_ context.Context, publicID string) error {
	s.mu.Lock()
	delete(s.objects, publicID)
	delete(s.types, publicID)
	s.mu.Unlock()
	return nil
}

// Get returns a stored blob and its content type.
func (s *MemoryStore) Get(publicID string) ([]byte, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[publicID]
	return data, s.types[publicID], ok
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
