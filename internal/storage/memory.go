package storage

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is an in-process ObjectStore used in tests.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Store keeps data in memory and returns a mem:// URL.
func (s *MemoryStore) Store(_ context.Context, data []byte, filename, folderPath string) (string, error) {
	key := strings.Trim(folderPath, "/") + "/" + filename

	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[key] = buf

	return "mem://" + key, nil
}

// Get returns a stored object by its mem:// URL.
func (s *MemoryStore) Get(url string) ([]byte, bool) {
	key := strings.TrimPrefix(url, "mem://")

	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}

// Len returns the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
