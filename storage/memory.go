package storage

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// MemoryStore is a map-backed DocumentStore used in tests and local runs
// without a database.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]json.RawMessage)}
}

func (s *MemoryStore) Get(ctx context.Context, path string, out interface{}) error {
	s.mu.RLock()
	data, ok := s.docs[path]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(data, out)
}

func (s *MemoryStore) Set(ctx context.Context, path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[path] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[path]
	if !ok {
		return ErrNotFound
	}
	var current map[string]interface{}
	if err := json.Unmarshal(data, &current); err != nil {
		return err
	}
	for k, v := range fields {
		current[k] = v
	}
	merged, err := json.Marshal(current)
	if err != nil {
		return err
	}
	s.docs[path] = merged
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	delete(s.docs, path)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) List(ctx context.Context, prefix string) (map[string]json.RawMessage, error) {
	prefix = strings.TrimSuffix(prefix, "/") + "/"
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]json.RawMessage)
	for path, data := range s.docs {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		key := strings.TrimPrefix(path, prefix)
		if strings.Contains(key, "/") {
			continue
		}
		out[key] = data
	}
	return out, nil
}
