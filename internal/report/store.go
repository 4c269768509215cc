package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Store defines operations for persisting exported report files.
type Store interface {
	Put(ctx context.Context, exportID, path string, content []byte) error
	Get(ctx context.Context, exportID, path string) ([]byte, error)
	GetURL(ctx context.Context, exportID, path string) (string, error)
	List(ctx context.Context, exportID string) ([]string, error)
}

var ErrNotFound = errors.New("report not found")

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, exportID, path string, content []byte) error {
	key, err := objectKeyChecked(exportID, path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), content...)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, exportID, path string) ([]byte, error) {
	key, err := objectKeyChecked(exportID, path)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (s *MemoryStore) List(_ context.Context, exportID string) ([]string, error) {
	exportID = strings.TrimSpace(exportID)
	if exportID == "" {
		return nil, fmt.Errorf("export_id is required")
	}
	prefix := exportID + "/"
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, 8)
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			out = append(out, strings.TrimPrefix(key, prefix))
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) GetURL(ctx context.Context, exportID, path string) (string, error) {
	// Memory store has no URL surface.
	return "", nil
}

func objectKey(exportID, path string) string {
	normalized := strings.TrimLeft(strings.TrimSpace(path), "/")
	return strings.TrimSpace(exportID) + "/" + normalized
}

func objectKeyChecked(exportID, path string) (string, error) {
	exportID = strings.TrimSpace(exportID)
	path = strings.TrimSpace(path)
	if exportID == "" {
		return "", fmt.Errorf("export_id is required")
	}
	if path == "" {
		return "", fmt.Errorf("path is required")
	}
	return objectKey(exportID, path), nil
}
