// Package memory provides an in-memory media store for tests and
// development: object keys map to URLs registered up front.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/tendant/simple-social/pkg/simplesocial"
)

// Store implements simplesocial.MediaStore over a registered key->URL map.
// Unregistered keys resolve to a deterministic pseudo-URL so staging in
// development never depends on real storage.
type Store struct {
	mu   sync.RWMutex
	urls map[string]string
}

// New creates a new in-memory media store
func New() *Store {
	return &Store{urls: make(map[string]string)}
}

// Register maps an object key to a URL.
func (s *Store) Register(objectKey, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls[objectKey] = url
}

// ResolveURL returns the registered URL for the key, or a deterministic
// placeholder when none is registered.
func (s *Store) ResolveURL(_ context.Context, objectKey string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if url, ok := s.urls[objectKey]; ok {
		return url, nil
	}
	return fmt.Sprintf("memory://media/%s", objectKey), nil
}

var _ simplesocial.MediaStore = (*Store)(nil)
