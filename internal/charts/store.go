// Canarymap - Canary Health Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/canarymap

package charts

import (
	"sync"

	"github.com/google/uuid"
)

// Store holds rendered chart images by ID. It is shared by every session
// and safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	images map[string][]byte
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{images: make(map[string][]byte)}
}

// Put stores png under a new random ID and returns the ID.
func (s *Store) Put(png []byte) string {
	id := uuid.New().String()
	s.mu.Lock()
	s.images[id] = png
	s.mu.Unlock()
	return id
}

// Get returns the image stored under id.
func (s *Store) Get(id string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	png, ok := s.images[id]
	return png, ok
}

// Delete removes id and reports whether it was present.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.images[id]
	delete(s.images, id)
	return ok
}

// Len returns the number of stored images.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}
