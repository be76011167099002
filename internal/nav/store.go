package nav

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

type storeKey struct {
	layout Layout
	role   Role
}

// Store caches built menus. The "menus are only valid for the role they
// were built for" invariant is enforced by keying entries on
// (layout, role): a role change is simply a miss that forces a rebuild.
// Entries survive until Invalidate, which logout calls.
type Store struct {
	mu      sync.RWMutex
	entries map[storeKey][]Menu
	group   singleflight.Group
}

// NewStore returns an empty menu cache.
func NewStore() *Store {
	return &Store{entries: make(map[storeKey][]Menu)}
}

// Get returns the cached menus for a layout/role pair.
func (s *Store) Get(layout Layout, role Role) ([]Menu, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	menus, ok := s.entries[storeKey{layout: layout, role: role}]
	return menus, ok
}

// Set stores menus for a layout/role pair.
func (s *Store) Set(layout Layout, role Role, menus []Menu) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[storeKey{layout: layout, role: role}] = menus
}

// Invalidate drops every cached menu.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[storeKey][]Menu)
}

// Build returns the cached menus for layout/role, building and caching
// them once when missing. Concurrent misses for the same pair are
// collapsed into a single build.
func (s *Store) Build(ctx context.Context, layout Layout, role Role, build func() ([]Menu, error)) ([]Menu, error) {
	if menus, ok := s.Get(layout, role); ok {
		return menus, nil
	}
	key := string(layout) + "|" + string(role)
	resultChan := s.group.DoChan(key, func() (any, error) {
		menus, err := build()
		if err != nil {
			return nil, err
		}
		s.Set(layout, role, menus)
		return menus, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Menu), nil
	}
}
