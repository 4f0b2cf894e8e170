// Package liststate holds the loaded records of one collection together
// with the loading and error flags the console renders from. State is an
// explicit snapshot value, never shared mutable slices.
package liststate

import (
	"context"
	"fmt"
	"net/url"
	"sync"
)

// Lister is the slice of the collection gateway the store depends on.
type Lister[T any] interface {
	List(ctx context.Context, query url.Values) ([]T, error)
}

// Snapshot is an immutable view of the store at one point in time.
type Snapshot[T any] struct {
	Items   []T
	Loading bool
	Loaded  bool
	Err     error
}

// Store caches the records of one collection. A failed refresh keeps the
// previous records available; callers read Err alongside Items and decide
// how to surface the failure.
type Store[T any] struct {
	mu         sync.Mutex
	lister     Lister[T]
	identify   func(T) string
	query      url.Values
	items      []T
	loaded     bool
	loading    bool
	lastErr    error
	generation uint64
}

// NewStore builds a store over a gateway. identify extracts the record id
// used to match updates and deletes.
func NewStore[T any](lister Lister[T], identify func(T) string) (*Store[T], error) {
	if lister == nil {
		return nil, fmt.Errorf("lister is required")
	}
	if identify == nil {
		return nil, fmt.Errorf("identify func is required")
	}
	return &Store[T]{lister: lister, identify: identify}, nil
}

// SetQuery sets the server-side query sent on subsequent loads.
func (s *Store[T]) SetQuery(query url.Values) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = cloneValues(query)
}

// Load refreshes the records from the gateway. When a newer Load starts
// before this one finishes, the older response is discarded. On failure
// the previously loaded records are kept.
func (s *Store[T]) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.generation++
	gen := s.generation
	query := cloneValues(s.query)
	s.mu.Unlock()

	items, err := s.lister.List(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		// A newer load superseded this response.
		return nil
	}
	s.loading = false
	if err != nil {
		s.lastErr = err
		return err
	}
	s.items = items
	s.loaded = true
	s.lastErr = nil
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]T, len(s.items))
	copy(items, s.items)
	return Snapshot[T]{Items: items, Loading: s.loading, Loaded: s.loaded, Err: s.lastErr}
}

// Items returns a copy of the loaded records.
func (s *Store[T]) Items() []T {
	return s.Snapshot().Items
}

// Find returns the loaded record with the given id.
func (s *Store[T]) Find(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if s.identify(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// ApplyCreated refreshes the whole collection after a create. A full
// reload picks up server-assigned fields and derived columns that a local
// append would miss.
func (s *Store[T]) ApplyCreated(ctx context.Context) error {
	return s.Load(ctx)
}

// ApplyUpdated replaces the matching record in place.
func (s *Store[T]) ApplyUpdated(entity T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.identify(entity)
	for i, item := range s.items {
		if s.identify(item) == id {
			s.items[i] = entity
			return
		}
	}
}

// ApplyDeleted removes the matching record.
func (s *Store[T]) ApplyDeleted(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, item := range s.items {
		if s.identify(item) != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
}

func cloneValues(values url.Values) url.Values {
	if values == nil {
		return nil
	}
	cloned := make(url.Values, len(values))
	for k, v := range values {
		cloned[k] = append([]string(nil), v...)
	}
	return cloned
}
