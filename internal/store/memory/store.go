package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/bugtrack/internal/domain"
)

// Store is an in-memory bug collection guarded by a RWMutex.
// It backs tests and the BUGTRACK_STORE=memory dev mode; data does not
// survive a restart.
type Store struct {
	mu   sync.RWMutex
	bugs map[string]*domain.Bug
	now  func() time.Time
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		bugs: make(map[string]*domain.Bug),
		now:  time.Now,
	}
}

// NewWithClock creates a store with an injected clock for deterministic
// timestamps in tests.
func NewWithClock(now func() time.Time) *Store {
	s := New()
	s.now = now
	return s
}

// Find returns the page of bugs matching the filter, ordered by the sort
// spec. Records are cloned so callers never alias stored state.
func (s *Store) Find(_ context.Context, filter domain.Filter, sort domain.Sort, skip, limit int) ([]*domain.Bug, error) {
	s.mu.RLock()
	matched := s.matchLocked(filter)
	s.mu.RUnlock()

	domain.SortBugs(matched, sort)

	if skip >= len(matched) {
		return []*domain.Bug{}, nil
	}
	matched = matched[skip:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Count returns the number of bugs matching the filter.
func (s *Store) Count(_ context.Context, filter domain.Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if filter.IsZero() {
		return int64(len(s.bugs)), nil
	}
	var n int64
	for _, b := range s.bugs {
		if filter.Matches(b) {
			n++
		}
	}
	return n, nil
}

// FindByID returns the bug at id or domain.ErrNoDocument.
func (s *Store) FindByID(_ context.Context, id string) (*domain.Bug, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bugs[id]
	if !ok {
		return nil, domain.ErrNoDocument
	}
	return b.Clone(), nil
}

// Insert stores a new bug, assigning its id and timestamps.
func (s *Store) Insert(_ context.Context, bug *domain.Bug) (*domain.Bug, error) {
	stored := bug.Clone()
	stored.ID = domain.NewID()
	stored.CreatedAt = s.now()
	stored.UpdatedAt = stored.CreatedAt

	s.mu.Lock()
	s.bugs[stored.ID] = stored
	s.mu.Unlock()

	return stored.Clone(), nil
}

// UpdateByID applies the supplied fields and refreshes UpdatedAt.
// Last write wins; there is no version check.
func (s *Store) UpdateByID(_ context.Context, id string, changes *domain.Changes) (*domain.Bug, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bugs[id]
	if !ok {
		return nil, domain.ErrNoDocument
	}
	changes.Apply(b)
	b.UpdatedAt = s.now()
	return b.Clone(), nil
}

// DeleteByID removes the bug at id, reporting whether anything was removed.
func (s *Store) DeleteByID(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bugs[id]; !ok {
		return false, nil
	}
	delete(s.bugs, id)
	return true, nil
}

// GroupCount folds the collection into per-value buckets for field.
func (s *Store) GroupCount(_ context.Context, field string) ([]domain.GroupCount, error) {
	s.mu.RLock()
	all := s.allLocked()
	s.mu.RUnlock()

	return domain.GroupByCount(all, field), nil
}

// GroupCountWithAvgAge is GroupCount plus average age per bucket.
func (s *Store) GroupCountWithAvgAge(_ context.Context, field string) ([]domain.GroupAgeCount, error) {
	s.mu.RLock()
	all := s.allLocked()
	s.mu.RUnlock()

	return domain.GroupByCountAvgAge(all, field, s.now()), nil
}

// matchLocked clones every matching bug so nothing escapes the lock
// by reference.
func (s *Store) matchLocked(filter domain.Filter) []*domain.Bug {
	matched := make([]*domain.Bug, 0, len(s.bugs))
	for _, b := range s.bugs {
		if filter.Matches(b) {
			matched = append(matched, b.Clone())
		}
	}
	return matched
}

func (s *Store) allLocked() []*domain.Bug {
	all := make([]*domain.Bug, 0, len(s.bugs))
	for _, b := range s.bugs {
		all = append(all, b.Clone())
	}
	return all
}
