package memory

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/bugtrack/internal/domain"
)

func insertBug(t *testing.T, s *Store, title string, status domain.Status, priority domain.Priority) *domain.Bug {
	t.Helper()
	stored, err := s.Insert(context.Background(), &domain.Bug{
		Title:       title,
		Description: "description long enough",
		Status:      status,
		Priority:    priority,
		Reporter:    "Alice",
		Tags:        []string{},
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	return stored
}

func TestInsertAssignsIdentity(t *testing.T) {
	s := New()
	stored := insertBug(t, s, "one", domain.StatusOpen, domain.PriorityMedium)

	if !domain.ValidID(stored.ID) {
		t.Errorf("ID = %q, want valid 24-hex id", stored.ID)
	}
	if stored.CreatedAt.IsZero() || !stored.CreatedAt.Equal(stored.UpdatedAt) {
		t.Errorf("timestamps = %v/%v, want equal and non-zero", stored.CreatedAt, stored.UpdatedAt)
	}
}

func TestFindByID(t *testing.T) {
	s := New()
	stored := insertBug(t, s, "one", domain.StatusOpen, domain.PriorityMedium)

	got, err := s.FindByID(context.Background(), stored.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got.Title != "one" {
		t.Errorf("Title = %q, want %q", got.Title, "one")
	}

	if _, err := s.FindByID(context.Background(), "ffffffffffffffffffffffff"); err != domain.ErrNoDocument {
		t.Errorf("FindByID(unknown) error = %v, want ErrNoDocument", err)
	}
}

func TestFindFilterSortPaginate(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	s := NewWithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})

	insertBug(t, s, "first", domain.StatusOpen, domain.PriorityLow)
	insertBug(t, s, "second", domain.StatusInProgress, domain.PriorityHigh)
	insertBug(t, s, "third", domain.StatusOpen, domain.PriorityCritical)

	ctx := context.Background()

	t.Run("filter by status", func(t *testing.T) {
		got, err := s.Find(ctx, domain.Filter{Status: "open"}, domain.Sort{Field: "createdAt"}, 0, 10)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d bugs, want 2", len(got))
		}
	})

	t.Run("sort desc and paginate", func(t *testing.T) {
		got, err := s.Find(ctx, domain.Filter{}, domain.Sort{Field: "createdAt", Desc: true}, 0, 2)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if len(got) != 2 || got[0].Title != "third" || got[1].Title != "second" {
			t.Errorf("page 1 = %v, want [third second]", titles(got))
		}

		got, err = s.Find(ctx, domain.Filter{}, domain.Sort{Field: "createdAt", Desc: true}, 2, 2)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if len(got) != 1 || got[0].Title != "first" {
			t.Errorf("page 2 = %v, want [first]", titles(got))
		}
	})

	t.Run("skip past the end", func(t *testing.T) {
		got, err := s.Find(ctx, domain.Filter{}, domain.Sort{Field: "createdAt"}, 100, 10)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d bugs, want 0", len(got))
		}
	})

	t.Run("count with filter", func(t *testing.T) {
		n, err := s.Count(ctx, domain.Filter{Status: "open"})
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if n != 2 {
			t.Errorf("Count() = %d, want 2", n)
		}
	})
}

func TestUpdateByID(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	s := NewWithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})
	stored := insertBug(t, s, "one", domain.StatusOpen, domain.PriorityMedium)

	status := domain.StatusResolved
	updated, err := s.UpdateByID(context.Background(), stored.ID, &domain.Changes{Status: &status})
	if err != nil {
		t.Fatalf("UpdateByID() error = %v", err)
	}

	if updated.Status != domain.StatusResolved {
		t.Errorf("Status = %q, want resolved", updated.Status)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Errorf("UpdatedAt %v not after CreatedAt %v", updated.UpdatedAt, updated.CreatedAt)
	}

	if _, err := s.UpdateByID(context.Background(), "ffffffffffffffffffffffff", &domain.Changes{Status: &status}); err != domain.ErrNoDocument {
		t.Errorf("UpdateByID(unknown) error = %v, want ErrNoDocument", err)
	}
}

func TestDeleteByID(t *testing.T) {
	s := New()
	stored := insertBug(t, s, "one", domain.StatusOpen, domain.PriorityMedium)

	deleted, err := s.DeleteByID(context.Background(), stored.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteByID() = %v, %v, want true, nil", deleted, err)
	}

	// Deleting again reports nothing removed.
	deleted, err = s.DeleteByID(context.Background(), stored.ID)
	if err != nil || deleted {
		t.Fatalf("second DeleteByID() = %v, %v, want false, nil", deleted, err)
	}
}

func TestGroupCounts(t *testing.T) {
	s := New()
	insertBug(t, s, "a", domain.StatusOpen, domain.PriorityHigh)
	insertBug(t, s, "b", domain.StatusOpen, domain.PriorityLow)
	insertBug(t, s, "c", domain.StatusClosed, domain.PriorityHigh)

	counts, err := s.GroupCount(context.Background(), "priority")
	if err != nil {
		t.Fatalf("GroupCount() error = %v", err)
	}
	if len(counts) != 2 || counts[0].Key != "high" || counts[0].Count != 2 {
		t.Errorf("GroupCount() = %+v, want high first with count 2", counts)
	}

	ages, err := s.GroupCountWithAvgAge(context.Background(), "status")
	if err != nil {
		t.Fatalf("GroupCountWithAvgAge() error = %v", err)
	}
	if len(ages) != 2 || ages[0].Key != "open" || ages[0].Count != 2 {
		t.Errorf("GroupCountWithAvgAge() = %+v, want open first with count 2", ages)
	}
}

func TestStoredBugsAreIsolated(t *testing.T) {
	s := New()
	stored := insertBug(t, s, "one", domain.StatusOpen, domain.PriorityMedium)

	// Mutating a returned record must not leak into the store.
	stored.Title = "mutated"
	got, err := s.FindByID(context.Background(), stored.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got.Title != "one" {
		t.Errorf("Title = %q, stored record was mutated through an alias", got.Title)
	}
}

func titles(bugs []*domain.Bug) []string {
	out := make([]string, 0, len(bugs))
	for _, b := range bugs {
		out = append(out, b.Title)
	}
	return out
}
