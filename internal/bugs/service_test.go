package bugs

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/MrSnakeDoc/bugtrack/internal/domain"
	"github.com/MrSnakeDoc/bugtrack/internal/logger"
	"github.com/MrSnakeDoc/bugtrack/internal/store/memory"
)

func newTestService() *Service {
	return New(memory.New(), logger.New("error", false))
}

func strPtr(s string) *string { return &s }

func createBug(t *testing.T, svc *Service, title, reporter string) *domain.Bug {
	t.Helper()
	bug, err := svc.Create(context.Background(), &domain.BugPayload{
		Title:       strPtr(title),
		Description: strPtr("a description that is long enough"),
		Reporter:    strPtr(reporter),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return bug
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc := newTestService()
	bug := createBug(t, svc, "Login fails", "Alice")

	if bug.Status != domain.StatusOpen {
		t.Errorf("Status = %q, want open", bug.Status)
	}
	if bug.Priority != domain.PriorityMedium {
		t.Errorf("Priority = %q, want medium", bug.Priority)
	}
	if !domain.ValidID(bug.ID) {
		t.Errorf("ID = %q, want valid id", bug.ID)
	}
	if len(bug.Tags) != 0 {
		t.Errorf("Tags = %v, want empty", bug.Tags)
	}
}

func TestCreateValidationFailure(t *testing.T) {
	svc := newTestService()
	_, err := svc.Create(context.Background(), &domain.BugPayload{Title: strPtr("x")})

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Create() error = %v, want *ValidationError", err)
	}
	// title too short + missing description + missing reporter
	if len(validationErr.Violations) != 3 {
		t.Errorf("got %d violations (%v), want 3", len(validationErr.Violations), validationErr.Violations)
	}
}

// mustNotTouch fails the test if the service reaches the store. Used to
// prove malformed ids short-circuit before any I/O.
type mustNotTouch struct {
	t *testing.T
}

func (m *mustNotTouch) fail() {
	m.t.Helper()
	m.t.Fatal("store must not be touched for a malformed id")
}

func (m *mustNotTouch) Find(context.Context, domain.Filter, domain.Sort, int, int) ([]*domain.Bug, error) {
	m.fail()
	return nil, nil
}

func (m *mustNotTouch) Count(context.Context, domain.Filter) (int64, error) {
	m.fail()
	return 0, nil
}

func (m *mustNotTouch) FindByID(context.Context, string) (*domain.Bug, error) {
	m.fail()
	return nil, nil
}

func (m *mustNotTouch) Insert(context.Context, *domain.Bug) (*domain.Bug, error) {
	m.fail()
	return nil, nil
}

func (m *mustNotTouch) UpdateByID(context.Context, string, *domain.Changes) (*domain.Bug, error) {
	m.fail()
	return nil, nil
}

func (m *mustNotTouch) DeleteByID(context.Context, string) (bool, error) {
	m.fail()
	return false, nil
}

func (m *mustNotTouch) GroupCount(context.Context, string) ([]domain.GroupCount, error) {
	m.fail()
	return nil, nil
}

func (m *mustNotTouch) GroupCountWithAvgAge(context.Context, string) ([]domain.GroupAgeCount, error) {
	m.fail()
	return nil, nil
}

func TestMalformedIDShortCircuits(t *testing.T) {
	svc := New(&mustNotTouch{t: t}, logger.New("error", false))
	ctx := context.Background()

	ids := []string{"not-an-id", "123", "507f1f77bcf86cd79943901g", ""}
	for _, id := range ids {
		var invalidErr *domain.InvalidIDError

		if _, err := svc.Get(ctx, id); !errors.As(err, &invalidErr) {
			t.Errorf("Get(%q) error = %v, want *InvalidIDError", id, err)
		}
		if _, err := svc.Update(ctx, id, &domain.BugPayload{Status: strPtr("closed")}); !errors.As(err, &invalidErr) {
			t.Errorf("Update(%q) error = %v, want *InvalidIDError", id, err)
		}
		if err := svc.Delete(ctx, id); !errors.As(err, &invalidErr) {
			t.Errorf("Delete(%q) error = %v, want *InvalidIDError", id, err)
		}
	}
}

func TestGetNotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.Get(context.Background(), "507f1f77bcf86cd799439011")
	var notFoundErr *domain.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("Get() error = %v, want *NotFoundError", err)
	}
}

func TestUpdateFlow(t *testing.T) {
	svc := newTestService()
	bug := createBug(t, svc, "Login fails", "Alice")

	t.Run("empty payload rejected", func(t *testing.T) {
		_, err := svc.Update(context.Background(), bug.ID, &domain.BugPayload{})
		var validationErr *domain.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("Update() error = %v, want *ValidationError", err)
		}
		if validationErr.Error() != "At least one field must be provided for update" {
			t.Errorf("message = %q", validationErr.Error())
		}
	})

	t.Run("partial update", func(t *testing.T) {
		updated, err := svc.Update(context.Background(), bug.ID, &domain.BugPayload{Status: strPtr("resolved")})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Status != domain.StatusResolved {
			t.Errorf("Status = %q, want resolved", updated.Status)
		}
		if updated.Title != bug.Title {
			t.Errorf("Title = %q, must not change on partial update", updated.Title)
		}
		if updated.UpdatedAt.Before(bug.UpdatedAt) {
			t.Errorf("UpdatedAt went backwards: %v < %v", updated.UpdatedAt, bug.UpdatedAt)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(context.Background(), "507f1f77bcf86cd799439011", &domain.BugPayload{Status: strPtr("closed")})
		var notFoundErr *domain.NotFoundError
		if !errors.As(err, &notFoundErr) {
			t.Fatalf("Update() error = %v, want *NotFoundError", err)
		}
	})
}

func TestDeleteIdempotence(t *testing.T) {
	svc := newTestService()
	bug := createBug(t, svc, "Login fails", "Alice")
	ctx := context.Background()

	if err := svc.Delete(ctx, bug.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var notFoundErr *domain.NotFoundError
	if err := svc.Delete(ctx, bug.ID); !errors.As(err, &notFoundErr) {
		t.Errorf("repeated Delete() error = %v, want *NotFoundError", err)
	}
	if _, err := svc.Get(ctx, bug.ID); !errors.As(err, &notFoundErr) {
		t.Errorf("Get() after delete error = %v, want *NotFoundError", err)
	}
	// Well-formed id that never existed behaves the same.
	if err := svc.Delete(ctx, "ffffffffffffffffffffffff"); !errors.As(err, &notFoundErr) {
		t.Errorf("Delete(unknown) error = %v, want *NotFoundError", err)
	}
}

func TestListPagination(t *testing.T) {
	svc := newTestService()
	createBug(t, svc, "first", "Alice")
	createBug(t, svc, "second", "Bob")
	createBug(t, svc, "third", "Carol")
	ctx := context.Background()

	page1, err := svc.List(ctx, url.Values{"limit": {"2"}})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page1.Bugs) != 2 {
		t.Errorf("page 1 results = %d, want 2", len(page1.Bugs))
	}
	wantPage1 := Page{CurrentPage: 1, TotalPages: 2, TotalItems: 3, HasNext: true, HasPrev: false}
	if page1.Pagination != wantPage1 {
		t.Errorf("page 1 pagination = %+v, want %+v", page1.Pagination, wantPage1)
	}

	page2, err := svc.List(ctx, url.Values{"limit": {"2"}, "page": {"2"}})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page2.Bugs) != 1 {
		t.Errorf("page 2 results = %d, want 1", len(page2.Bugs))
	}
	wantPage2 := Page{CurrentPage: 2, TotalPages: 2, TotalItems: 3, HasNext: false, HasPrev: true}
	if page2.Pagination != wantPage2 {
		t.Errorf("page 2 pagination = %+v, want %+v", page2.Pagination, wantPage2)
	}
}

func TestListFiltering(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	open := createBug(t, svc, "still open", "Alice")
	inProgress := createBug(t, svc, "being worked", "Bob")
	resolved := createBug(t, svc, "already fixed", "Carol")
	if _, err := svc.Update(ctx, inProgress.ID, &domain.BugPayload{Status: strPtr("in-progress")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if _, err := svc.Update(ctx, resolved.ID, &domain.BugPayload{Status: strPtr("resolved")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	result, err := svc.List(ctx, url.Values{"status": {"open"}})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(result.Bugs) != 1 || result.Bugs[0].ID != open.ID {
		t.Errorf("List(status=open) = %d bugs, want exactly the open one", len(result.Bugs))
	}
}

func TestListEmptyCollection(t *testing.T) {
	svc := newTestService()

	result, err := svc.List(context.Background(), url.Values{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(result.Bugs) != 0 {
		t.Errorf("results = %d, want 0", len(result.Bugs))
	}
	want := Page{CurrentPage: 1, TotalPages: 0, TotalItems: 0, HasNext: false, HasPrev: false}
	if result.Pagination != want {
		t.Errorf("pagination = %+v, want %+v", result.Pagination, want)
	}
}

func TestGetStats(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a := createBug(t, svc, "first", "Alice")
	createBug(t, svc, "second", "Bob")
	createBug(t, svc, "third", "Carol")
	if _, err := svc.Update(ctx, a.ID, &domain.BugPayload{Status: strPtr("closed"), Priority: strPtr("high")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	stats, err := svc.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}

	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3", stats.Total)
	}
	if len(stats.StatusStats) != 2 || stats.StatusStats[0].Key != "open" || stats.StatusStats[0].Count != 2 {
		t.Errorf("StatusStats = %+v, want open first with count 2", stats.StatusStats)
	}
	if len(stats.PriorityStats) != 2 || stats.PriorityStats[0].Key != "medium" || stats.PriorityStats[0].Count != 2 {
		t.Errorf("PriorityStats = %+v, want medium first with count 2", stats.PriorityStats)
	}
}
