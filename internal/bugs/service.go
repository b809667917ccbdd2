package bugs

import (
	"context"
	"errors"
	"net/url"

	"github.com/MrSnakeDoc/bugtrack/internal/domain"
	"github.com/MrSnakeDoc/bugtrack/internal/logger"
)

// Store is the persistence contract the service orchestrates against.
// Implementations must return domain.ErrNoDocument when an id has no
// matching record, and keep group results ordered by descending count.
type Store interface {
	Find(ctx context.Context, filter domain.Filter, sort domain.Sort, skip, limit int) ([]*domain.Bug, error)
	Count(ctx context.Context, filter domain.Filter) (int64, error)
	FindByID(ctx context.Context, id string) (*domain.Bug, error)
	Insert(ctx context.Context, bug *domain.Bug) (*domain.Bug, error)
	UpdateByID(ctx context.Context, id string, changes *domain.Changes) (*domain.Bug, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	GroupCount(ctx context.Context, field string) ([]domain.GroupCount, error)
	GroupCountWithAvgAge(ctx context.Context, field string) ([]domain.GroupAgeCount, error)
}

// Service is the single orchestration point between validated input, the
// query plan and the store. It holds no mutable state of its own; every
// call is independent and consistency is delegated to the store.
type Service struct {
	store Store
	log   logger.Logger
}

func New(store Store, log logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// Page summarizes the position of a result page within the collection.
type Page struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// ListResult is one page of bugs plus its pagination summary.
type ListResult struct {
	Bugs       []*domain.Bug
	Pagination Page
}

// Stats aggregates the whole collection: total count, per-status buckets
// with average age, per-priority buckets. Buckets are ordered by
// descending count.
type Stats struct {
	Total         int64                  `json:"total"`
	StatusStats   []domain.GroupAgeCount `json:"statusStats"`
	PriorityStats []domain.GroupCount    `json:"priorityStats"`
}

// List runs the query plan derived from raw HTTP parameters: a count for
// the pagination summary plus a paginated find.
func (s *Service) List(ctx context.Context, params url.Values) (*ListResult, error) {
	q := domain.ParseListQuery(params)

	total, err := s.store.Count(ctx, q.Filter)
	if err != nil {
		return nil, &domain.StoreError{Op: "count", Err: err}
	}

	found, err := s.store.Find(ctx, q.Filter, q.Sort, q.Skip(), q.Limit)
	if err != nil {
		return nil, &domain.StoreError{Op: "find", Err: err}
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	s.log.Debug("bugs listed",
		logger.Int("results", len(found)),
		logger.Int64("total", total),
		logger.Int("page", q.Page))

	return &ListResult{
		Bugs: found,
		Pagination: Page{
			CurrentPage: q.Page,
			TotalPages:  totalPages,
			TotalItems:  total,
			HasNext:     q.Page < totalPages,
			HasPrev:     q.Page > 1,
		},
	}, nil
}

// Get returns the bug at id. The id format is checked before any store
// lookup; a malformed id never reaches persistence.
func (s *Service) Get(ctx context.Context, id string) (*domain.Bug, error) {
	if !domain.ValidID(id) {
		return nil, &domain.InvalidIDError{ID: id}
	}

	bug, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNoDocument) {
			return nil, &domain.NotFoundError{ID: id}
		}
		return nil, &domain.StoreError{Op: "findById", Err: err}
	}
	return bug, nil
}

// Create validates the payload under the create contract and persists the
// normalized bug. The store assigns id and timestamps.
func (s *Service) Create(ctx context.Context, payload *domain.BugPayload) (*domain.Bug, error) {
	bug, err := domain.ValidateCreate(payload)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.Insert(ctx, bug)
	if err != nil {
		return nil, &domain.StoreError{Op: "insert", Err: err}
	}

	s.log.Info("bug created",
		logger.String("id", stored.ID),
		logger.String("title", stored.Title),
		logger.String("reporter", stored.Reporter))
	return stored, nil
}

// Update validates the id format and the payload under the update
// contract, then persists only the supplied fields. UpdatedAt is
// refreshed by the store; concurrent updates are last-write-wins.
func (s *Service) Update(ctx context.Context, id string, payload *domain.BugPayload) (*domain.Bug, error) {
	if !domain.ValidID(id) {
		return nil, &domain.InvalidIDError{ID: id}
	}

	changes, err := domain.ValidateUpdate(payload)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateByID(ctx, id, changes)
	if err != nil {
		if errors.Is(err, domain.ErrNoDocument) {
			return nil, &domain.NotFoundError{ID: id}
		}
		return nil, &domain.StoreError{Op: "updateById", Err: err}
	}

	s.log.Info("bug updated", logger.String("id", id))
	return updated, nil
}

// Delete removes the bug at id. Irreversible: repeating the call reports
// NotFoundError, as does deleting a well-formed id that never existed.
func (s *Service) Delete(ctx context.Context, id string) error {
	if !domain.ValidID(id) {
		return &domain.InvalidIDError{ID: id}
	}

	deleted, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return &domain.StoreError{Op: "deleteById", Err: err}
	}
	if !deleted {
		return &domain.NotFoundError{ID: id}
	}

	s.log.Info("bug deleted", logger.String("id", id))
	return nil
}

// GetStats aggregates the collection grouped by status (with average age
// in days) and by priority.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	statusStats, err := s.store.GroupCountWithAvgAge(ctx, "status")
	if err != nil {
		return nil, &domain.StoreError{Op: "aggregate status", Err: err}
	}

	priorityStats, err := s.store.GroupCount(ctx, "priority")
	if err != nil {
		return nil, &domain.StoreError{Op: "aggregate priority", Err: err}
	}

	total, err := s.store.Count(ctx, domain.Filter{})
	if err != nil {
		return nil, &domain.StoreError{Op: "count", Err: err}
	}

	return &Stats{
		Total:         total,
		StatusStats:   statusStats,
		PriorityStats: priorityStats,
	}, nil
}
