package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bugtrack/internal/domain"
)

// Store persists bugs as JSON documents in Redis: one document per bug
// under bugtrack:bug:<id>, plus a set of all ids for enumeration.
// Documents never expire; bugs are removed only by explicit delete.
//
// Redis has no server-side group-by or substring filtering over JSON
// values, so Find/Count/aggregations load the collection and evaluate the
// query plan in-process. Fine at bug-tracker scale; revisit with
// maintained per-bucket counters if the collection grows large.
type Store struct {
	client *redis.Client
}

// NewStore creates a Redis-backed bug store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Find returns the page of bugs matching the filter, ordered by the sort spec.
func (s *Store) Find(ctx context.Context, filter domain.Filter, sort domain.Sort, skip, limit int) ([]*domain.Bug, error) {
	matched, err := s.loadMatching(ctx, filter)
	if err != nil {
		return nil, err
	}

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
func (s *Store) Count(ctx context.Context, filter domain.Filter) (int64, error) {
	if filter.IsZero() {
		n, err := s.client.SCard(ctx, AllBugsKey()).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to count bugs: %w", err)
		}
		return n, nil
	}

	matched, err := s.loadMatching(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

// FindByID retrieves a bug document by id.
func (s *Store) FindByID(ctx context.Context, id string) (*domain.Bug, error) {
	data, err := s.client.Get(ctx, BugKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNoDocument
		}
		return nil, fmt.Errorf("failed to get bug: %w", err)
	}

	var bug domain.Bug
	if err := json.Unmarshal(data, &bug); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bug: %w", err)
	}
	return &bug, nil
}

// Insert stores a new bug, assigning its id and timestamps.
func (s *Store) Insert(ctx context.Context, bug *domain.Bug) (*domain.Bug, error) {
	stored := bug.Clone()
	stored.ID = domain.NewID()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	if err := s.save(ctx, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// UpdateByID applies the supplied fields to an existing document and
// refreshes UpdatedAt. Read-modify-write without a version check: two
// concurrent updates both succeed and the last write wins.
func (s *Store) UpdateByID(ctx context.Context, id string, changes *domain.Changes) (*domain.Bug, error) {
	bug, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes.Apply(bug)
	bug.UpdatedAt = time.Now().UTC()

	if err := s.save(ctx, bug); err != nil {
		return nil, err
	}
	return bug, nil
}

// DeleteByID removes a bug document and its id from the set, reporting
// whether a document was actually removed.
func (s *Store) DeleteByID(ctx context.Context, id string) (bool, error) {
	deleted, err := s.client.Del(ctx, BugKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete bug: %w", err)
	}

	if err := s.client.SRem(ctx, AllBugsKey(), id).Err(); err != nil {
		return false, fmt.Errorf("failed to remove bug from set: %w", err)
	}
	return deleted > 0, nil
}

// GroupCount folds the collection into per-value buckets for field.
func (s *Store) GroupCount(ctx context.Context, field string) ([]domain.GroupCount, error) {
	all, err := s.loadMatching(ctx, domain.Filter{})
	if err != nil {
		return nil, err
	}
	return domain.GroupByCount(all, field), nil
}

// GroupCountWithAvgAge is GroupCount plus average age per bucket.
func (s *Store) GroupCountWithAvgAge(ctx context.Context, field string) ([]domain.GroupAgeCount, error) {
	all, err := s.loadMatching(ctx, domain.Filter{})
	if err != nil {
		return nil, err
	}
	return domain.GroupByCountAvgAge(all, field, time.Now()), nil
}

// save writes the document and registers its id in one pipeline.
func (s *Store) save(ctx context.Context, bug *domain.Bug) error {
	data, err := json.Marshal(bug)
	if err != nil {
		return fmt.Errorf("failed to marshal bug: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, BugKey(bug.ID), data, 0)
	pipe.SAdd(ctx, AllBugsKey(), bug.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save bug: %w", err)
	}
	return nil
}

// loadMatching fetches every document in the id set and keeps the ones
// matching the filter. Ids whose document vanished between SMembers and
// MGet (concurrent delete) are skipped.
func (s *Store) loadMatching(ctx context.Context, filter domain.Filter) ([]*domain.Bug, error) {
	ids, err := s.client.SMembers(ctx, AllBugsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bug ids: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.Bug{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = BugKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load bugs: %w", err)
	}

	bugs := make([]*domain.Bug, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var bug domain.Bug
		if err := json.Unmarshal([]byte(raw), &bug); err != nil {
			continue
		}
		if filter.Matches(&bug) {
			bugs = append(bugs, &bug)
		}
	}
	return bugs, nil
}
