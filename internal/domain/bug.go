package domain

import (
	"encoding/json"
	"time"
)

// Status is the lifecycle state of a bug.
// All transitions between statuses are allowed via update;
// there is no enforced workflow ordering.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Statuses lists the accepted status values in their canonical order.
// The order is part of the API contract (it appears in validation messages).
func Statuses() []string {
	return []string{"open", "in-progress", "resolved", "closed"}
}

// Priority is the urgency classification of a bug.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists the accepted priority values in their canonical order.
func Priorities() []string {
	return []string{"low", "medium", "high", "critical"}
}

// Bug is a single tracked defect.
//
// It is the sole persisted entity. The store assigns ID, CreatedAt and
// UpdatedAt on insert; everything else comes from a validated payload.
type Bug struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier: 24 lowercase hex characters.
	ID string `json:"id"`

	// ─────────────────────────────
	// Report content
	// ─────────────────────────────

	// Title is a short summary, 3-100 characters after trimming.
	Title string `json:"title"`

	// Description explains the defect, 10-1000 characters after trimming.
	Description string `json:"description"`

	// Status holds one of the enumerated lifecycle states. Defaults to open.
	Status Status `json:"status"`

	// Priority holds one of the enumerated urgency levels. Defaults to medium.
	Priority Priority `json:"priority"`

	// ─────────────────────────────
	// People
	// ─────────────────────────────

	// Assignee is the person working on the bug. Optional, max 50 characters.
	Assignee string `json:"assignee"`

	// Reporter is the person who filed the bug. Required, 2-50 characters.
	Reporter string `json:"reporter"`

	// ─────────────────────────────
	// Context
	// ─────────────────────────────

	// Tags are free-form labels: at most 5, each at most 20 characters,
	// always stored lowercase.
	Tags []string `json:"tags"`

	// StepsToReproduce is optional, max 2000 characters.
	StepsToReproduce string `json:"stepsToReproduce"`

	// Environment describes where the bug occurs. Optional, max 200 characters.
	Environment string `json:"environment"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is set once at insert time. Immutable.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is refreshed on every mutation. Never before CreatedAt.
	UpdatedAt time.Time `json:"updatedAt"`
}

// AgeInDays returns the whole number of days elapsed since creation.
// Derived on read, never stored.
func (b *Bug) AgeInDays(now time.Time) int {
	if b.CreatedAt.IsZero() || now.Before(b.CreatedAt) {
		return 0
	}
	return int(now.Sub(b.CreatedAt).Hours() / 24)
}

// AgeDays returns the fractional age in days, used for stats averaging.
func (b *Bug) AgeDays(now time.Time) float64 {
	if b.CreatedAt.IsZero() {
		return 0
	}
	return now.Sub(b.CreatedAt).Seconds() / 86400
}

// MarshalJSON adds the derived ageInDays field so every serialized bug
// carries its current age without persisting it as state.
func (b Bug) MarshalJSON() ([]byte, error) {
	type alias Bug
	a := alias(b)
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return json.Marshal(struct {
		alias
		AgeInDays int `json:"ageInDays"`
	}{a, b.AgeInDays(time.Now())})
}

// Clone returns a deep copy so callers can hand bugs across goroutines
// or mutate them without aliasing stored state.
func (b *Bug) Clone() *Bug {
	c := *b
	if b.Tags != nil {
		c.Tags = append([]string(nil), b.Tags...)
	}
	return &c
}

// GroupCount is one aggregation bucket: how many bugs share a field value.
type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// GroupAgeCount extends GroupCount with the average age of the bucket.
type GroupAgeCount struct {
	Key        string  `json:"key"`
	Count      int64   `json:"count"`
	AvgAgeDays float64 `json:"avgAgeDays"`
}
