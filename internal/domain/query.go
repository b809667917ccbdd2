package domain

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	// DefaultPage is used when page is absent, non-numeric or < 1.
	DefaultPage = 1
	// DefaultLimit is used when limit is absent, non-numeric or < 1.
	DefaultLimit = 10
	// MaxLimit caps the page size regardless of what the caller asks for.
	MaxLimit = 100
	// DefaultSortField is used when sortBy is absent or not sortable.
	DefaultSortField = "createdAt"
)

// sortableFields is the allow-list of fields a caller may sort by.
// Anything else falls back to createdAt rather than being passed through
// to the store.
var sortableFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"title":     true,
	"status":    true,
	"priority":  true,
	"reporter":  true,
	"assignee":  true,
}

// Filter is the normalized set of constraints derived from query
// parameters. Empty fields apply no constraint; an absent parameter is
// never treated as "match empty string".
type Filter struct {
	Status   string // exact match
	Priority string // exact match
	Assignee string // case-insensitive substring
	Reporter string // case-insensitive substring
}

// IsZero reports whether the filter applies no constraint at all.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Matches evaluates the filter against a single bug.
func (f Filter) Matches(b *Bug) bool {
	if f.Status != "" && string(b.Status) != f.Status {
		return false
	}
	if f.Priority != "" && string(b.Priority) != f.Priority {
		return false
	}
	if f.Assignee != "" && !containsFold(b.Assignee, f.Assignee) {
		return false
	}
	if f.Reporter != "" && !containsFold(b.Reporter, f.Reporter) {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Sort is a single-key sort specification.
type Sort struct {
	Field string
	Desc  bool
}

// less compares two bugs on the sort field, ascending. The caller flips
// the result for descending order.
func (s Sort) less(a, b *Bug) bool {
	switch s.Field {
	case "createdAt":
		return a.CreatedAt.Before(b.CreatedAt)
	case "updatedAt":
		return a.UpdatedAt.Before(b.UpdatedAt)
	case "title":
		return a.Title < b.Title
	case "status":
		return a.Status < b.Status
	case "priority":
		return a.Priority < b.Priority
	case "reporter":
		return a.Reporter < b.Reporter
	case "assignee":
		return a.Assignee < b.Assignee
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

// SortBugs orders bugs in place according to the sort spec. The sort is
// stable so equal keys keep their insertion order across pages.
func SortBugs(bugs []*Bug, s Sort) {
	sort.SliceStable(bugs, func(i, j int) bool {
		if s.Desc {
			return s.less(bugs[j], bugs[i])
		}
		return s.less(bugs[i], bugs[j])
	})
}

// ListQuery is the immutable plan built from HTTP query parameters:
// filter + sort + page. It performs no I/O itself.
type ListQuery struct {
	Filter Filter
	Sort   Sort
	Page   int
	Limit  int
}

// Skip returns the number of records to skip. Page and Limit are clamped
// at parse time, so this can never go negative.
func (q ListQuery) Skip() int {
	return (q.Page - 1) * q.Limit
}

// ParseListQuery turns raw query parameters into a list plan.
//
// Absent or empty filter parameters are omitted from the filter entirely.
// Non-numeric or non-positive page/limit fall back to their defaults and
// limit is capped at MaxLimit. sortBy values outside the allow-list fall
// back to createdAt; any sortOrder other than "asc" sorts descending.
func ParseListQuery(values url.Values) ListQuery {
	q := ListQuery{
		Filter: Filter{
			Status:   strings.TrimSpace(values.Get("status")),
			Priority: strings.TrimSpace(values.Get("priority")),
			Assignee: strings.TrimSpace(values.Get("assignee")),
			Reporter: strings.TrimSpace(values.Get("reporter")),
		},
		Page:  positiveInt(values.Get("page"), DefaultPage),
		Limit: positiveInt(values.Get("limit"), DefaultLimit),
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	field := strings.TrimSpace(values.Get("sortBy"))
	if !sortableFields[field] {
		field = DefaultSortField
	}
	q.Sort = Sort{
		Field: field,
		Desc:  values.Get("sortOrder") != "asc",
	}
	return q
}

func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}
