package domain

import (
	"strings"
	"unicode/utf8"
)

// BugPayload is a raw creation or update request body. Pointers distinguish
// "absent" from "present but empty"; unknown payload fields are dropped by
// the JSON decoder and pass through silently (accepted looseness, matching
// the API this service replaces).
type BugPayload struct {
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	Status           *string   `json:"status"`
	Priority         *string   `json:"priority"`
	Assignee         *string   `json:"assignee"`
	Reporter         *string   `json:"reporter"`
	Tags             *[]string `json:"tags"`
	StepsToReproduce *string   `json:"stepsToReproduce"`
	Environment      *string   `json:"environment"`
}

// Changes is the normalized output of the update contract: only fields that
// were present in the payload are non-nil, already trimmed and typed.
type Changes struct {
	Title            *string
	Description      *string
	Status           *Status
	Priority         *Priority
	Assignee         *string
	Reporter         *string
	Tags             *[]string
	StepsToReproduce *string
	Environment      *string
}

// fieldRule is one row of the declarative validation table for a string
// field. Rules are evaluated in table order and every broken constraint is
// collected; messages are fixed strings that are part of the API contract.
type fieldRule struct {
	name        string
	get         func(*BugPayload) *string
	required    bool // create contract only
	allowEmpty  bool // empty string is a valid value (clears the field)
	min         int
	max         int
	enum        []string
	requiredMsg string
	minMsg      string
	maxMsg      string
	enumMsg     string
}

var bugRules = []fieldRule{
	{
		name:        "title",
		get:         func(p *BugPayload) *string { return p.Title },
		required:    true,
		min:         3,
		max:         100,
		requiredMsg: "Title is required",
		minMsg:      "Title must be at least 3 characters long",
		maxMsg:      "Title cannot exceed 100 characters",
	},
	{
		name:        "description",
		get:         func(p *BugPayload) *string { return p.Description },
		required:    true,
		min:         10,
		max:         1000,
		requiredMsg: "Description is required",
		minMsg:      "Description must be at least 10 characters long",
		maxMsg:      "Description cannot exceed 1000 characters",
	},
	{
		name:    "status",
		get:     func(p *BugPayload) *string { return p.Status },
		enum:    Statuses(),
		enumMsg: "Status must be one of: open, in-progress, resolved, closed",
	},
	{
		name:    "priority",
		get:     func(p *BugPayload) *string { return p.Priority },
		enum:    Priorities(),
		enumMsg: "Priority must be one of: low, medium, high, critical",
	},
	{
		name:       "assignee",
		get:        func(p *BugPayload) *string { return p.Assignee },
		allowEmpty: true,
		max:        50,
		maxMsg:     "Assignee name cannot exceed 50 characters",
	},
	{
		name:        "reporter",
		get:         func(p *BugPayload) *string { return p.Reporter },
		required:    true,
		min:         2,
		max:         50,
		requiredMsg: "Reporter name is required",
		minMsg:      "Reporter name must be at least 2 characters long",
		maxMsg:      "Reporter name cannot exceed 50 characters",
	},
	{
		name:       "stepsToReproduce",
		get:        func(p *BugPayload) *string { return p.StepsToReproduce },
		allowEmpty: true,
		max:        2000,
		maxMsg:     "Steps to reproduce cannot exceed 2000 characters",
	},
	{
		name:       "environment",
		get:        func(p *BugPayload) *string { return p.Environment },
		allowEmpty: true,
		max:        200,
		maxMsg:     "Environment description cannot exceed 200 characters",
	},
}

const (
	maxTags      = 5
	maxTagLen    = 20
	tagsMaxMsg   = "Cannot have more than 5 tags"
	tagsLenMsg   = "Each tag cannot exceed 20 characters"
	updateMinMsg = "At least one field must be provided for update"
)

// checkString applies one rule to one present value and returns the trimmed
// value plus any violations. forCreate switches the empty-value message
// between "required" and "too short".
func (r *fieldRule) checkString(raw string, forCreate bool) (string, []FieldViolation) {
	s := strings.TrimSpace(raw)

	if s == "" {
		if r.allowEmpty {
			return s, nil
		}
		switch {
		case forCreate && r.required:
			return s, []FieldViolation{{Field: r.name, Message: r.requiredMsg}}
		case r.min > 0:
			return s, []FieldViolation{{Field: r.name, Message: r.minMsg}}
		case len(r.enum) > 0:
			return s, []FieldViolation{{Field: r.name, Message: r.enumMsg}}
		}
		return s, nil
	}

	if len(r.enum) > 0 {
		for _, v := range r.enum {
			if s == v {
				return s, nil
			}
		}
		return s, []FieldViolation{{Field: r.name, Message: r.enumMsg}}
	}

	var violations []FieldViolation
	n := utf8.RuneCountInString(s)
	if r.min > 0 && n < r.min {
		violations = append(violations, FieldViolation{Field: r.name, Message: r.minMsg})
	}
	if r.max > 0 && n > r.max {
		violations = append(violations, FieldViolation{Field: r.name, Message: r.maxMsg})
	}
	return s, violations
}

// normalizeTags trims, lowercases and bounds-checks a tags array.
// Empty entries are dropped after trimming.
func normalizeTags(raw []string) ([]string, []FieldViolation) {
	var violations []FieldViolation
	if len(raw) > maxTags {
		violations = append(violations, FieldViolation{Field: "tags", Message: tagsMaxMsg})
	}

	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if utf8.RuneCountInString(t) > maxTagLen {
			violations = append(violations, FieldViolation{Field: "tags", Message: tagsLenMsg})
			continue
		}
		tags = append(tags, strings.ToLower(t))
	}
	return tags, violations
}

// ValidateCreate applies the create contract: title, description and
// reporter are required, status/priority default to open/medium, tags are
// normalized to lowercase. On success it returns a Bug ready for insertion
// (the store assigns id and timestamps); on failure a *ValidationError
// carrying every violation in field order.
func ValidateCreate(p *BugPayload) (*Bug, error) {
	var violations []FieldViolation
	bug := &Bug{
		Status:   StatusOpen,
		Priority: PriorityMedium,
		Tags:     []string{},
	}

	for i := range bugRules {
		r := &bugRules[i]
		v := r.get(p)
		if v == nil {
			if r.required {
				violations = append(violations, FieldViolation{Field: r.name, Message: r.requiredMsg})
			}
			continue
		}
		s, vs := r.checkString(*v, true)
		if len(vs) > 0 {
			violations = append(violations, vs...)
			continue
		}
		bug.setField(r.name, s)
	}

	if p.Tags != nil {
		tags, vs := normalizeTags(*p.Tags)
		violations = append(violations, vs...)
		if len(vs) == 0 {
			bug.Tags = tags
		}
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return bug, nil
}

// ValidateUpdate applies the update contract: every field is individually
// optional, but at least one recognized field must be present. Supplied
// values are validated with the same table as creation.
func ValidateUpdate(p *BugPayload) (*Changes, error) {
	var violations []FieldViolation
	ch := &Changes{}
	provided := false

	for i := range bugRules {
		r := &bugRules[i]
		v := r.get(p)
		if v == nil {
			continue
		}
		provided = true
		s, vs := r.checkString(*v, false)
		if len(vs) > 0 {
			violations = append(violations, vs...)
			continue
		}
		ch.setField(r.name, s)
	}

	if p.Tags != nil {
		provided = true
		tags, vs := normalizeTags(*p.Tags)
		violations = append(violations, vs...)
		if len(vs) == 0 {
			ch.Tags = &tags
		}
	}

	if !provided {
		return nil, &ValidationError{Violations: []FieldViolation{{Message: updateMinMsg}}}
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return ch, nil
}

func (b *Bug) setField(name, value string) {
	switch name {
	case "title":
		b.Title = value
	case "description":
		b.Description = value
	case "status":
		b.Status = Status(value)
	case "priority":
		b.Priority = Priority(value)
	case "assignee":
		b.Assignee = value
	case "reporter":
		b.Reporter = value
	case "stepsToReproduce":
		b.StepsToReproduce = value
	case "environment":
		b.Environment = value
	}
}

func (c *Changes) setField(name, value string) {
	switch name {
	case "title":
		c.Title = &value
	case "description":
		c.Description = &value
	case "status":
		s := Status(value)
		c.Status = &s
	case "priority":
		p := Priority(value)
		c.Priority = &p
	case "assignee":
		c.Assignee = &value
	case "reporter":
		c.Reporter = &value
	case "stepsToReproduce":
		c.StepsToReproduce = &value
	case "environment":
		c.Environment = &value
	}
}

// Apply copies the supplied fields onto a bug. The caller refreshes
// UpdatedAt; CreatedAt and ID are never touched.
func (c *Changes) Apply(b *Bug) {
	if c.Title != nil {
		b.Title = *c.Title
	}
	if c.Description != nil {
		b.Description = *c.Description
	}
	if c.Status != nil {
		b.Status = *c.Status
	}
	if c.Priority != nil {
		b.Priority = *c.Priority
	}
	if c.Assignee != nil {
		b.Assignee = *c.Assignee
	}
	if c.Reporter != nil {
		b.Reporter = *c.Reporter
	}
	if c.Tags != nil {
		b.Tags = append([]string(nil), (*c.Tags)...)
	}
	if c.StepsToReproduce != nil {
		b.StepsToReproduce = *c.StepsToReproduce
	}
	if c.Environment != nil {
		b.Environment = *c.Environment
	}
}
