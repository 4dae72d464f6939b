package domain

import (
	"strings"
	"time"
)

// TodoQuery holds the optional filters of a filtered todo listing. Zero
// values and nil pointers mean "do not filter". All supplied filters must
// hold for an item to match.
type TodoQuery struct {
	// SearchTerm matches, case-insensitively, a substring of the title or
	// of the description.
	SearchTerm  string
	IsCompleted *bool
	Priority    *Priority
	// Category matches exactly.
	Category string
	// DueDateFrom and DueDateTo bound the due date inclusively. Items without
	// a due date never match a bounded query.
	DueDateFrom *time.Time
	DueDateTo   *time.Time
}

// Normalize trims whitespace from the text filters.
func (q TodoQuery) Normalize() TodoQuery {
	q.SearchTerm = strings.TrimSpace(q.SearchTerm)
	q.Category = strings.TrimSpace(q.Category)
	return q
}

// Validate rejects an inverted due date range and unknown priorities.
func (q TodoQuery) Validate() error {
	verr := &ValidationError{}
	if q.Priority != nil && !q.Priority.Valid() {
		verr.Add("priority", "must be one of Low, Medium, High, Critical")
	}
	if q.DueDateFrom != nil && q.DueDateTo != nil && q.DueDateFrom.After(*q.DueDateTo) {
		verr.Add("due_date_from", "must not be after due_date_to")
	}
	return verr.Err()
}

// Matches reports whether item satisfies every filter in q.
func (q TodoQuery) Matches(item *TodoItem) bool {
	if q.SearchTerm != "" {
		term := strings.ToLower(q.SearchTerm)
		if !strings.Contains(strings.ToLower(item.Title), term) &&
			!strings.Contains(strings.ToLower(item.Description), term) {
			return false
		}
	}
	if q.IsCompleted != nil && item.IsCompleted != *q.IsCompleted {
		return false
	}
	if q.Priority != nil && item.Priority != *q.Priority {
		return false
	}
	if q.Category != "" && item.Category != q.Category {
		return false
	}
	if q.DueDateFrom != nil || q.DueDateTo != nil {
		if item.DueDate == nil {
			return false
		}
		if q.DueDateFrom != nil && item.DueDate.Before(*q.DueDateFrom) {
			return false
		}
		if q.DueDateTo != nil && item.DueDate.After(*q.DueDateTo) {
			return false
		}
	}
	return true
}
