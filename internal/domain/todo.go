package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field limits for todo items, in characters.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MaxCategoryLength    = 100
)

// Priority ranks how urgent a todo item is.
type Priority int

// Priorities in ascending order of urgency.
const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

var priorityNames = [...]string{"Low", "Medium", "High", "Critical"}

// ParsePriority accepts a priority name (case-insensitive) or its ordinal.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	for i, name := range priorityNames {
		if strings.EqualFold(s, name) {
			return Priority(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Priority(n).Valid() {
		return Priority(n), nil
	}
	return 0, fmt.Errorf("%w: unknown priority %q", ErrValidation, s)
}

// Valid reports whether p is one of the defined priorities.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

// String returns the priority name.
func (p Priority) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Priority(%d)", int(p))
	}
	return priorityNames[p]
}

// MarshalJSON encodes the priority by name.
func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts either the priority name or its ordinal.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("%w: priority must be a name or number", ErrValidation)
		}
		s = strconv.Itoa(n)
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value stores the priority by name.
func (p Priority) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return p.String(), nil
}

// Scan reads a priority stored by name.
func (p *Priority) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Priority", src)
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// TodoItem is a single task tracked by the API.
//
// CompletedAt is non-nil exactly when IsCompleted is true.
type TodoItem struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsCompleted bool       `json:"is_completed"`
	CreatedAt   time.Time  `json:"created_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
}

// NewTodoItem creates an open todo item and validates it, reporting every
// violated rule at once.
func NewTodoItem(title, description, category string, priority Priority, dueDate *time.Time) (*TodoItem, error) {
	item := &TodoItem{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		CreatedAt:   time.Now().UTC(),
		DueDate:     utcPtr(dueDate),
		Priority:    priority,
		Category:    category,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate checks every field rule and returns a *ValidationError listing
// all violations, or nil.
func (t *TodoItem) Validate() error {
	verr := &ValidationError{}

	if t.ID == uuid.Nil {
		verr.Add("id", "is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		verr.Add("title", "is required")
	} else if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		verr.Add("title", "must not exceed 100 characters")
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		verr.Add("description", "must not exceed 500 characters")
	}
	if strings.TrimSpace(t.Category) == "" {
		verr.Add("category", "is required")
	} else if utf8.RuneCountInString(t.Category) > MaxCategoryLength {
		verr.Add("category", "must not exceed 100 characters")
	}
	if !t.Priority.Valid() {
		verr.Add("priority", "must be one of Low, Medium, High, Critical")
	}
	if t.IsCompleted != (t.CompletedAt != nil) {
		verr.Add("completed_at", "must be set exactly when the item is completed")
	}

	return verr.Err()
}

// SetCompleted sets the completion flag, stamping CompletedAt with now when
// the item becomes completed and clearing it otherwise. Setting the flag to
// its current value leaves CompletedAt untouched.
func (t *TodoItem) SetCompleted(completed bool, now time.Time) {
	if t.IsCompleted == completed {
		return
	}
	t.IsCompleted = completed
	if completed {
		ts := now.UTC()
		t.CompletedAt = &ts
	} else {
		t.CompletedAt = nil
	}
}

// ToggleCompletion flips the completion flag.
func (t *TodoItem) ToggleCompletion(now time.Time) {
	t.SetCompleted(!t.IsCompleted, now)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
