package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoQuery_Matches(t *testing.T) {
	t.Parallel()

	due := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	item, err := NewTodoItem("Quarterly Report", "send to finance", "work", PriorityHigh, &due)
	require.NoError(t, err)

	undated, err := NewTodoItem("Call mom", "", "family", PriorityLow, nil)
	require.NoError(t, err)

	before := due.Add(-24 * time.Hour)
	after := due.Add(24 * time.Hour)

	tests := []struct {
		name  string
		query TodoQuery
		item  *TodoItem
		want  bool
	}{
		{name: "empty query matches", query: TodoQuery{}, item: item, want: true},
		{name: "search in title ignores case", query: TodoQuery{SearchTerm: "report"}, item: item, want: true},
		{name: "search in description", query: TodoQuery{SearchTerm: "FINANCE"}, item: item, want: true},
		{name: "search misses", query: TodoQuery{SearchTerm: "groceries"}, item: item, want: false},
		{name: "completion filter", query: TodoQuery{IsCompleted: ptr(true)}, item: item, want: false},
		{name: "priority filter", query: TodoQuery{Priority: ptr(PriorityHigh)}, item: item, want: true},
		{name: "priority mismatch", query: TodoQuery{Priority: ptr(PriorityLow)}, item: item, want: false},
		{name: "category is exact", query: TodoQuery{Category: "Work"}, item: item, want: false},
		{name: "range includes bounds", query: TodoQuery{DueDateFrom: &due, DueDateTo: &due}, item: item, want: true},
		{name: "range around", query: TodoQuery{DueDateFrom: &before, DueDateTo: &after}, item: item, want: true},
		{name: "range after", query: TodoQuery{DueDateFrom: &after}, item: item, want: false},
		{name: "range before", query: TodoQuery{DueDateTo: &before}, item: item, want: false},
		{name: "undated excluded from range", query: TodoQuery{DueDateTo: &after}, item: undated, want: false},
		{
			name:  "conjunction",
			query: TodoQuery{SearchTerm: "report", Category: "work", Priority: ptr(PriorityHigh), IsCompleted: ptr(false)},
			item:  item,
			want:  true,
		},
		{
			name:  "conjunction with one failing filter",
			query: TodoQuery{SearchTerm: "report", Category: "home"},
			item:  item,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.query.Normalize().Matches(tt.item))
		})
	}
}

func TestTodoQuery_Validate(t *testing.T) {
	t.Parallel()

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)

	assert.NoError(t, TodoQuery{}.Validate())
	assert.ErrorIs(t, TodoQuery{DueDateFrom: &from, DueDateTo: &to}.Validate(), ErrValidation)
	assert.ErrorIs(t, TodoQuery{Priority: ptr(Priority(7))}.Validate(), ErrValidation)
}
