package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTodoItem(t *testing.T) {
	t.Parallel()

	due := time.Date(2026, 3, 1, 9, 0, 0, 0, time.FixedZone("CET", 3600))

	t.Run("valid item keeps its input", func(t *testing.T) {
		t.Parallel()
		item, err := NewTodoItem("Buy milk", "two litres", "errand", PriorityLow, &due)
		require.NoError(t, err)

		assert.NotEqual(t, "", item.ID.String())
		assert.Equal(t, "Buy milk", item.Title)
		assert.Equal(t, "two litres", item.Description)
		assert.Equal(t, "errand", item.Category)
		assert.Equal(t, PriorityLow, item.Priority)
		assert.False(t, item.IsCompleted)
		assert.Nil(t, item.CompletedAt)
		require.NotNil(t, item.DueDate)
		assert.True(t, item.DueDate.Equal(due))
		assert.Equal(t, time.UTC, item.DueDate.Location())
		assert.False(t, item.CreatedAt.IsZero())
	})

	t.Run("reports every violation", func(t *testing.T) {
		t.Parallel()
		_, err := NewTodoItem("", strings.Repeat("d", 501), "", Priority(9), nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		fields := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, f.Field)
		}
		assert.ElementsMatch(t, []string{"title", "description", "category", "priority"}, fields)
	})

	t.Run("title length counts characters", func(t *testing.T) {
		t.Parallel()
		_, err := NewTodoItem(strings.Repeat("é", 100), "", "c", PriorityHigh, nil)
		assert.NoError(t, err)

		_, err = NewTodoItem(strings.Repeat("a", 101), "", "c", PriorityHigh, nil)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("whitespace title is missing", func(t *testing.T) {
		t.Parallel()
		_, err := NewTodoItem("   ", "", "c", PriorityHigh, nil)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestTodoItem_ToggleCompletion(t *testing.T) {
	t.Parallel()

	item, err := NewTodoItem("Write report", "", "work", PriorityMedium, nil)
	require.NoError(t, err)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	item.ToggleCompletion(now)
	assert.True(t, item.IsCompleted)
	require.NotNil(t, item.CompletedAt)
	assert.True(t, item.CompletedAt.Equal(now))
	assert.NoError(t, item.Validate())

	item.ToggleCompletion(now.Add(time.Hour))
	assert.False(t, item.IsCompleted)
	assert.Nil(t, item.CompletedAt)
	assert.NoError(t, item.Validate())
}

func TestTodoItem_SetCompletedIdempotent(t *testing.T) {
	t.Parallel()

	item, err := NewTodoItem("Write report", "", "work", PriorityMedium, nil)
	require.NoError(t, err)
	first := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	item.SetCompleted(true, first)
	item.SetCompleted(true, first.Add(time.Hour))
	require.NotNil(t, item.CompletedAt)
	assert.True(t, item.CompletedAt.Equal(first), "re-completing must keep the original stamp")
}

func TestTodoItem_ValidateCompletionInvariant(t *testing.T) {
	t.Parallel()

	item, err := NewTodoItem("Write report", "", "work", PriorityMedium, nil)
	require.NoError(t, err)

	item.IsCompleted = true
	assert.ErrorIs(t, item.Validate(), ErrValidation)

	now := time.Now()
	item.IsCompleted = false
	item.CompletedAt = &now
	assert.ErrorIs(t, item.Validate(), ErrValidation)
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{in: "Low", want: PriorityLow},
		{in: "medium", want: PriorityMedium},
		{in: " HIGH ", want: PriorityHigh},
		{in: "Critical", want: PriorityCritical},
		{in: "3", want: PriorityCritical},
		{in: "0", want: PriorityLow},
		{in: "4", wantErr: true},
		{in: "urgent", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePriority(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriority_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(PriorityHigh)
	require.NoError(t, err)
	assert.JSONEq(t, `"High"`, string(data))

	var p Priority
	require.NoError(t, json.Unmarshal([]byte(`"critical"`), &p))
	assert.Equal(t, PriorityCritical, p)

	require.NoError(t, json.Unmarshal([]byte(`1`), &p))
	assert.Equal(t, PriorityMedium, p)

	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &p))
	assert.Error(t, json.Unmarshal([]byte(`true`), &p))
}

func TestPriority_SQL(t *testing.T) {
	t.Parallel()

	v, err := PriorityMedium.Value()
	require.NoError(t, err)
	assert.Equal(t, "Medium", v)

	var p Priority
	require.NoError(t, p.Scan([]byte("Low")))
	assert.Equal(t, PriorityLow, p)
	assert.Error(t, p.Scan(42))
}
