package api

import (
	"net/url"
	"testing"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		endOfDay bool
		want     *time.Time
		wantErr  bool
	}{
		{name: "absent", raw: ""},
		{
			name: "rfc3339 is converted to utc",
			raw:  "2025-06-01T10:00:00+02:00",
			want: ptrTime(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)),
		},
		{
			name: "date is start of day",
			raw:  "2025-06-01",
			want: ptrTime(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
		},
		{
			name:     "date upper bound is end of day",
			raw:      "2025-06-01",
			endOfDay: true,
			want:     ptrTime(time.Date(2025, 6, 1, 23, 59, 59, 999999999, time.UTC)),
		},
		{name: "garbage", raw: "next tuesday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := &domain.ValidationError{}
			got := parseDateParam(url.Values{"d": {tt.raw}}, "d", tt.endOfDay, verr)

			assert.Equal(t, tt.wantErr, verr.HasErrors())
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s", got)
		})
	}
}

func TestParseTodoQuery(t *testing.T) {
	t.Parallel()

	q := url.Values{
		"search_term":   {"milk"},
		"is_completed":  {"true"},
		"priority":      {"critical"},
		"category":      {"Home"},
		"due_date_from": {"2025-06-01"},
	}
	verr := &domain.ValidationError{}
	query := parseTodoQuery(q, verr)

	require.False(t, verr.HasErrors())
	assert.Equal(t, "milk", query.SearchTerm)
	require.NotNil(t, query.IsCompleted)
	assert.True(t, *query.IsCompleted)
	require.NotNil(t, query.Priority)
	assert.Equal(t, domain.PriorityCritical, *query.Priority)
	assert.Equal(t, "Home", query.Category)
	require.NotNil(t, query.DueDateFrom)
	assert.Nil(t, query.DueDateTo)
}

func TestParsePageRequest(t *testing.T) {
	t.Parallel()

	verr := &domain.ValidationError{}
	page := parsePageRequest(url.Values{"page_number": {"-3"}, "page_size": {"0"}}, verr)
	assert.False(t, verr.HasErrors())
	assert.Equal(t, domain.PageRequest{PageNumber: 1, PageSize: domain.DefaultPageSize}, page)

	page = parsePageRequest(url.Values{}, verr)
	assert.Equal(t, 1, page.PageNumber)
}

func ptrTime(t time.Time) *time.Time { return &t }
