package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
)

// dateOnlyLayout is accepted alongside RFC 3339 for date query parameters.
const dateOnlyLayout = "2006-01-02"

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required")
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format")
	}
	return id, nil
}

// requireUserID extracts the authenticated user's ID, writing a 401 when it
// is missing.
func requireUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		if log == nil {
			log = logger.FromContextOrDefault(r.Context(), slog.Default())
		}
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

// parsePageRequest reads page_number and page_size. Absent values take the
// defaults; non-numeric values are a validation error.
func parsePageRequest(q url.Values, verr *domain.ValidationError) domain.PageRequest {
	page := domain.PageRequest{
		PageNumber: parseIntParam(q, "page_number", verr),
		PageSize:   parseIntParam(q, "page_size", verr),
	}
	return page.Normalize()
}

func parseIntParam(q url.Values, name string, verr *domain.ValidationError) int {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		verr.Add(name, "must be an integer")
		return 0
	}
	return n
}

func parseBoolParam(q url.Values, name string, verr *domain.ValidationError) *bool {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		verr.Add(name, "must be true or false")
		return nil
	}
	return &b
}

func parsePriorityParam(q url.Values, name string, verr *domain.ValidationError) *domain.Priority {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil
	}
	p, err := domain.ParsePriority(raw)
	if err != nil {
		verr.Add(name, "must be one of Low, Medium, High, Critical")
		return nil
	}
	return &p
}

// parseDateParam accepts RFC 3339 timestamps and plain dates. A plain date
// bound is taken as midnight UTC, or the last instant of the day when
// endOfDay is set, so that both bounds are inclusive of the whole day.
func parseDateParam(q url.Values, name string, endOfDay bool, verr *domain.ValidationError) *time.Time {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t
	}
	t, err := time.ParseInLocation(dateOnlyLayout, raw, time.UTC)
	if err != nil {
		verr.Add(name, "must be an RFC 3339 timestamp or a YYYY-MM-DD date")
		return nil
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}

// parseTodoQuery reads the filter parameters of GET /todo/filtered.
func parseTodoQuery(q url.Values, verr *domain.ValidationError) domain.TodoQuery {
	return domain.TodoQuery{
		SearchTerm:  q.Get("search_term"),
		IsCompleted: parseBoolParam(q, "is_completed", verr),
		Priority:    parsePriorityParam(q, "priority", verr),
		Category:    q.Get("category"),
		DueDateFrom: parseDateParam(q, "due_date_from", false, verr),
		DueDateTo:   parseDateParam(q, "due_date_to", true, verr),
	}
}
