package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service"
)

// TodoHandler handles todo item HTTP requests.
type TodoHandler struct {
	todoService service.TodoService
	logger      *slog.Logger
}

// NewTodoHandler creates a new TodoHandler
func NewTodoHandler(todoService service.TodoService, logger *slog.Logger) *TodoHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TodoHandler")
	}
	return &TodoHandler{
		todoService: todoService,
		logger:      logger.With(slog.String("component", "todo_handler")),
	}
}

// ListAll handles GET /todo
func (h *TodoHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.todoService.ListAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list todo items")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, todosToResponse(items))
}

// ListPaged handles GET /todo/paged
func (h *TodoHandler) ListPaged(w http.ResponseWriter, r *http.Request) {
	verr := &domain.ValidationError{}
	page := parsePageRequest(r.URL.Query(), verr)
	if err := verr.Err(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.todoService.ListPaged(r.Context(), page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list todo items")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, domain.MapPage(result, todoToResponse))
}

// ListByPriority handles GET /todo/by-priority/{priority}
func (h *TodoHandler) ListByPriority(w http.ResponseWriter, r *http.Request) {
	verr := &domain.ValidationError{}
	priority, perr := domain.ParsePriority(chi.URLParam(r, "priority"))
	if perr != nil {
		verr.Add("priority", "must be one of Low, Medium, High, Critical")
	}
	page := parsePageRequest(r.URL.Query(), verr)
	if err := verr.Err(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.todoService.ListByPriority(r.Context(), priority, page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list todo items")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, domain.MapPage(result, todoToResponse))
}

// ListByCategory handles GET /todo/by-category/{category}
func (h *TodoHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	verr := &domain.ValidationError{}
	page := parsePageRequest(r.URL.Query(), verr)
	if err := verr.Err(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.todoService.ListByCategory(r.Context(), chi.URLParam(r, "category"), page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list todo items")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, domain.MapPage(result, todoToResponse))
}

// ListFiltered handles GET /todo/filtered
func (h *TodoHandler) ListFiltered(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	verr := &domain.ValidationError{}
	query := parseTodoQuery(q, verr)
	page := parsePageRequest(q, verr)
	if err := verr.Err(); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.todoService.ListFiltered(r.Context(), query, page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list todo items")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, domain.MapPage(result, todoToResponse))
}

// Get handles GET /todo/{id}
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	item, err := h.todoService.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get todo item")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, todoToResponse(item))
}

// Create handles POST /todo
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTodoRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	item, err := h.todoService.Create(r.Context(), service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create todo item")
		return
	}

	log.Debug("todo item created via API", slog.String("todo_id", item.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, todoToResponse(item))
}

// Update handles PUT /todo/{id}
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateTodoRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	item, err := h.todoService.Update(r.Context(), id, req.Patch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update todo item")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, todoToResponse(item))
}

// Delete handles DELETE /todo/{id}
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.todoService.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete todo item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleCompletion handles PATCH /todo/{id}/toggle-completion
func (h *TodoHandler) ToggleCompletion(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	item, err := h.todoService.ToggleCompletion(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to toggle todo item")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, todoToResponse(item))
}
