package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

const todoServiceName = "todo"

// CreateTodoInput holds the fields of a new todo item.
type CreateTodoInput struct {
	Title       string
	Description string
	Category    string
	Priority    domain.Priority
	DueDate     *time.Time
}

// TodoService provides the todo item use cases.
type TodoService interface {
	// Create validates and stores a new item. Every violated field rule is
	// reported in one *domain.ValidationError.
	Create(ctx context.Context, in CreateTodoInput) (*domain.TodoItem, error)

	// GetByID returns domain.ErrNotFound when the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TodoItem, error)

	// Update applies patch to the stored item and returns the result.
	Update(ctx context.Context, id uuid.UUID, patch domain.TodoPatch) (*domain.TodoItem, error)

	// Delete returns domain.ErrNotFound when the item does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ToggleCompletion flips the completion flag and returns the result.
	ToggleCompletion(ctx context.Context, id uuid.UUID) (*domain.TodoItem, error)

	ListAll(ctx context.Context) ([]*domain.TodoItem, error)
	ListPaged(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.TodoItem], error)
	ListByPriority(
		ctx context.Context,
		priority domain.Priority,
		page domain.PageRequest,
	) (domain.Page[*domain.TodoItem], error)
	ListByCategory(
		ctx context.Context,
		category string,
		page domain.PageRequest,
	) (domain.Page[*domain.TodoItem], error)
	ListFiltered(
		ctx context.Context,
		query domain.TodoQuery,
		page domain.PageRequest,
	) (domain.Page[*domain.TodoItem], error)
}

// todoServiceImpl implements the TodoService interface
type todoServiceImpl struct {
	todos  store.TodoStore
	now    func() time.Time
	logger *slog.Logger
}

// Ensure todoServiceImpl implements TodoService interface
var _ TodoService = (*todoServiceImpl)(nil)

// NewTodoService creates a new TodoService. A nil clock means time.Now.
func NewTodoService(todos store.TodoStore, clock func() time.Time, log *slog.Logger) (TodoService, error) {
	if todos == nil {
		return nil, errors.New("todo service requires a todo store")
	}
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &todoServiceImpl{
		todos:  todos,
		now:    clock,
		logger: log.With(slog.String("component", "todo_service")),
	}, nil
}

// Create implements TodoService.Create
func (s *todoServiceImpl) Create(ctx context.Context, in CreateTodoInput) (*domain.TodoItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := domain.NewTodoItem(in.Title, in.Description, in.Category, in.Priority, in.DueDate)
	if err != nil {
		log.Debug("rejected invalid todo item", slog.String("error", err.Error()))
		return nil, err
	}
	item.CreatedAt = s.now().UTC()

	if err := s.todos.Create(ctx, item); err != nil {
		return nil, mapStoreError(todoServiceName, "create", err)
	}

	log.Info("todo item created", slog.String("todo_id", item.ID.String()))
	return item, nil
}

// GetByID implements TodoService.GetByID
func (s *todoServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.TodoItem, error) {
	item, err := s.todos.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(todoServiceName, "get", err)
	}
	return item, nil
}

// Update implements TodoService.Update
func (s *todoServiceImpl) Update(ctx context.Context, id uuid.UUID, patch domain.TodoPatch) (*domain.TodoItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := s.todos.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(todoServiceName, "update", err)
	}
	if patch.IsEmpty() {
		return item, nil
	}

	patch.Apply(item, s.now())
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := s.todos.Update(ctx, item); err != nil {
		return nil, mapStoreError(todoServiceName, "update", err)
	}

	log.Info("todo item updated", slog.String("todo_id", id.String()))
	return item, nil
}

// Delete implements TodoService.Delete
func (s *todoServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.todos.Delete(ctx, id); err != nil {
		return mapStoreError(todoServiceName, "delete", err)
	}

	log.Info("todo item deleted", slog.String("todo_id", id.String()))
	return nil
}

// ToggleCompletion implements TodoService.ToggleCompletion
func (s *todoServiceImpl) ToggleCompletion(ctx context.Context, id uuid.UUID) (*domain.TodoItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := s.todos.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(todoServiceName, "toggle completion", err)
	}

	item.ToggleCompletion(s.now())
	if err := s.todos.Update(ctx, item); err != nil {
		return nil, mapStoreError(todoServiceName, "toggle completion", err)
	}

	log.Info("todo item completion toggled",
		slog.String("todo_id", id.String()),
		slog.Bool("is_completed", item.IsCompleted))
	return item, nil
}

// ListAll implements TodoService.ListAll
func (s *todoServiceImpl) ListAll(ctx context.Context) ([]*domain.TodoItem, error) {
	items, err := s.todos.ListAll(ctx)
	if err != nil {
		return nil, mapStoreError(todoServiceName, "list", err)
	}
	return items, nil
}

// ListPaged implements TodoService.ListPaged
func (s *todoServiceImpl) ListPaged(
	ctx context.Context,
	page domain.PageRequest,
) (domain.Page[*domain.TodoItem], error) {
	result, err := s.todos.ListPaged(ctx, page.Normalize())
	if err != nil {
		return domain.Page[*domain.TodoItem]{}, mapStoreError(todoServiceName, "list paged", err)
	}
	return result, nil
}

// ListByPriority implements TodoService.ListByPriority
func (s *todoServiceImpl) ListByPriority(
	ctx context.Context,
	priority domain.Priority,
	page domain.PageRequest,
) (domain.Page[*domain.TodoItem], error) {
	if !priority.Valid() {
		return domain.Page[*domain.TodoItem]{},
			domain.NewValidationError("priority", "must be one of Low, Medium, High, Critical")
	}

	result, err := s.todos.ListByPriority(ctx, priority, page.Normalize())
	if err != nil {
		return domain.Page[*domain.TodoItem]{}, mapStoreError(todoServiceName, "list by priority", err)
	}
	return result, nil
}

// ListByCategory implements TodoService.ListByCategory
func (s *todoServiceImpl) ListByCategory(
	ctx context.Context,
	category string,
	page domain.PageRequest,
) (domain.Page[*domain.TodoItem], error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return domain.Page[*domain.TodoItem]{}, domain.NewValidationError("category", "is required")
	}

	result, err := s.todos.ListByCategory(ctx, category, page.Normalize())
	if err != nil {
		return domain.Page[*domain.TodoItem]{}, mapStoreError(todoServiceName, "list by category", err)
	}
	return result, nil
}

// ListFiltered implements TodoService.ListFiltered
func (s *todoServiceImpl) ListFiltered(
	ctx context.Context,
	query domain.TodoQuery,
	page domain.PageRequest,
) (domain.Page[*domain.TodoItem], error) {
	query = query.Normalize()
	if err := query.Validate(); err != nil {
		return domain.Page[*domain.TodoItem]{}, err
	}

	result, err := s.todos.ListFiltered(ctx, query, page.Normalize())
	if err != nil {
		return domain.Page[*domain.TodoItem]{}, mapStoreError(todoServiceName, "list filtered", err)
	}
	return result, nil
}
