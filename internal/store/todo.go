package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
)

// TodoStore defines the interface for todo item persistence.
//
// The listing methods expect an already normalized domain.PageRequest and
// return pages whose TotalCount reflects every matching item, not only the
// returned slice. A page beyond the last one yields empty Items.
type TodoStore interface {
	// Create saves a new todo item.
	Create(ctx context.Context, item *domain.TodoItem) error

	// GetByID retrieves a todo item by ID.
	// Returns ErrTodoNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TodoItem, error)

	// ListAll returns every todo item ordered by creation time, oldest first.
	ListAll(ctx context.Context) ([]*domain.TodoItem, error)

	// Update replaces all mutable fields of an existing todo item.
	// Returns ErrTodoNotFound if it does not exist.
	Update(ctx context.Context, item *domain.TodoItem) error

	// Delete removes a todo item.
	// Returns ErrTodoNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListPaged returns one page of all items, oldest first.
	ListPaged(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.TodoItem], error)

	// ListByPriority returns one page of items with the given priority, oldest first.
	ListByPriority(
		ctx context.Context,
		priority domain.Priority,
		page domain.PageRequest,
	) (domain.Page[*domain.TodoItem], error)

	// ListByCategory returns one page of items in the given category
	// (exact match), oldest first.
	ListByCategory(
		ctx context.Context,
		category string,
		page domain.PageRequest,
	) (domain.Page[*domain.TodoItem], error)

	// ListFiltered returns one page of items matching every set filter in
	// query, newest first.
	ListFiltered(
		ctx context.Context,
		query domain.TodoQuery,
		page domain.PageRequest,
	) (domain.Page[*domain.TodoItem], error)

	// WithTx returns a new TodoStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TodoStore
}
