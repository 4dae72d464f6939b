package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

const todoColumns = `id, title, description, is_completed, created_at, due_date, completed_at, priority, category`

// PostgresTodoStore implements the store.TodoStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTodoStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTodoStore creates a new PostgreSQL implementation of the TodoStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTodoStore(db store.DBTX, logger *slog.Logger) *PostgresTodoStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTodoStore{
		db:     db,
		logger: logger.With(slog.String("component", "todo_store")),
	}
}

// Ensure PostgresTodoStore implements store.TodoStore interface
var _ store.TodoStore = (*PostgresTodoStore)(nil)

// WithTx implements store.TodoStore.WithTx
func (s *PostgresTodoStore) WithTx(tx *sql.Tx) store.TodoStore {
	return &PostgresTodoStore{db: tx, logger: s.logger}
}

// Create implements store.TodoStore.Create
func (s *PostgresTodoStore) Create(ctx context.Context, item *domain.TodoItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("todo item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("todo_id", item.ID.String()))
		return err
	}

	query := `
		INSERT INTO todo_items (` + todoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		item.ID,
		item.Title,
		item.Description,
		item.IsCompleted,
		item.CreatedAt,
		nullTime(item.DueDate),
		nullTime(item.CompletedAt),
		item.Priority.String(),
		item.Category,
	)
	if err != nil {
		log.Error("failed to create todo item",
			slog.String("error", err.Error()),
			slog.String("todo_id", item.ID.String()))
		return fmt.Errorf("failed to create todo item: %w", MapError(err))
	}

	log.Info("todo item created successfully", slog.String("todo_id", item.ID.String()))
	return nil
}

// GetByID implements store.TodoStore.GetByID
func (s *PostgresTodoStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TodoItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + todoColumns + ` FROM todo_items WHERE id = $1`
	item, err := scanTodo(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("todo item not found", slog.String("todo_id", id.String()))
			return nil, store.ErrTodoNotFound
		}
		log.Error("failed to get todo item",
			slog.String("error", err.Error()),
			slog.String("todo_id", id.String()))
		return nil, fmt.Errorf("failed to get todo item: %w", err)
	}
	return item, nil
}

// ListAll implements store.TodoStore.ListAll
func (s *PostgresTodoStore) ListAll(ctx context.Context) ([]*domain.TodoItem, error) {
	query := `SELECT ` + todoColumns + ` FROM todo_items ORDER BY ` + orderOldestFirst
	return s.queryItems(ctx, query)
}

// Update implements store.TodoStore.Update
func (s *PostgresTodoStore) Update(ctx context.Context, item *domain.TodoItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("todo item validation failed during update",
			slog.String("error", err.Error()),
			slog.String("todo_id", item.ID.String()))
		return err
	}

	query := `
		UPDATE todo_items
		SET title = $1, description = $2, is_completed = $3, due_date = $4,
		    completed_at = $5, priority = $6, category = $7
		WHERE id = $8
	`
	result, err := s.db.ExecContext(ctx, query,
		item.Title,
		item.Description,
		item.IsCompleted,
		nullTime(item.DueDate),
		nullTime(item.CompletedAt),
		item.Priority.String(),
		item.Category,
		item.ID,
	)
	if err != nil {
		log.Error("failed to update todo item",
			slog.String("error", err.Error()),
			slog.String("todo_id", item.ID.String()))
		return fmt.Errorf("failed to update todo item: %w", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrTodoNotFound); err != nil {
		return err
	}

	log.Debug("todo item updated", slog.String("todo_id", item.ID.String()))
	return nil
}

// Delete implements store.TodoStore.Delete
func (s *PostgresTodoStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM todo_items WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete todo item",
			slog.String("error", err.Error()),
			slog.String("todo_id", id.String()))
		return fmt.Errorf("failed to delete todo item: %w", err)
	}
	if err := CheckRowsAffected(result, store.ErrTodoNotFound); err != nil {
		return err
	}

	log.Info("todo item deleted successfully", slog.String("todo_id", id.String()))
	return nil
}

// ListPaged implements store.TodoStore.ListPaged
func (s *PostgresTodoStore) ListPaged(
	ctx context.Context,
	page domain.PageRequest,
) (domain.Page[*domain.TodoItem], error) {
	return s.listPage(ctx, &todoFilter{}, orderOldestFirst, page)
}

// ListByPriority implements store.TodoStore.ListByPriority
func (s *PostgresTodoStore) ListByPriority(
	ctx context.Context,
	priority domain.Priority,
	page domain.PageRequest,
) (domain.Page[*domain.TodoItem], error) {
	return s.listPage(ctx, buildTodoFilter(domain.TodoQuery{Priority: &priority}), orderOldestFirst, page)
}

// ListByCategory implements store.TodoStore.ListByCategory
func (s *PostgresTodoStore) ListByCategory(
	ctx context.Context,
	category string,
	page domain.PageRequest,
) (domain.Page[*domain.TodoItem], error) {
	f := &todoFilter{}
	f.add("category = ?", category)
	return s.listPage(ctx, f, orderOldestFirst, page)
}

// ListFiltered implements store.TodoStore.ListFiltered
func (s *PostgresTodoStore) ListFiltered(
	ctx context.Context,
	query domain.TodoQuery,
	page domain.PageRequest,
) (domain.Page[*domain.TodoItem], error) {
	return s.listPage(ctx, buildTodoFilter(query.Normalize()), orderNewestFirst, page)
}

// listPage counts every item matching f, then fetches the requested slice.
func (s *PostgresTodoStore) listPage(
	ctx context.Context,
	f *todoFilter,
	order string,
	page domain.PageRequest,
) (domain.Page[*domain.TodoItem], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	page = page.Normalize()

	var total int
	countQuery := `SELECT COUNT(*) FROM todo_items` + f.where()
	if err := s.db.QueryRowContext(ctx, countQuery, f.args...).Scan(&total); err != nil {
		log.Error("failed to count todo items", slog.String("error", err.Error()))
		return domain.Page[*domain.TodoItem]{}, fmt.Errorf("failed to count todo items: %w", err)
	}

	n := f.nextPlaceholder()
	query := fmt.Sprintf(`SELECT %s FROM todo_items%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		todoColumns, f.where(), order, n, n+1)
	args := append(append([]any{}, f.args...), page.Limit(), page.Offset())

	items, err := s.queryItems(ctx, query, args...)
	if err != nil {
		return domain.Page[*domain.TodoItem]{}, err
	}

	log.Debug("listed todo page",
		slog.Int("page_number", page.PageNumber),
		slog.Int("page_size", page.PageSize),
		slog.Int("total_count", total),
		slog.Int("returned", len(items)))
	return domain.NewPage(page, total, items), nil
}

func (s *PostgresTodoStore) queryItems(ctx context.Context, query string, args ...any) ([]*domain.TodoItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query todo items", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query todo items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*domain.TodoItem, 0)
	for rows.Next() {
		item, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todo items: %w", err)
	}
	return items, nil
}

func scanTodo(row rowScanner) (*domain.TodoItem, error) {
	var (
		item        domain.TodoItem
		dueDate     sql.NullTime
		completedAt sql.NullTime
	)
	if err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.IsCompleted,
		&item.CreatedAt,
		&dueDate,
		&completedAt,
		&item.Priority,
		&item.Category,
	); err != nil {
		return nil, err
	}

	item.CreatedAt = item.CreatedAt.UTC()
	if dueDate.Valid {
		t := dueDate.Time.UTC()
		item.DueDate = &t
	}
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		item.CompletedAt = &t
	}
	return &item, nil
}
