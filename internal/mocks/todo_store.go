package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
)

// MockTodoStore implements store.TodoStore in memory for testing.
//
// Listings follow the same orderings as the PostgreSQL store and filter with
// domain.TodoQuery.Matches.
type MockTodoStore struct {
	// Function fields for customizable behavior
	CreateFn       func(ctx context.Context, item *domain.TodoItem) error
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.TodoItem, error)
	UpdateFn       func(ctx context.Context, item *domain.TodoItem) error
	DeleteFn       func(ctx context.Context, id uuid.UUID) error
	ListFilteredFn func(ctx context.Context, q domain.TodoQuery, page domain.PageRequest) (domain.Page[*domain.TodoItem], error)

	// Err, when set, is returned by every method without a function override.
	Err error

	mu    sync.Mutex
	items map[uuid.UUID]*domain.TodoItem
}

// Ensure MockTodoStore implements store.TodoStore interface
var _ store.TodoStore = (*MockTodoStore)(nil)

// NewMockTodoStore creates a mock store seeded with items.
func NewMockTodoStore(items ...*domain.TodoItem) *MockTodoStore {
	m := &MockTodoStore{items: make(map[uuid.UUID]*domain.TodoItem)}
	for _, it := range items {
		m.items[it.ID] = copyTodo(it)
	}
	return m
}

// Create implements the TodoStore interface
func (m *MockTodoStore) Create(ctx context.Context, item *domain.TodoItem) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, item)
	}
	if m.Err != nil {
		return m.Err
	}
	if err := item.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[item.ID]; exists {
		return store.ErrDuplicate
	}
	m.items[item.ID] = copyTodo(item)
	return nil
}

// GetByID implements the TodoStore interface
func (m *MockTodoStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TodoItem, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return nil, store.ErrTodoNotFound
	}
	return copyTodo(item), nil
}

// ListAll implements the TodoStore interface
func (m *MockTodoStore) ListAll(ctx context.Context) ([]*domain.TodoItem, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.selectItems(domain.TodoQuery{}, false), nil
}

// Update implements the TodoStore interface
func (m *MockTodoStore) Update(ctx context.Context, item *domain.TodoItem) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, item)
	}
	if m.Err != nil {
		return m.Err
	}
	if err := item.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.items[item.ID]
	if !ok {
		return store.ErrTodoNotFound
	}
	updated := copyTodo(item)
	updated.CreatedAt = existing.CreatedAt
	m.items[item.ID] = updated
	return nil
}

// Delete implements the TodoStore interface
func (m *MockTodoStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return store.ErrTodoNotFound
	}
	delete(m.items, id)
	return nil
}

// ListPaged implements the TodoStore interface
func (m *MockTodoStore) ListPaged(
	ctx context.Context,
	page domain.PageRequest,
) (domain.Page[*domain.TodoItem], error) {
	if m.Err != nil {
		return domain.Page[*domain.TodoItem]{}, m.Err
	}
	return paginate(m.selectItems(domain.TodoQuery{}, false), page), nil
}

// ListByPriority implements the TodoStore interface
func (m *MockTodoStore) ListByPriority(
	ctx context.Context,
	priority domain.Priority,
	page domain.PageRequest,
) (domain.Page[*domain.TodoItem], error) {
	if m.Err != nil {
		return domain.Page[*domain.TodoItem]{}, m.Err
	}
	return paginate(m.selectItems(domain.TodoQuery{Priority: &priority}, false), page), nil
}

// ListByCategory implements the TodoStore interface
func (m *MockTodoStore) ListByCategory(
	ctx context.Context,
	category string,
	page domain.PageRequest,
) (domain.Page[*domain.TodoItem], error) {
	if m.Err != nil {
		return domain.Page[*domain.TodoItem]{}, m.Err
	}
	if category == "" {
		return paginate(nil, page), nil
	}
	return paginate(m.selectItems(domain.TodoQuery{Category: category}, false), page), nil
}

// ListFiltered implements the TodoStore interface
func (m *MockTodoStore) ListFiltered(
	ctx context.Context,
	q domain.TodoQuery,
	page domain.PageRequest,
) (domain.Page[*domain.TodoItem], error) {
	if m.ListFilteredFn != nil {
		return m.ListFilteredFn(ctx, q, page)
	}
	if m.Err != nil {
		return domain.Page[*domain.TodoItem]{}, m.Err
	}
	return paginate(m.selectItems(q.Normalize(), true), page), nil
}

// WithTx implements the TodoStore interface. The mock has no transactions.
func (m *MockTodoStore) WithTx(_ *sql.Tx) store.TodoStore {
	return m
}

// Count returns the number of stored items.
func (m *MockTodoStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *MockTodoStore) selectItems(q domain.TodoQuery, newestFirst bool) []*domain.TodoItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]*domain.TodoItem, 0, len(m.items))
	for _, it := range m.items {
		if q.Matches(it) {
			items = append(items, copyTodo(it))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			if newestFirst {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.CreatedAt.Before(b.CreatedAt)
		}
		if newestFirst {
			return a.ID.String() > b.ID.String()
		}
		return a.ID.String() < b.ID.String()
	})
	return items
}

func paginate(items []*domain.TodoItem, page domain.PageRequest) domain.Page[*domain.TodoItem] {
	page = page.Normalize()
	total := len(items)

	start := page.Offset()
	if start > int64(total) {
		start = int64(total)
	}
	end := start + int64(page.Limit())
	if end > int64(total) {
		end = int64(total)
	}
	return domain.NewPage(page, total, items[start:end])
}

func copyTodo(it *domain.TodoItem) *domain.TodoItem {
	c := *it
	if it.DueDate != nil {
		t := *it.DueDate
		c.DueDate = &t
	}
	if it.CompletedAt != nil {
		t := *it.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
