// Package mocks provides centralized mock implementations for testing.
//
// The store mocks keep their data in memory and behave like the PostgreSQL
// stores (uniqueness, not-found errors, orderings), so service and handler
// tests can exercise real flows without a database. Every mock also exposes
// function fields that override the default behaviour for a single method:
//
//	users := mocks.NewMockUserStore(owner)
//	users.GetByEmailFn = func(ctx context.Context, email string) (*domain.User, error) {
//	    return nil, errors.New("connection refused")
//	}
package mocks
