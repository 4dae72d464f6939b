package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "ErrUserNotFound", err: ErrUserNotFound, expected: true},
		{name: "wrapped ErrTodoNotFound", err: fmt.Errorf("get todo: %w", ErrTodoNotFound), expected: true},
		{name: "duplicate is not not-found", err: ErrEmailExists, expected: false},
		{
			name:     "store error wrapping not found",
			err:      NewStoreError("todo item", "update", "no rows", ErrTodoNotFound),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrEmailExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("create: %w", ErrUsernameExists)))
	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.False(t, IsDuplicateError(ErrUserNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestEntitySpecificErrors(t *testing.T) {
	assert.Equal(t, "entity not found: user", ErrUserNotFound.Error())
	assert.Equal(t, "entity not found: todo item", ErrTodoNotFound.Error())
	assert.Equal(t, "entity already exists: email", ErrEmailExists.Error())
	assert.Equal(t, "entity already exists: username", ErrUsernameExists.Error())
	assert.False(t, errors.Is(ErrEmailExists, ErrUsernameExists))
}

func TestStoreError(t *testing.T) {
	cause := errors.New("boom")
	err := NewStoreError("user", "create", "insert failed", cause)

	assert.Equal(t, "create operation on user failed: insert failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("todo item", "list", "bad page", nil)
	assert.Equal(t, "list operation on todo item failed: bad page", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
