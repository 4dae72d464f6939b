package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
)

// ErrSelfDeletion is returned when a user tries to delete their own account.
var ErrSelfDeletion = fmt.Errorf("%w: users cannot delete their own account", domain.ErrValidation)

// ServiceError reports an unexpected failure of a service operation.
// Expected conditions are reported with the domain error sentinels instead.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// mapStoreError translates a store error into the domain error taxonomy.
// Errors that fit no category become a *ServiceError.
func mapStoreError(service, operation string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrValidation):
		return err
	case store.IsNotFoundError(err):
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case store.IsDuplicateError(err):
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	case errors.Is(err, store.ErrInvalidEntity):
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	default:
		return NewServiceError(service, operation, "store operation failed", err)
	}
}
