package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing.
type MockJWTService struct {
	// Function fields for custom behaviors
	GenerateTokenFn func(ctx context.Context, user *domain.User) (string, time.Time, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Fixed fields for simple cases
	Token           string
	ExpiresAt       time.Time
	TokenError      error
	Claims          *auth.Claims
	ValidationError error

	mu          sync.Mutex
	IssuedFor   []*domain.User
	ValidateArg []string
}

// Ensure MockJWTService implements auth.JWTService interface
var _ auth.JWTService = (*MockJWTService)(nil)

// NewMockJWTService creates a mock that issues "mock-jwt-token".
func NewMockJWTService() *MockJWTService {
	return &MockJWTService{
		Token:     "mock-jwt-token",
		ExpiresAt: time.Now().Add(24 * time.Hour).UTC(),
	}
}

// GenerateToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	m.mu.Lock()
	m.IssuedFor = append(m.IssuedFor, user)
	m.mu.Unlock()

	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, user)
	}
	return m.Token, m.ExpiresAt, m.TokenError
}

// ValidateToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	m.mu.Lock()
	m.ValidateArg = append(m.ValidateArg, tokenString)
	m.mu.Unlock()

	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	if m.ValidationError != nil {
		return nil, m.ValidationError
	}
	return m.Claims, nil
}
