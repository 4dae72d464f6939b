package mocks

import (
	"context"
	"sync"
)

// SentInvitation records one call to MockInvitationSender.SendInvitation.
type SentInvitation struct {
	Email string
	Link  string
}

// MockInvitationSender implements auth.InvitationSender and records every
// invitation it is asked to send.
type MockInvitationSender struct {
	SendFn func(ctx context.Context, email, link string) error
	Err    error

	mu   sync.Mutex
	sent []SentInvitation
}

// SendInvitation implements auth.InvitationSender.
func (m *MockInvitationSender) SendInvitation(ctx context.Context, email, link string) error {
	m.mu.Lock()
	m.sent = append(m.sent, SentInvitation{Email: email, Link: link})
	m.mu.Unlock()

	if m.SendFn != nil {
		return m.SendFn(ctx, email, link)
	}
	return m.Err
}

// Sent returns the invitations recorded so far.
func (m *MockInvitationSender) Sent() []SentInvitation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentInvitation(nil), m.sent...)
}
