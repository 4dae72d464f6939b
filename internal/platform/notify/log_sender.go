package notify

import (
	"context"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/platform/logger"
)

// LogSender "delivers" invitations by logging them. The handler masks the
// token in the link; the full link is returned to the inviter instead.
type LogSender struct {
	logger *slog.Logger
}

var _ Sender = (*LogSender)(nil)

// NewLogSender creates a LogSender.
func NewLogSender(log *slog.Logger) *LogSender {
	if log == nil {
		log = slog.Default()
	}
	return &LogSender{logger: log.With(slog.String("component", "log_sender"))}
}

// SendInvitation implements Sender. It never fails.
func (s *LogSender) SendInvitation(ctx context.Context, email, link string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Info("invitation issued",
		slog.String("email", email),
		slog.String("invitation_link", link))
	return nil
}
