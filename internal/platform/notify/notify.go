package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/config"
)

// ErrDeliveryFailed is returned when an invitation could not be delivered.
var ErrDeliveryFailed = errors.New("invitation delivery failed")

// Sender delivers an invitation link to an email address.
type Sender interface {
	SendInvitation(ctx context.Context, email, link string) error
}

// New builds the Sender selected by cfg.Mode.
func New(cfg config.NotifyConfig, logger *slog.Logger) (Sender, error) {
	switch cfg.Mode {
	case config.NotifyModeLog, "":
		return NewLogSender(logger), nil
	case config.NotifyModeWebhook:
		return NewWebhookSender(cfg, nil, logger)
	default:
		return nil, fmt.Errorf("unknown notify mode %q", cfg.Mode)
	}
}
