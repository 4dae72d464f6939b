package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/sony/gobreaker/v2"
)

// breakerOpenTimeout is how long the breaker stays open before probing again.
const breakerOpenTimeout = 30 * time.Second

// invitationPayload is the JSON body POSTed to the webhook.
type invitationPayload struct {
	Event string `json:"event"`
	Email string `json:"email"`
	Link  string `json:"link"`
}

// WebhookSender POSTs invitations to an HTTP endpoint.
type WebhookSender struct {
	url        string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[struct{}]
	logger     *slog.Logger
}

var _ Sender = (*WebhookSender)(nil)

// NewWebhookSender creates a WebhookSender for cfg.WebhookURL. A nil client
// gets a default client with cfg.Timeout().
func NewWebhookSender(cfg config.NotifyConfig, client *http.Client, log *slog.Logger) (*WebhookSender, error) {
	if cfg.WebhookURL == "" {
		return nil, errors.New("webhook sender requires a webhook URL")
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "webhook_sender"))

	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}
	maxFailures := cfg.MaxFailures
	if maxFailures <= 0 {
		maxFailures = 5
	}

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "invitation-webhook",
		MaxRequests: 1,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= toUint32(maxFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})

	return &WebhookSender{
		url:        cfg.WebhookURL,
		httpClient: client,
		breaker:    cb,
		logger:     log,
	}, nil
}

// SendInvitation implements Sender.
func (s *WebhookSender) SendInvitation(ctx context.Context, email, link string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	body, err := json.Marshal(invitationPayload{Event: "invitation", Email: email, Link: link})
	if err != nil {
		return fmt.Errorf("%w: encode payload: %w", ErrDeliveryFailed, err)
	}

	_, err = s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.post(ctx, body)
	})
	if err != nil {
		log.Warn("invitation webhook failed",
			slog.String("email", email),
			slog.String("error", err.Error()))
		if errors.Is(err, ErrDeliveryFailed) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	log.Debug("invitation webhook delivered", slog.String("email", email))
	return nil
}

func (s *WebhookSender) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: webhook responded with status %d", ErrDeliveryFailed, resp.StatusCode)
	}
	return nil
}

// State reports the circuit breaker state.
func (s *WebhookSender) State() gobreaker.State {
	return s.breaker.State()
}

func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
