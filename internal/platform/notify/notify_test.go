package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLink = "https://todo.example.com/accept-invitation?token=abc123"

func webhookConfig(url string) config.NotifyConfig {
	return config.NotifyConfig{
		Mode:           config.NotifyModeWebhook,
		WebhookURL:     url,
		TimeoutSeconds: 2,
		MaxFailures:    2,
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, log := logger.NewTestLogger(t)

	s, err := New(config.NotifyConfig{Mode: config.NotifyModeLog}, log)
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)

	s, err = New(webhookConfig("http://localhost:9/hook"), log)
	require.NoError(t, err)
	assert.IsType(t, &WebhookSender{}, s)

	_, err = New(config.NotifyConfig{Mode: config.NotifyModeWebhook}, log)
	assert.Error(t, err)

	_, err = New(config.NotifyConfig{Mode: "carrier-pigeon"}, log)
	assert.Error(t, err)
}

func TestLogSender_MasksToken(t *testing.T) {
	t.Parallel()

	buf, log := logger.NewTestLogger(t)
	s := NewLogSender(log)

	require.NoError(t, s.SendInvitation(context.Background(), "new@example.com", testLink))

	logger.AssertLogContains(t, buf, "invitation issued")
	logger.AssertLogContains(t, buf, "new@example.com")
	assert.NotContains(t, buf.String(), "abc123")
}

func TestWebhookSender_PostsPayload(t *testing.T) {
	t.Parallel()

	var got invitationPayload
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		contentType = r.Header.Get("Content-Type")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	_, log := logger.NewTestLogger(t)
	s, err := NewWebhookSender(webhookConfig(srv.URL), srv.Client(), log)
	require.NoError(t, err)

	require.NoError(t, s.SendInvitation(context.Background(), "new@example.com", testLink))
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, invitationPayload{Event: "invitation", Email: "new@example.com", Link: testLink}, got)
}

func TestWebhookSender_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, log := logger.NewTestLogger(t)
	s, err := NewWebhookSender(webhookConfig(srv.URL), srv.Client(), log)
	require.NoError(t, err)

	err = s.SendInvitation(context.Background(), "new@example.com", testLink)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	assert.True(t, strings.Contains(err.Error(), "502"))
}

func TestWebhookSender_OpensBreaker(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	buf, log := logger.NewTestLogger(t)
	s, err := NewWebhookSender(webhookConfig(srv.URL), srv.Client(), log)
	require.NoError(t, err)

	ctx := context.Background()
	for range 2 {
		assert.Error(t, s.SendInvitation(ctx, "new@example.com", testLink))
	}
	assert.Equal(t, gobreaker.StateOpen, s.State())

	err = s.SendInvitation(ctx, "new@example.com", testLink)
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), calls.Load(), "open breaker must not reach the endpoint")
	logger.AssertLogContains(t, buf, "circuit breaker state change")
}
