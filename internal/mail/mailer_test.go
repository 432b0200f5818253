// AngelaMos | 2026
// mailer_test.go

package mail

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/storefront/internal/config"
	"github.com/carterperez-dev/storefront/internal/core"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendPostsToEmailEndpoint(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/emails", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusOK)
		}))
	defer srv.Close()

	client := NewClient(config.MailConfig{
		Endpoint: srv.URL,
		APIKey:   "test-key",
		From:     "Storefront <noreply@storefront.dev>",
		Timeout:  5 * time.Second,
	}, discardLogger())

	err := client.Send(context.Background(), Email{
		To:      "ada@example.com",
		Subject: "Reset your password",
		HTML:    "<p>hello</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "ada@example.com", gotBody["to"])
	assert.Equal(t, "Storefront <noreply@storefront.dev>", gotBody["from"])
	assert.Equal(t, "Reset your password", gotBody["subject"])
}

func TestSendMapsUpstreamFailureToDependencyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
	defer srv.Close()

	client := NewClient(config.MailConfig{
		Endpoint: srv.URL,
		APIKey:   "test-key",
		Timeout:  5 * time.Second,
	}, discardLogger())

	err := client.Send(context.Background(), Email{To: "a@b.c"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDependency))
}

func TestSendWithoutAPIKeySkipsDelivery(t *testing.T) {
	// No server: with an empty key the client must not touch the network.
	client := NewClient(config.MailConfig{
		Endpoint: "http://127.0.0.1:1",
		Timeout:  time.Second,
	}, discardLogger())

	err := client.Send(context.Background(), Email{To: "a@b.c"})
	assert.NoError(t, err)
}

func TestPasswordResetTemplate(t *testing.T) {
	email := PasswordReset(
		"ada@example.com",
		"Ada",
		"http://localhost:3000/user/reset-password?token=raw",
	)

	assert.Equal(t, "ada@example.com", email.To)
	assert.Contains(t, email.HTML, "Ada")
	assert.Contains(t, email.HTML, "token=raw")
	assert.Contains(t, email.HTML, "20 minutes")
}
