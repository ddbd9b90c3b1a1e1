package newsletter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSubscribeNormalisesAndIsIdempotent(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	svc := NewService(store, discard())
	first := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	require.NoError(t, svc.Subscribe(context.Background(), "  Donor@Example.COM "))
	svc.now = func() time.Time { return first.Add(time.Hour) }
	require.NoError(t, svc.Subscribe(context.Background(), "donor@example.com"))

	sub, ok := store.Get("donor@example.com")
	require.True(t, ok)
	assert.True(t, sub.Active)
	assert.Equal(t, first, sub.SubscribedAt, "resubscribing keeps the first timestamp")
}

func TestSubscribeRejectsInvalidEmail(t *testing.T) {
	t.Parallel()

	svc := NewService(NewMemoryStore(), discard())
	for _, email := range []string{"", "donor", "donor@example"} {
		assert.ErrorIs(t, svc.Subscribe(context.Background(), email), ErrInvalidEmail, email)
	}
}

type brokenStore struct{}

func (brokenStore) Subscribe(context.Context, string, time.Time) error {
	return errors.New("connection reset")
}

func post(t *testing.T, store Store, email string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(NewService(store, discard()), discard())
	req := httptest.NewRequest(http.MethodPost, "/newsletter", strings.NewReader(url.Values{"email": {email}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.Subscribe(rec, req)
	return rec
}

func TestHandlerSubscribe(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		store   Store
		email   string
		status  int
		message string
	}{
		{"ok", NewMemoryStore(), "donor@example.com", http.StatusOK, "Thank you for subscribing"},
		{"invalid", NewMemoryStore(), "nope", http.StatusUnprocessableEntity, "Please enter a valid email address"},
		{"store failure", brokenStore{}, "donor@example.com", http.StatusInternalServerError, "Failed to subscribe"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := post(t, tc.store, tc.email)
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Header().Get("HX-Trigger"), tc.message)
		})
	}
}
