package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notificationDomain "github.com/MEERAN2314/socialtab/notification"
)

func dummyNotification() *notificationDomain.Notification {
	return notificationDomain.New("bob", notificationDomain.TypeDebtRequest,
		"New Debt Request", "alice says you owe $50.00 for dinner", "debt-1", "/debts/debt-1")
}

func newTestSink(url string) *Sink {
	return New(Config{URL: url, HTTPMaxRetryCount: 0})
}

func TestNotify(t *testing.T) {
	t.Parallel()

	var received payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))

		w.Write([]byte(`{"ok": true}`)) //nolint:errcheck
	}))
	t.Cleanup(server.Close)

	n := dummyNotification()
	require.NoError(t, newTestSink(server.URL).Notify(context.Background(), n))

	assert.Equal(t, n.ID, received.ID)
	assert.Equal(t, "bob", received.Username)
	assert.Equal(t, "debt_request", received.Type)
	assert.Equal(t, "debt-1", received.DebtID)
}

func TestNotifyRejected(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"ok": false, "error": "recipient opted out"}`)) //nolint:errcheck
	}))
	t.Cleanup(server.Close)

	err := newTestSink(server.URL).Notify(context.Background(), dummyNotification())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recipient opted out")
}

func TestNotifyHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	err := newTestSink(server.URL).Notify(context.Background(), dummyNotification())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestNotifyBadJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json")) //nolint:errcheck
	}))
	t.Cleanup(server.Close)

	err := newTestSink(server.URL).Notify(context.Background(), dummyNotification())
	require.Error(t, err)
}
