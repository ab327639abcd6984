package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *FCMClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("FCM_ENDPOINT", srv.URL)
	t.Setenv("FCM_SERVER_KEY", "test-key")
	return NewFCMClient()
}

func TestPushReportsStaleTokens(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":1,"failure":1,"results":[{"error":""},{"error":"NotRegistered"}]}`))
	})

	sent, stale, err := client.Push(context.Background(), []string{"tok-a", "tok-b"}, "Title", "Body")
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"tok-b"}, stale)
}

func TestPushIgnoresOversizedResultSet(t *testing.T) {
	// The provider answers with more results than tokens were sent;
	// surplus entries must be dropped, not indexed.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":1,"failure":3,"results":[{"error":""},{"error":"NotRegistered"},{"error":"NotRegistered"},{"error":"NotRegistered"}]}`))
	})

	sent, stale, err := client.Push(context.Background(), []string{"tok-a", "tok-b"}, "Title", "Body")
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"tok-b"}, stale)
}

func TestPushWithoutServerKeyIsNoOp(t *testing.T) {
	t.Setenv("FCM_SERVER_KEY", "")
	client := NewFCMClient()

	sent, stale, err := client.Push(context.Background(), []string{"tok-a"}, "Title", "Body")
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, stale)
}
