package httpadapter_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// watch opens an event stream and returns the data payload of every event.
func watch(t *testing.T, url string) <-chan string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		resp.Body.Close()
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan string, 8)
	go func() {
		defer close(events)
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			if data, ok := strings.CutPrefix(sc.Text(), "data: "); ok {
				events <- data
			}
		}
	}()
	return events
}

func nextEvent[T any](t *testing.T, events <-chan string) T {
	t.Helper()
	select {
	case data, ok := <-events:
		require.True(t, ok, "stream closed")
		var v T
		require.NoError(t, json.Unmarshal([]byte(data), &v), "data=%s", data)
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
	var zero T
	return zero
}

type contactsJSON struct {
	Contacts []contactJSON `json:"contacts"`
	Stale    bool          `json:"stale"`
}

func TestWatchContactsReceivesRefreshes(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	require.Equal(t, http.StatusCreated,
		do(t, srv, http.MethodPost, "/contacts", map[string]string{"name": "Anna", "phone": "0901234567"}).Code)
	require.Equal(t, http.StatusCreated,
		do(t, srv, http.MethodPost, "/contacts", map[string]string{"name": "Binh", "phone": "0911111111"}).Code)

	events := watch(t, ts.URL+"/contacts/watch?q=anna")

	// nothing was refreshed yet, so the stream stays quiet until a list is fetched
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/contacts", nil).Code)

	got := nextEvent[contactsJSON](t, events)
	require.Len(t, got.Contacts, 1)
	assert.Equal(t, "Anna", got.Contacts[0].Name)
	assert.False(t, got.Stale)

	// a late watcher starts from the last known list
	late := watch(t, ts.URL+"/contacts/watch")
	got = nextEvent[contactsJSON](t, late)
	assert.Len(t, got.Contacts, 2)
}

func TestWatchHistoryReceivesRefreshes(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	events := watch(t, ts.URL+"/history/watch?filter=missed")

	require.Equal(t, http.StatusCreated,
		do(t, srv, http.MethodPost, "/calls/incoming", map[string]string{"phone": "0905555555"}).Code)
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/calls/active/reject", nil).Code)
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/history", nil).Code)

	got := nextEvent[historyJSON](t, events)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "0905555555", got.Records[0].Phone)
	assert.Equal(t, "missed", got.Records[0].Type)
	assert.Equal(t, 1, got.MissedCount)
}

func TestWatchHistoryRejectsUnknownFilter(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/history/watch?filter=recent", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
