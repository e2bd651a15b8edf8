package livereload

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTimeout = 3 * time.Second
	testTick    = 10 * time.Millisecond
)

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	assert.Equal(t, 101, resp.StatusCode)
	return conn
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	a := dial(t, srv.URL)
	b := dial(t, srv.URL)
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, testTimeout, testTick)

	hub.Broadcast(Reload)

	for _, conn := range []*websocket.Conn{a, b} {
		var got Message
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(testTimeout)))
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, "reload", got.Type)
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv.URL)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, testTimeout, testTick)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, testTimeout, testTick)
}

func TestHubClose(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv.URL)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, testTimeout, testTick)

	hub.Close()

	assert.Equal(t, 0, hub.Clients())
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(testTimeout)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestWatcherDebounces(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32

	w, err := NewWatcher(dir, 50*time.Millisecond, func() { calls.Add(1) })
	require.NoError(t, err)
	go w.Start()
	defer w.Stop()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "1.md"), []byte(strings.Repeat("x", i+1)), 0o644))
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, testTimeout, testTick)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcherWatchesNewDirectories(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32

	w, err := NewWatcher(dir, 20*time.Millisecond, func() { calls.Add(1) })
	require.NoError(t, err)
	go w.Start()
	defer w.Stop()

	sub := filepath.Join(dir, "posts")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, testTimeout, testTick)

	before := calls.Load()
	require.NoError(t, os.WriteFile(filepath.Join(sub, "2.md"), []byte("two"), 0o644))
	assert.Eventually(t, func() bool { return calls.Load() > before }, testTimeout, testTick)
}

func TestWatcherIgnoresHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32

	w, err := NewWatcher(dir, 20*time.Millisecond, func() { calls.Add(1) })
	require.NoError(t, err)
	go w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".1.md.swp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.md~"), []byte("x"), 0o644))

	assert.Never(t, func() bool { return calls.Load() > 0 }, 200*time.Millisecond, testTick)
}
