package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestLiveReloadBroadcast(t *testing.T) {
	env := setupTest(t, "community")
	server := httptest.NewServer(env.srv.Router())
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/livereload"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	hub := env.srv.Hub()
	waitFor(t, "client registration", func() bool { return hub.Clients() == 1 })

	hub.Broadcast("reload")
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != "reload" {
		t.Errorf("message = %q, want reload", msg)
	}

	conn.Close()
	waitFor(t, "client removal", func() bool { return hub.Clients() == 0 })
}

func TestLiveReloadDisabled(t *testing.T) {
	env := setupTest(t, "community")
	env.srv = New(Config{}, env.srv.gen, env.db, quietLogger)

	if env.srv.Hub() != nil {
		t.Fatal("hub should be nil when live reload is off")
	}
	w := env.do(t, "GET", "/community", nil)
	if strings.Contains(w.Body.String(), "/livereload") {
		t.Error("reload script should not be injected")
	}
}

func TestInjectReloadScript(t *testing.T) {
	out := string(injectReloadScript([]byte("<html><body><p>x</p></body></html>")))
	if !strings.HasSuffix(out, reloadScript+"</body></html>") {
		t.Errorf("script not placed before </body>: %s", out)
	}
	out = string(injectReloadScript([]byte("<p>fragment</p>")))
	if !strings.HasSuffix(out, reloadScript) {
		t.Errorf("script not appended to fragment: %s", out)
	}
}

func TestWatcherDebouncesChanges(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "community")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	changes := make(chan struct{}, 10)
	w, err := NewWatcher(WatcherOptions{
		Roots:    []string{root},
		Delay:    50 * time.Millisecond,
		Ignore:   []string{"body.html"},
		OnChange: func() { changes <- struct{}{} },
		Logger:   quietLogger,
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(sub, "content.json"), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
	select {
	case <-changes:
		t.Error("burst should collapse into one change")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherIgnores(t *testing.T) {
	w := &Watcher{ignore: []string{"body.html"}}
	for path, want := range map[string]bool{
		"/a/community/body.html":   true,
		"/a/.pages.yml":            true,
		"/a/content.json~":         true,
		"/a/.content.json.swp":     true,
		"/a/#content.json#":        true,
		"/a/community/style.css":   false,
		"/a/templates/base.html":   false,
		"/a/community/content.swp": true,
	} {
		if got := w.shouldIgnore(path); got != want {
			t.Errorf("shouldIgnore(%q) = %v, want %v", path, got, want)
		}
	}
}
