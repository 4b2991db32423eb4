package ws

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"focusflow/internal/app"
	"focusflow/internal/domain"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, _ := strconv.ParseInt(r.URL.Query().Get("uid"), 10, 64)
		hub.ServeWS(w, r, uid)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, uid int64) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?uid=" + strconv.FormatInt(uid, 10)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_PublishReachesOnlyOwner(t *testing.T) {
	hub := NewHub(log.New(io.Discard))
	srv := newTestServer(t, hub)

	owner := dial(t, srv, 1)
	other := dial(t, srv, 2)
	waitFor(t, func() bool { return hub.Count(1) == 1 && hub.Count(2) == 1 })

	hub.Publish(1, app.SessionEvent{
		Event:   app.EventSessionCreated,
		Session: &domain.Session{ID: 9, UserID: 1, Type: domain.SessionWork},
	})

	_ = owner.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got app.SessionEvent
	if err := owner.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Event != app.EventSessionCreated || got.Session == nil || got.Session.ID != 9 {
		t.Errorf("unexpected event: %+v", got)
	}

	_ = other.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Error("other user received an event")
	}
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub := NewHub(log.New(io.Discard))
	srv := newTestServer(t, hub)

	conn := dial(t, srv, 3)
	waitFor(t, func() bool { return hub.Count(3) == 1 })

	_ = conn.Close()
	waitFor(t, func() bool { return hub.Count(3) == 0 })

	// Publishing to a user without clients is a no-op.
	hub.Publish(3, app.SessionEvent{Event: app.EventSessionAborted})
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(log.New(io.Discard))
	srv := newTestServer(t, hub)

	conn := dial(t, srv, 4)
	waitFor(t, func() bool { return hub.Count(4) == 1 })

	hub.Close()
	if hub.Count(4) != 0 {
		t.Errorf("expected no clients after Close, got %d", hub.Count(4))
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the connection to be closed")
	}
}
