package realtime

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// dialHub spins up a websocket endpoint that registers every incoming
// connection with the hub under the given user id, and returns a connected
// client.
func dialHub(t *testing.T, hub *Hub, userID string) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	registered := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.Register(userID, conn)
		close(registered)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("connection was not registered in time")
	}
	return client
}

func TestHubPushDeliversPayload(t *testing.T) {
	hub := NewHub(newTestLogger())
	client := dialHub(t, hub, "user-1")

	if got := hub.ConnectionCount("user-1"); got != 1 {
		t.Fatalf("connection count = %d, want 1", got)
	}

	hub.Push("user-1", map[string]string{"status": "updated"})

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got map[string]string
	if err := client.ReadJSON(&got); err != nil {
		t.Fatalf("client read failed: %v", err)
	}
	if got["status"] != "updated" {
		t.Errorf("payload = %v, want status=updated", got)
	}
}

func TestHubPushUnknownUserIsNoop(t *testing.T) {
	hub := NewHub(newTestLogger())
	// Must return promptly and not panic with no registered connections.
	hub.Push("nobody", map[string]string{"status": "updated"})
	if got := hub.ConnectionCount("nobody"); got != 0 {
		t.Errorf("connection count = %d, want 0", got)
	}
}

func TestHubUnregisterRemovesConnection(t *testing.T) {
	hub := NewHub(newTestLogger())
	dialHub(t, hub, "user-2")

	hub.mu.Lock()
	conn := hub.conns["user-2"][0]
	hub.mu.Unlock()

	hub.Unregister("user-2", conn)

	if got := hub.ConnectionCount("user-2"); got != 0 {
		t.Errorf("connection count = %d, want 0 after unregister", got)
	}
}
