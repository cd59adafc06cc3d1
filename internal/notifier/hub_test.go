package notifier

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestHub(t *testing.T, hub *Hub, userID uint) (client *websocket.Conn, server *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.Register(userID, conn)
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case server = <-serverConns:
	case <-time.After(2 * time.Second):
		t.Fatal("server connection was not registered")
	}

	return client, server
}

func TestHubNotifyDeliversEvent(t *testing.T) {
	hub := NewHub()

	client, _ := dialTestHub(t, hub, 7)
	require.Equal(t, 1, hub.Sessions(7))

	hub.Notify(7, Event{
		Type:      EventInvitationAccepted,
		ProfileID: 42,
		Status:    "accepted",
		Message:   "Ethan accepted the invitation to Acme Inc",
	})

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))

	var got Event
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, EventInvitationAccepted, got.Type)
	assert.EqualValues(t, 42, got.ProfileID)
}

func TestHubNotifyWithoutSessions(t *testing.T) {
	hub := NewHub()

	// No sessions registered: must be a silent no-op.
	hub.Notify(99, Event{Type: EventInvitationDeclined, Message: "nobody listening"})
	assert.Equal(t, 0, hub.Sessions(99))
}

func TestHubNotifyDropsDeadConnection(t *testing.T) {
	hub := NewHub()

	_, server := dialTestHub(t, hub, 7)
	require.Equal(t, 1, hub.Sessions(7))

	// Kill the registered connection out from under the hub; the failed
	// write must evict it without surfacing an error.
	require.NoError(t, server.Close())
	hub.Notify(7, Event{Type: EventInvitationAccepted, Message: "into the void"})

	assert.Equal(t, 0, hub.Sessions(7))
}

func TestHubUnregisterLastSession(t *testing.T) {
	hub := NewHub()

	_, server := dialTestHub(t, hub, 3)
	hub.Unregister(3, server)

	assert.Equal(t, 0, hub.Sessions(3))
}
