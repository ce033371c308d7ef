package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/paatrickbarbosa/RoomS/internal/events"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	c1 := dial(t, srv)
	defer c1.Close()
	c2 := dial(t, srv)
	defer c2.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 },
		time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Broadcast(context.Background(), events.BookingDeleted(7)))

	for _, conn := range []*websocket.Conn{c1, c2} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var ev struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(data, &ev))
		assert.Equal(t, "booking_deleted", ev.Type)
		assert.JSONEq(t, `{"id":7}`, string(ev.Data))
	}
}

func TestHubDropsDisconnectedClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	defer hub.Close()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		time.Second, 10*time.Millisecond)

	// Broadcasting into an empty hub is a no-op, not an error.
	assert.NoError(t, hub.Broadcast(context.Background(), events.RoomDeleted(1)))
}

func TestHubCloseRejectsNewClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.ClientCount())

	late := dial(t, srv)
	defer late.Close()
	require.NoError(t, late.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := late.ReadMessage()
	assert.Error(t, err) // closed immediately after upgrade
	assert.Equal(t, 0, hub.ClientCount())
}

type stubBroadcaster struct {
	events []events.Event
	err    error
}

func (s *stubBroadcaster) Broadcast(_ context.Context, ev events.Event) error {
	s.events = append(s.events, ev)
	return s.err
}

func TestMultiAttemptsEveryBroadcaster(t *testing.T) {
	failing := &stubBroadcaster{err: errors.New("amqp down")}
	healthy := &stubBroadcaster{}
	m := Multi{failing, healthy}

	err := m.Broadcast(context.Background(), events.BookingDeleted(1))
	assert.Error(t, err)
	assert.Len(t, failing.events, 1)
	assert.Len(t, healthy.events, 1)

	require.NoError(t, Multi{healthy}.Broadcast(context.Background(), events.RoomDeleted(2)))
	assert.Len(t, healthy.events, 2)
}
