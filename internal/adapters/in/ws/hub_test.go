package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/bus"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func allowAll(context.Context, kernel.UUID, kernel.UUID) error { return nil }

func actorProvider(actorID kernel.UUID) func(echo.Context) (kernel.UUID, bool) {
	return func(echo.Context) (kernel.UUID, bool) { return actorID, true }
}

func startHubServer(t *testing.T, hub *Hub, authorize Authorizer, actorID kernel.UUID) *httptest.Server {
	t.Helper()

	e := echo.New()
	e.GET("/deals/:dealId/track", hub.EchoHandler(authorize, actorProvider(actorID)))

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)
	return server
}

func dialDeal(t *testing.T, server *httptest.Server, dealID kernel.UUID) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/deals/" + dealID.String() + "/track"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForWatchers(t *testing.T, hub *Hub, dealID kernel.UUID, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.WatcherCount(dealID) == want
	}, time.Second, 10*time.Millisecond)
}

func TestHandleEvent_FansOutLocationToDealWatchers(t *testing.T) {
	hub := NewHub(testLogger())
	b := bus.New()
	hub.Attach(b)

	dealID := kernel.NewUUID()
	server := startHubServer(t, hub, allowAll, kernel.NewUUID())
	conn := dialDeal(t, server, dealID)
	waitForWatchers(t, hub, dealID, 1)

	b.Publish(context.Background(), events.LocationUpdated{
		DealID:     dealID,
		Latitude:   26.9124,
		Longitude:  75.7873,
		OccurredAt: time.Now(),
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame Frame
	require.NoError(t, json.Unmarshal(payload, &frame))
	assert.Equal(t, events.NameLocationUpdated, frame.Type)
	assert.Equal(t, dealID.String(), frame.DealID)
	require.NotNil(t, frame.Latitude)
	assert.InDelta(t, 26.9124, *frame.Latitude, 0.0001)
}

func TestHandleEvent_OtherDealsUnaffected(t *testing.T) {
	hub := NewHub(testLogger())

	watchedDeal := kernel.NewUUID()
	server := startHubServer(t, hub, allowAll, kernel.NewUUID())
	conn := dialDeal(t, server, watchedDeal)
	waitForWatchers(t, hub, watchedDeal, 1)

	hub.HandleEvent(context.Background(), events.StatusChanged{
		DealID:     kernel.NewUUID(),
		From:       "TRANSPORTER_ASSIGNED",
		To:         "PICKED_UP",
		OccurredAt: time.Now(),
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "no frame should arrive for a different deal")
}

func TestHandleEvent_StatusChange(t *testing.T) {
	hub := NewHub(testLogger())

	dealID := kernel.NewUUID()
	server := startHubServer(t, hub, allowAll, kernel.NewUUID())
	conn := dialDeal(t, server, dealID)
	waitForWatchers(t, hub, dealID, 1)

	hub.HandleEvent(context.Background(), events.StatusChanged{
		DealID:     dealID,
		From:       "PICKED_UP",
		To:         "DELIVERED",
		OccurredAt: time.Now(),
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame Frame
	require.NoError(t, json.Unmarshal(payload, &frame))
	assert.Equal(t, events.NameStatusChanged, frame.Type)
	assert.Equal(t, "PICKED_UP", frame.From)
	assert.Equal(t, "DELIVERED", frame.To)
}

func TestEchoHandler_AuthorizerRejects(t *testing.T) {
	hub := NewHub(testLogger())

	deny := func(context.Context, kernel.UUID, kernel.UUID) error {
		return errors.New("not a party to this deal")
	}
	server := startHubServer(t, hub, deny, kernel.NewUUID())

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/deals/" + kernel.NewUUID().String() + "/track"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)

	require.Error(t, err)
	if conn != nil {
		_ = conn.Close()
	}
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestBroadcast_SlowWatcherDropsFramesWithoutBlocking(t *testing.T) {
	hub := NewHub(testLogger())

	dealID := kernel.NewUUID()
	slow := &watcher{send: make(chan []byte, 1)}
	hub.register(dealID.String(), slow)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			hub.broadcast(Frame{Type: events.NameLocationUpdated, DealID: dealID.String()})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow watcher")
	}

	assert.Len(t, slow.send, 1, "overflow frames are dropped, not queued")
}

func TestUnregister_LastWatcherRemovesRoom(t *testing.T) {
	hub := NewHub(testLogger())

	dealID := kernel.NewUUID()
	w := &watcher{send: make(chan []byte, 1)}
	hub.register(dealID.String(), w)
	require.Equal(t, 1, hub.WatcherCount(dealID))

	hub.unregister(dealID.String(), w)

	assert.Equal(t, 0, hub.WatcherCount(dealID))
	_, open := <-w.send
	assert.False(t, open, "send channel closes on unregister")
}
