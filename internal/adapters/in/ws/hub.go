// Package ws fans live tracking events out to websocket watchers. Each
// connection watches exactly one deal; the hub subscribes to the in-process
// event bus and pushes frames to every watcher of the affected deal. Slow
// watchers lose frames rather than stalling the publisher, the persisted
// last-known position stays authoritative.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"dispatch/internal/core/domain/events"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/bus"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// Frame is the wire shape pushed to watchers.
type Frame struct {
	Type       string    `json:"type"`
	DealID     string    `json:"dealId"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
	Enabled    *bool     `json:"enabled,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Authorizer reports whether the actor may watch the deal. The hub runs it
// before upgrading the connection.
type Authorizer func(ctx context.Context, dealID, actorID kernel.UUID) error

// Hub tracks per-deal watcher sets.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	rooms map[string]map[*watcher]struct{}
}

type watcher struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger.With("component", "tracking_hub"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		rooms: make(map[string]map[*watcher]struct{}),
	}
}

// Attach subscribes the hub to every tracking-relevant event on the bus.
func (h *Hub) Attach(b *bus.Bus) {
	for _, name := range []string{
		events.NameLocationUpdated,
		events.NameStatusChanged,
		events.NameOtpVerified,
		events.NameLocationSharingSet,
		events.NameDeliveryCompleted,
	} {
		b.Subscribe(name, h.HandleEvent)
	}
}

// HandleEvent translates a domain event into a frame and pushes it to the
// deal's watchers.
func (h *Hub) HandleEvent(_ context.Context, event bus.Event) {
	var frame Frame

	switch e := event.(type) {
	case events.LocationUpdated:
		lat, lng := e.Latitude, e.Longitude
		frame = Frame{
			Type:       e.EventName(),
			DealID:     e.DealID.String(),
			Latitude:   &lat,
			Longitude:  &lng,
			OccurredAt: e.OccurredAt,
		}
	case events.StatusChanged:
		frame = Frame{
			Type:       e.EventName(),
			DealID:     e.DealID.String(),
			From:       e.From,
			To:         e.To,
			OccurredAt: e.OccurredAt,
		}
	case events.OtpVerified:
		frame = Frame{
			Type:       e.EventName(),
			DealID:     e.DealID.String(),
			To:         e.NewStatus,
			OccurredAt: e.OccurredAt,
		}
	case events.LocationSharingSet:
		enabled := e.Enabled
		frame = Frame{
			Type:       e.EventName(),
			DealID:     e.DealID.String(),
			Enabled:    &enabled,
			OccurredAt: e.OccurredAt,
		}
	case events.DeliveryCompleted:
		frame = Frame{
			Type:       e.EventName(),
			DealID:     e.DealID.String(),
			OccurredAt: e.OccurredAt,
		}
	default:
		return
	}

	h.broadcast(frame)
}

func (h *Hub) broadcast(frame Frame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("marshal frame", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for w := range h.rooms[frame.DealID] {
		select {
		case w.send <- payload:
		default:
			// Watcher can't keep up; drop the frame.
		}
	}
}

// WatcherCount returns how many connections watch the deal.
func (h *Hub) WatcherCount(dealID kernel.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[dealID.String()])
}

// EchoHandler upgrades GET /deals/:dealId/track requests into tracking
// subscriptions. The actor must already be authenticated; authorize decides
// whether they may watch this deal.
func (h *Hub) EchoHandler(authorize Authorizer, actorFromContext func(echo.Context) (kernel.UUID, bool)) echo.HandlerFunc {
	return func(c echo.Context) error {
		actorID, ok := actorFromContext(c)
		if !ok {
			return c.NoContent(http.StatusUnauthorized)
		}

		dealID, err := kernel.UUIDFromString(c.Param("dealId"))
		if err != nil {
			return c.NoContent(http.StatusBadRequest)
		}

		if err := authorize(c.Request().Context(), dealID, actorID); err != nil {
			return c.NoContent(http.StatusForbidden)
		}

		conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return nil // Upgrade already wrote the error response.
		}

		w := &watcher{conn: conn, send: make(chan []byte, sendBufferSize)}
		h.register(dealID.String(), w)

		go h.writePump(dealID.String(), w)
		go h.readPump(dealID.String(), w)
		return nil
	}
}

func (h *Hub) register(room string, w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*watcher]struct{})
	}
	h.rooms[room][w] = struct{}{}
}

func (h *Hub) unregister(room string, w *watcher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if watchers, ok := h.rooms[room]; ok {
		if _, ok := watchers[w]; ok {
			delete(watchers, w)
			close(w.send)
			if len(watchers) == 0 {
				delete(h.rooms, room)
			}
		}
	}
}

// readPump discards inbound messages; the tracking channel is one-way. It
// exists to process control frames and to notice the peer going away.
func (h *Hub) readPump(room string, w *watcher) {
	defer func() {
		h.unregister(room, w)
		_ = w.conn.Close()
	}()

	w.conn.SetReadLimit(512)
	_ = w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(room string, w *watcher) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = w.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-w.send:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = w.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := w.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
