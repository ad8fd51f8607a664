package gateway

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/eleven-am/insight-backend/internal/landmark"
	"github.com/eleven-am/insight-backend/internal/session"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var nullPayload = []byte("null")

type Handler struct {
	manager *session.Manager
	hub     *Hub
	logger  *slog.Logger
}

func NewHandler(manager *session.Manager, hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{
		manager: manager,
		hub:     hub,
		logger:  logger.With("component", "gateway"),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/:id/stream", h.HandleStream)
}

// HandleStream upgrades to a websocket shared by the capture client and the
// dashboard: snapshot frames flow in, live session events flow out.
func (h *Handler) HandleStream(c echo.Context) error {
	sessionID := c.Param("id")
	sess, ok := h.manager.Get(sessionID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return err
	}

	conn := newStreamConn(ws, sessionID, h.logger)
	h.hub.register(sessionID, conn)
	h.logger.Info("stream connected", "session_id", sessionID, "conn_id", conn.id)

	go conn.writePump()
	conn.readPump(sess)

	h.hub.unregister(sessionID, conn)
	h.logger.Info("stream disconnected", "session_id", sessionID, "conn_id", conn.id)
	return nil
}

type streamConn struct {
	ws        *websocket.Conn
	id        string
	sessionID string
	logger    *slog.Logger
	send      chan ServerEvent
	mu        sync.Mutex
	closed    bool
	done      chan struct{}
}

func newStreamConn(ws *websocket.Conn, sessionID string, logger *slog.Logger) *streamConn {
	id := uuid.New().String()
	return &streamConn{
		ws:        ws,
		id:        id,
		sessionID: sessionID,
		logger:    logger.With("conn_id", id),
		send:      make(chan ServerEvent, 256),
		done:      make(chan struct{}),
	}
}

func (c *streamConn) Send(evt ServerEvent) {
	select {
	case <-c.done:
	case c.send <- evt:
	default:
		c.logger.Warn("send buffer full, dropping event", "type", evt.Type)
	}
}

func (c *streamConn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	c.mu.Unlock()

	return c.ws.Close()
}

func (c *streamConn) readPump(sess *session.Session) {
	defer c.Close()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("read error", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.logger.Error("unmarshal error", "error", err)
			continue
		}

		if msg.Type != MessageTypeSnapshot {
			c.logger.Debug("ignoring message", "type", msg.Type)
			continue
		}

		if len(msg.Payload) == 0 || bytes.Equal(msg.Payload, nullPayload) {
			// no face this tick; extractors hold their last values
			sess.Observe(nil)
			continue
		}

		var snap landmark.Snapshot
		if err := json.Unmarshal(msg.Payload, &snap); err != nil {
			c.logger.Error("invalid snapshot payload", "error", err)
			continue
		}
		if snap.CapturedAtMs == 0 {
			snap.CapturedAtMs = time.Now().UnixMilli()
		}
		sess.Observe(&snap)
	}
}

func (c *streamConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case evt := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))

			data, err := json.Marshal(evt)
			if err != nil {
				c.logger.Error("marshal error", "error", err)
				continue
			}

			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Error("write error", "error", err)
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
