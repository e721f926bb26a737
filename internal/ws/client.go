package ws

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/hellocms/blackforest/internal/auth"
	"github.com/hellocms/blackforest/internal/enum"
	"github.com/hellocms/blackforest/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must stay below pongWait
	maxMessageSize = 512
)

// Origins are not checked; the token query parameter is.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Client is one branch screen listening for cart and order events.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	branchID string
	send     chan []byte
	log      *logger.Logger
}

// ReadPump discards inbound frames and unregisters the client once the
// connection drops or stops answering pings.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	extend := func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
	extend("")
	c.conn.SetPongHandler(extend)

	for {
		_, _, err := c.conn.ReadMessage()
		if err == nil {
			continue
		}
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
			c.log.Warnw("websocket read failed", "branch_id", c.branchID, "error", err)
		}
		return
	}
}

// WritePump delivers every event as its own text frame so each frame is one
// JSON document, and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, event); err != nil {
				c.log.Debugw("websocket write failed", "branch_id", c.branchID, "error", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWS handles WebSocket requests from clients
// Endpoint: WS /ws/branches/{bid}/carts?token=JWT
func ServeWS(hub *Hub, jwtSecret string, w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context()).WithComponent("ws")

	branchID, status, reason := authorize(jwtSecret, r)
	if status != http.StatusOK {
		http.Error(w, reason, status)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnw("websocket upgrade failed", "branch_id", branchID, "error", err)
		return
	}

	client := &Client{
		hub:      hub,
		conn:     conn,
		branchID: branchID,
		send:     make(chan []byte, 256),
		log:      log,
	}
	hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}

// authorize checks the token query parameter (browsers cannot set headers
// on an upgrade) against the {bid} path segment.
func authorize(jwtSecret string, r *http.Request) (branchID string, status int, reason string) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		return "", http.StatusUnauthorized, "missing token"
	}
	claims, err := auth.ValidateToken(jwtSecret, tokenStr)
	if err != nil {
		return "", http.StatusUnauthorized, "invalid token"
	}
	if claims.Role != enum.RoleBranch {
		return "", http.StatusForbidden, "insufficient permissions"
	}

	branchID = chi.URLParam(r, "bid")
	switch {
	case branchID == "":
		return "", http.StatusBadRequest, "missing branch id"
	case !claims.CanAccessBranch(branchID):
		return "", http.StatusForbidden, "branch access denied"
	}
	return branchID, http.StatusOK, ""
}
