package signaling

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. SDP offers fit well within this.
	maxMessageSize = 64 * 1024

	sendBufferSize = 256
)

// Client wraps one websocket connection. All reads happen on ReadPump's
// goroutine and all writes on WritePump's, so the connection is never
// touched concurrently.
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
}

func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// enqueue offers a frame to the write pump without blocking. A client that
// cannot drain its buffer loses the frame; signaling is resynchronization
// friendly, so the next online-users broadcast heals a missed snapshot.
func (c *Client) enqueue(message []byte, log *zap.Logger) {
	defer func() {
		// The send channel is closed by Hub.Remove; a concurrent enqueue
		// racing that close is treated like any other missed best-effort send.
		if recover() != nil {
			log.Debug("emit to closing connection", zap.String("connID", c.ID))
		}
	}()

	select {
	case c.send <- message:
	default:
		log.Warn("send buffer full, dropping frame", zap.String("connID", c.ID))
	}
}

// ReadPump reads envelopes off the socket and hands them to dispatch until
// the connection dies. It returns once the socket is unreadable; the caller
// runs the disconnect sequence.
func (c *Client) ReadPump(log *zap.Logger, dispatch func(connID string, env Envelope)) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("read error", zap.String("connID", c.ID), zap.Error(err))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			log.Warn("dropping malformed frame", zap.String("connID", c.ID), zap.Error(err))
			continue
		}
		dispatch(c.ID, env)
	}
}

// WritePump drains the send channel onto the socket and keeps the
// connection alive with pings. It exits when the send channel is closed or
// a write fails.
func (c *Client) WritePump(log *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn("write error", zap.String("connID", c.ID), zap.Error(err))
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
