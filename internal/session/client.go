package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/coder/websocket"

	"github.com/roughboard/roughboard/internal/engine"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
)

// Client is one websocket connection attached to a session.
type Client struct {
	session  *Session
	conn     *websocket.Conn
	send     chan []byte
	ClientID string
}

func NewClient(s *Session, conn *websocket.Conn, clientID string) *Client {
	return &Client{
		session:  s,
		conn:     conn,
		send:     make(chan []byte, 256),
		ClientID: clientID,
	}
}

// ReadPump decodes events from the connection and applies them to the
// session until the connection or context closes.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.session.detach(context.Background(), c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "client", c.ClientID)
			return
		}

		var ev engine.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			slog.Warn("invalid message", "error", err, "client", c.ClientID)
			c.sendError("invalid message")
			continue
		}

		if _, err := c.session.Apply(ctx, ev); err != nil {
			if errors.Is(err, ErrClosed) {
				return
			}
			c.sendError(err.Error())
		}
	}
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "client", c.ClientID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Send queues msg for delivery. Only the session goroutine calls Send, so
// the channel is never written after detach closes it.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		slog.Warn("client send buffer full, dropping message", "client", c.ClientID)
	}
}

func (c *Client) sendError(text string) {
	payload, _ := json.Marshal(ErrorPayload{Message: text})
	msg := &Message{Type: TypeError, SessionID: c.session.ID, ClientID: c.ClientID, Payload: payload}
	// Errors go to the sender only; route through the session goroutine.
	err := c.session.do(context.Background(), func() {
		if _, ok := c.session.clients[c.ClientID]; ok {
			c.Send(msg)
		}
	})
	if err != nil {
		slog.Debug("send error message", "error", err, "client", c.ClientID)
	}
}
