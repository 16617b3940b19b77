/*
Package chat contains the realtime core for the QuickChat server.

This file defines the Client struct, one active WebSocket connection. It runs
the read/write pumps, keeps the connection alive with ping/pong heartbeats,
and implements the Session surface the Hub and Dispatcher push through.
*/
package chat

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"quickchat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	// Messages travel over the HTTP API, so inbound frames stay tiny.
	maxMessageSize = 1024

	// capacity of the outbound event queue per connection.
	sendQueueSize = 256

	// WsCloseCodeSessionReplaced is a custom WebSocket Close Code
	// (4000-4999 range) signaling that a newer connection took over.
	WsCloseCodeSessionReplaced = 4001
)

// Client represents one active WebSocket connection.
type Client struct {
	hub *Hub

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// userID is the identity from the connection handshake; empty when the
	// client connected without one, in which case it is never registered.
	userID string

	// send queues encoded events waiting to go out on the connection.
	// It is never closed; done signals the write pump to exit.
	send chan []byte

	done      chan struct{}
	closeOnce sync.Once

	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	clientLogger := logx.Logger().With().
		Str("component", "Client").
		Str("user_id", userID).
		Logger()

	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
		logger: clientLogger,
	}
}

// UserID returns the identity bound to the connection.
func (c *Client) UserID() string {
	return c.userID
}

// Deliver queues an event for the connection without blocking.
// A gone connection or a full queue reports false; the caller treats the
// recipient as offline.
func (c *Client) Deliver(event Event) bool {
	payload, err := event.Encode()
	if err != nil {
		c.logger.Error().Err(err).Str("event", event.Name).Msg("Failed to encode event")
		return false
	}

	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- payload:
		return true
	default:
		c.logger.Warn().
			Str("event", event.Name).
			Int("queue_len", len(c.send)).
			Msg("Client send queue full, dropping event")
		return false
	}
}

// Kick closes the connection with a session-replaced close frame.
func (c *Client) Kick(reason string) {
	c.logger.Warn().
		Int("close_code", WsCloseCodeSessionReplaced).
		Str("reason", reason).
		Msg("Kicking connection.")

	closeMessage := websocket.FormatCloseMessage(WsCloseCodeSessionReplaced, reason)

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.CloseMessage, closeMessage); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to send close frame on kick.")
	}

	c.close()
}

// close tears the connection down exactly once.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Connection close error")
		}
	})
}

// ReadPump drains the WebSocket connection until it closes.
// Clients send their messages through the HTTP API, so inbound frames carry
// no payload the server acts on; the pump exists for heartbeats and to detect
// the transport-level closure that unregisters the user.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Connection closed unexpectedly")
			}
			break
		}
	}
}

// WritePump writes queued events to the connection and keeps the heartbeat going.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Info().Err(err).Msg("Error writing message")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Info().Err(err).Msg("Error writing ping")
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
				c.logger.Debug().Err(err).Msg("Error writing close message")
			}
			return
		}
	}
}
