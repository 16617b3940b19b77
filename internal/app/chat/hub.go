/*
Package chat contains the realtime core for the QuickChat server.

This file defines the Hub, the in-memory presence registry. It owns the map
from user id to live connection and is the single writer to it: connect and
disconnect events are funneled through its run loop, so registry mutations
never race. Every mutation is followed by a presence broadcast to all
connected clients.
*/
package chat

import (
	"sync"

	"github.com/rs/zerolog"

	"quickchat/internal/pkg/logx"
)

// Session is the hub-facing surface of one live connection.
type Session interface {
	// UserID returns the identity bound to the connection, empty when the
	// connection never identified itself.
	UserID() string

	// Deliver queues an event for the connection without blocking.
	// It reports false when the connection is gone or its queue is full.
	Deliver(event Event) bool

	// Kick closes the connection because it was replaced by a newer one.
	Kick(reason string)
}

// Hub is the presence registry: user id → live connection, one entry per user.
type Hub struct {
	// clients holds the currently registered sessions, keyed by user id.
	// The key set is exactly the set of online users.
	clients map[string]Session

	// mu protects clients. Writes happen only in the run loop.
	mu sync.RWMutex

	register   chan Session
	unregister chan Session

	// stop terminates the run loop.
	stop chan struct{}

	// wg waits for the run loop during shutdown.
	wg sync.WaitGroup

	logger zerolog.Logger
}

// NewHub constructs a Hub and starts its run loop.
func NewHub() *Hub {
	hubLogger := logx.Logger().With().Str("component", "Hub").Logger()

	h := &Hub{
		clients:    make(map[string]Session),
		register:   make(chan Session),
		unregister: make(chan Session),
		stop:       make(chan struct{}),
		logger:     hubLogger,
	}

	h.wg.Add(1)
	go h.run()

	return h
}

// Register binds the session's user id to the session. A previous session for
// the same user is kicked and replaced. Sessions without a user id are ignored.
func (h *Hub) Register(s Session) {
	select {
	case h.register <- s:
	case <-h.stop:
	}
}

// Unregister removes the session from the registry if it is still the current
// one for its user id. Stale sessions (already replaced) are ignored.
func (h *Hub) Unregister(s Session) {
	select {
	case h.unregister <- s:
	case <-h.stop:
	}
}

// Lookup returns the live session for the given user id.
func (h *Hub) Lookup(userID string) (Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, ok := h.clients[userID]
	return s, ok
}

// OnlineIDs returns the ids of all currently registered users.
func (h *Hub) OnlineIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

// Shutdown stops the run loop and kicks every remaining session.
func (h *Hub) Shutdown() {
	h.logger.Info().Msg("Shutting down Hub...")

	close(h.stop)
	h.wg.Wait()

	h.mu.Lock()
	for _, s := range h.clients {
		s.Kick("Server is shutting down.")
	}
	h.clients = make(map[string]Session)
	h.mu.Unlock()

	h.logger.Info().Msg("Hub shutdown complete.")
}

// run is the single writer of the registry. Lifecycle events for one
// connection arrive strictly in order, so no further locking discipline
// is needed beyond the map mutex shared with readers.
func (h *Hub) run() {
	defer h.wg.Done()

	h.logger.Info().Msg("Hub run loop started.")

	for {
		select {
		case s := <-h.register:
			userID := s.UserID()
			if userID == "" {
				h.logger.Warn().Msg("Ignoring registration for unidentified connection.")
				continue
			}

			h.mu.Lock()
			if existing, ok := h.clients[userID]; ok && existing != s {
				h.logger.Warn().
					Str("user_id", userID).
					Msg("User already connected. Replacing old connection.")

				existing.Kick("Session replaced by new connection. Check other tabs.")
			}
			h.clients[userID] = s
			total := len(h.clients)
			h.mu.Unlock()

			h.logger.Info().
				Str("user_id", userID).
				Int("online", total).
				Msg("User connected.")

			h.broadcastPresence()

		case s := <-h.unregister:
			userID := s.UserID()

			h.mu.Lock()
			current, ok := h.clients[userID]
			removed := ok && current == s
			if removed {
				delete(h.clients, userID)
			}
			total := len(h.clients)
			h.mu.Unlock()

			if !removed {
				h.logger.Info().
					Str("user_id", userID).
					Msg("Ignoring unregister for stale connection.")
				continue
			}

			h.logger.Info().
				Str("user_id", userID).
				Int("online", total).
				Msg("User disconnected.")

			h.broadcastPresence()

		case <-h.stop:
			h.logger.Info().Msg("Hub run loop stopped.")
			return
		}
	}
}

// broadcastPresence pushes the current online id set to every registered
// session. Delivery is best effort; a session that cannot accept the event
// will drop off through its own read pump shortly.
func (h *Hub) broadcastPresence() {
	h.mu.RLock()
	ids := make([]string, 0, len(h.clients))
	sessions := make([]Session, 0, len(h.clients))
	for id, s := range h.clients {
		ids = append(ids, id)
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	event := Event{Name: EventOnlineUsers, Data: ids}

	for _, s := range sessions {
		if !s.Deliver(event) {
			h.logger.Warn().
				Str("user_id", s.UserID()).
				Msg("Presence broadcast not delivered.")
		}
	}
}
