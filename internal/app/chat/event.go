/*
Package chat contains the realtime core: the presence hub tracking which users
are online, the per-connection client pumps, and the dispatcher that persists
and pushes direct messages.

This file defines the event envelope pushed over live connections. Event names
and payload shapes are part of the client protocol and must not change.
*/
package chat

import "encoding/json"

const (
	// EventOnlineUsers carries the full set of online user ids. It is sent
	// to every connected client on each connect and disconnect.
	EventOnlineUsers = "getOnlineUsers"

	// EventNewMessage carries one full persisted message record, pushed to
	// the recipient's connection at send time.
	EventNewMessage = "newMessage"
)

// Event is the wire envelope for server→client pushes.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// Encode marshals the event for the wire.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}
