/*
Package message contains the conversation store and the seen-state logic.

A message belongs to exactly one sender/receiver pair, is immutable once
persisted except for its seen flag, and is ordered solely by its
server-assigned creation time.
*/
package message

import (
	"context"
	"time"
)

// Message is one persisted direct message. Text and Image are nullable at the
// schema level; a stored message carries exactly one of them.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Text       *string   `json:"text"`
	Image      *string   `json:"image"`
	Seen       bool      `json:"seen"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Store is the durable conversation storage surface.
type Store interface {
	// Insert persists a new message with seen=false and fills the generated
	// id and server-assigned timestamps.
	Insert(ctx context.Context, msg *Message) error

	// ListConversation returns every message between the two users, in both
	// directions, ordered ascending by creation time.
	ListConversation(ctx context.Context, selfID, peerID string) ([]Message, error)

	// MarkConversationSeen flips every unseen message from senderID to
	// receiverID to seen and reports how many rows changed.
	MarkConversationSeen(ctx context.Context, senderID, receiverID string) (int64, error)

	// MarkSeen flips one message to seen by id. An unknown id is not an
	// error; it returns (nil, nil).
	MarkSeen(ctx context.Context, messageID string) (*Message, error)

	// CountUnseen returns, per sender, the number of unseen messages
	// addressed to receiverID. Senders with no unseen messages are absent.
	CountUnseen(ctx context.Context, receiverID string) (map[string]int64, error)
}
