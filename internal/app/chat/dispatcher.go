/*
Package chat contains the realtime core for the QuickChat server.

This file defines the Dispatcher, which turns a send request into a persisted
message and at most one live push to the recipient's connection.
*/
package chat

import (
	"context"

	"github.com/rs/zerolog"

	"quickchat/internal/app/message"
	"quickchat/internal/pkg/errs"
	"quickchat/internal/pkg/logx"
)

// MaxTextBytes is the maximum allowed size of a text message body.
const MaxTextBytes = 5000

// ContentKind discriminates the message content variant.
type ContentKind int

const (
	// ContentEmpty is a message with neither text nor image. It is rejected.
	ContentEmpty ContentKind = iota

	// ContentText is a plain text message.
	ContentText

	// ContentImage is an image message; the bytes go to the image host and
	// the durable URL is what gets persisted.
	ContentImage
)

// Content is the body of an outgoing message. Exactly one kind is set.
type Content struct {
	kind      ContentKind
	text      string
	imageData []byte
	imageMime string
}

// TextContent builds a text message body.
func TextContent(text string) Content {
	return Content{kind: ContentText, text: text}
}

// ImageContent builds an image message body from raw bytes and a MIME type.
func ImageContent(data []byte, mimeType string) Content {
	return Content{kind: ContentImage, imageData: data, imageMime: mimeType}
}

// Kind returns the content variant.
func (c Content) Kind() ContentKind {
	return c.kind
}

// MessageCreator persists new messages; implemented by the conversation store.
type MessageCreator interface {
	Insert(ctx context.Context, msg *message.Message) error
}

// ImageHost stores image bytes and returns a durable URL.
type ImageHost interface {
	UploadImage(ctx context.Context, data []byte, contentType string) (string, error)
}

// PresenceIndex looks up the live connection for a user; implemented by the Hub.
type PresenceIndex interface {
	Lookup(userID string) (Session, bool)
}

// Dispatcher persists outgoing messages and pushes them to online recipients.
type Dispatcher struct {
	messages MessageCreator
	images   ImageHost
	presence PresenceIndex

	logger zerolog.Logger
}

// NewDispatcher constructs a Dispatcher over the given collaborators.
func NewDispatcher(messages MessageCreator, images ImageHost, presence PresenceIndex) *Dispatcher {
	dispatcherLogger := logx.Logger().With().Str("component", "Dispatcher").Logger()

	return &Dispatcher{
		messages: messages,
		images:   images,
		presence: presence,
		logger:   dispatcherLogger,
	}
}

// Send persists a new message from senderID to receiverID and, if the
// recipient is online at that moment, pushes it over their connection.
//
// An image is uploaded to the image host first; an upload failure aborts the
// whole operation with nothing persisted. Persistence failure aborts and is
// reported to the sender. A push that cannot be delivered is not an error:
// the recipient is treated as offline and recovers the message from history.
// Self-messages are permitted.
func (d *Dispatcher) Send(ctx context.Context, senderID, receiverID string, content Content) (*message.Message, *errs.CustomError) {
	msg := &message.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
	}

	switch content.kind {
	case ContentText:
		if len(content.text) > MaxTextBytes {
			return nil, errs.NewError(errs.ErrMessageContentTooLong)
		}
		text := content.text
		msg.Text = &text

	case ContentImage:
		url, err := d.images.UploadImage(ctx, content.imageData, content.imageMime)
		if err != nil {
			d.logger.Error().Err(err).
				Str("sender_id", senderID).
				Msg("Image upload failed, aborting send.")
			return nil, errs.NewError(errs.ErrImageUploadFailed)
		}
		msg.Image = &url

	default:
		return nil, errs.NewError(errs.ErrEmptyMessage)
	}

	if err := d.messages.Insert(ctx, msg); err != nil {
		d.logger.Error().Err(err).
			Str("sender_id", senderID).
			Str("receiver_id", receiverID).
			Msg("Failed to persist message.")
		return nil, errs.NewError(errs.ErrStorageFailed)
	}

	if session, ok := d.presence.Lookup(receiverID); ok {
		if !session.Deliver(Event{Name: EventNewMessage, Data: msg}) {
			// The connection went away between lookup and push. The message
			// is stored; the recipient fetches it like any offline peer.
			d.logger.Debug().
				Str("message_id", msg.ID).
				Str("receiver_id", receiverID).
				Msg("Live push not delivered, recipient treated as offline.")
		}
	}

	return msg, nil
}
