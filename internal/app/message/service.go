package message

import (
	"context"

	"github.com/rs/zerolog"

	"quickchat/internal/pkg/logx"
)

// Service implements the seen-state transitions over a conversation Store.
type Service struct {
	store Store

	logger zerolog.Logger
}

// NewService constructs a Service on top of the given store.
func NewService(store Store) *Service {
	serviceLogger := logx.Logger().With().Str("component", "MessageService").Logger()

	return &Service{
		store:  store,
		logger: serviceLogger,
	}
}

// OpenConversation returns the full history between selfID and peerID,
// ordered ascending by creation time, and then bulk-flips every unseen
// peer→self message to seen.
//
// The returned slice is the snapshot taken before the flip: messages that the
// same call just marked seen still show seen=false in the response. Clients
// recover the post-flip state on their next fetch.
func (s *Service) OpenConversation(ctx context.Context, selfID, peerID string) ([]Message, error) {
	messages, err := s.store.ListConversation(ctx, selfID, peerID)
	if err != nil {
		return nil, err
	}

	flipped, err := s.store.MarkConversationSeen(ctx, peerID, selfID)
	if err != nil {
		return nil, err
	}

	if flipped > 0 {
		s.logger.Debug().
			Str("self_id", selfID).
			Str("peer_id", peerID).
			Int64("flipped", flipped).
			Msg("Marked incoming messages as seen.")
	}

	return messages, nil
}

// MarkSeen flips one message to seen. The operation is idempotent, and an
// unknown id is success with a nil message rather than an error.
func (s *Service) MarkSeen(ctx context.Context, messageID string) (*Message, error) {
	return s.store.MarkSeen(ctx, messageID)
}

// UnseenCounts returns the number of unseen messages addressed to selfID,
// keyed by sender. Only strictly positive counts appear.
func (s *Service) UnseenCounts(ctx context.Context, selfID string) (map[string]int64, error) {
	return s.store.CountUnseen(ctx, selfID)
}
