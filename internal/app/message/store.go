package message

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store on a PostgreSQL connection pool.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore returns a Store backed by the given pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const messageColumns = "id, sender_id, receiver_id, text, image, seen, created_at, updated_at"

func scanMessage(row pgx.Row) (*Message, error) {
	var m Message
	err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.Image, &m.Seen, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Insert persists a new message and fills the generated id and the
// server-assigned timestamps. The database clock decides created_at, so
// persistence order and timestamp order agree.
func (s *PGStore) Insert(ctx context.Context, msg *Message) error {
	msg.ID = uuid.New().String()

	row := s.pool.QueryRow(ctx,
		`INSERT INTO messages (id, sender_id, receiver_id, text, image)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING seen, created_at, updated_at`,
		msg.ID, msg.SenderID, msg.ReceiverID, msg.Text, msg.Image,
	)

	if err := row.Scan(&msg.Seen, &msg.CreatedAt, &msg.UpdatedAt); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListConversation returns both directions of the pair ordered by creation time.
func (s *PGStore) ListConversation(ctx context.Context, selfID, peerID string) ([]Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+messageColumns+`
		 FROM messages
		 WHERE (sender_id = $1 AND receiver_id = $2)
		    OR (sender_id = $2 AND receiver_id = $1)
		 ORDER BY created_at ASC`,
		selfID, peerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	defer rows.Close()

	messages := make([]Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("list conversation: %w", err)
		}
		messages = append(messages, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	return messages, nil
}

// MarkConversationSeen flips every unseen senderID→receiverID message to seen.
func (s *PGStore) MarkConversationSeen(ctx context.Context, senderID, receiverID string) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE messages
		 SET seen = true, updated_at = now()
		 WHERE sender_id = $1 AND receiver_id = $2 AND NOT seen`,
		senderID, receiverID,
	)
	if err != nil {
		return 0, fmt.Errorf("mark conversation seen: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MarkSeen flips one message to seen by id. Unknown or malformed ids match
// zero rows and return (nil, nil).
func (s *PGStore) MarkSeen(ctx context.Context, messageID string) (*Message, error) {
	id, err := uuid.Parse(messageID)
	if err != nil {
		return nil, nil
	}

	row := s.pool.QueryRow(ctx,
		`UPDATE messages
		 SET seen = true, updated_at = now()
		 WHERE id = $1
		 RETURNING `+messageColumns,
		id,
	)

	m, err := scanMessage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mark seen: %w", err)
	}
	return m, nil
}

// CountUnseen groups unseen messages addressed to receiverID by sender.
func (s *PGStore) CountUnseen(ctx context.Context, receiverID string) (map[string]int64, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT sender_id, count(*)
		 FROM messages
		 WHERE receiver_id = $1 AND NOT seen
		 GROUP BY sender_id`,
		receiverID,
	)
	if err != nil {
		return nil, fmt.Errorf("count unseen: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var senderID string
		var n int64
		if err := rows.Scan(&senderID, &n); err != nil {
			return nil, fmt.Errorf("count unseen: %w", err)
		}
		counts[senderID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count unseen: %w", err)
	}
	return counts, nil
}
