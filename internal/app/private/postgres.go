package private

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on top of the private_messages table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Store backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, m *Message) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO private_messages (id, channel_id, sender_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		m.ID, m.ChannelID, m.SenderID, m.Text,
	)
	if err := row.Scan(&m.Timestamp); err != nil {
		return fmt.Errorf("append private message: %w", err)
	}
	return nil
}

func (s *PostgresStore) History(ctx context.Context, channelID string) ([]Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, channel_id, sender_id, body, created_at
		FROM private_messages
		WHERE channel_id = $1
		ORDER BY created_at ASC, id ASC`,
		channelID,
	)
	if err != nil {
		return nil, fmt.Errorf("query private messages: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ChannelID, &m.SenderID, &m.Text, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan private message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
