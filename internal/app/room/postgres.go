package room

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on top of the room_messages table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a Store backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Insert(ctx context.Context, m *Message) error {
	// now() makes the database clock authoritative for feed ordering.
	row := s.pool.QueryRow(ctx, `
		INSERT INTO room_messages (id, sender_id, sender_name, body, sticker)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		RETURNING created_at`,
		m.ID, m.SenderID, m.SenderName, m.Text, m.Sticker,
	)
	if err := row.Scan(&m.Timestamp); err != nil {
		return fmt.Errorf("insert room message: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, sender_id, sender_name, COALESCE(body, ''), COALESCE(sticker, ''), created_at
		FROM room_messages
		ORDER BY created_at DESC, id DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query room messages: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.SenderName, &m.Text, &m.Sticker, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan room message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
