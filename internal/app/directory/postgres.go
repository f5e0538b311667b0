package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"awesomechat/internal/app/db"
)

const userColumns = `id, email, display_name, COALESCE(password_hash, ''), avatar_key,
	online, friends, friend_requests, custom_stickers, created_at`

// PostgresStore implements UserStore on top of the users table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a UserStore backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.AvatarKey,
		&u.Online, &u.Friends, &u.FriendRequests, &u.CustomStickers, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *PostgresStore) GetMany(ctx context.Context, ids []string) ([]User, error) {
	if len(ids) == 0 {
		return []User{}, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]User, len(ids))
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.AvatarKey,
			&u.Online, &u.Friends, &u.FriendRequests, &u.CustomStickers, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		byID[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Preserve input order, skipping ids with no document.
	users := make([]User, 0, len(byID))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *PostgresStore) Create(ctx context.Context, u *User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, display_name, password_hash, friends, friend_requests, custom_stickers)
		VALUES ($1, $2, $3, NULLIF($4, ''), '{}', '{}', '{}')`,
		u.ID, u.Email, u.DisplayName, u.PasswordHash,
	)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) EnsureDocument(ctx context.Context, id, email, displayName string) error {
	// Merge write: only profile scalars are touched, and an existing display
	// name wins over an empty incoming one. Friend data is never overwritten.
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, display_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = CASE
				WHEN EXCLUDED.display_name <> '' THEN EXCLUDED.display_name
				ELSE users.display_name
			END`,
		id, email, displayName,
	)
	if err != nil {
		return fmt.Errorf("upsert user document: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetPresence(ctx context.Context, id string, online bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET online = $2 WHERE id = $1`, id, online)
	if err != nil {
		return fmt.Errorf("set presence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Online(ctx context.Context) ([]User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE online ORDER BY display_name, id`)
	if err != nil {
		return nil, fmt.Errorf("query online users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.AvatarKey,
			&u.Online, &u.Friends, &u.FriendRequests, &u.CustomStickers, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *PostgresStore) AddSticker(ctx context.Context, id, payload string) error {
	// Set-union append: a payload already in the set leaves the row unchanged.
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET custom_stickers = CASE
			WHEN $2 = ANY(custom_stickers) THEN custom_stickers
			ELSE array_append(custom_stickers, $2)
		END
		WHERE id = $1`,
		id, payload,
	)
	if err != nil {
		return fmt.Errorf("add sticker: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) AddFriendRequest(ctx context.Context, to, from string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET friend_requests = CASE
			WHEN $2 = ANY(friend_requests) THEN friend_requests
			ELSE array_append(friend_requests, $2)
		END
		WHERE id = $1`,
		to, from,
	)
	if err != nil {
		return fmt.Errorf("add friend request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) AcceptFriendRequest(ctx context.Context, accepter, requester string) error {
	// Both edge writes commit as one transaction so the friend graph is never
	// left asymmetric: either the full bidirectional edge exists or none of it.
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin accept tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE users SET
			friends = CASE
				WHEN $2 = ANY(friends) THEN friends
				ELSE array_append(friends, $2)
			END,
			friend_requests = array_remove(friend_requests, $2)
		WHERE id = $1 AND $2 = ANY(friend_requests)`,
		accepter, requester,
	)
	if err != nil {
		return fmt.Errorf("accept request (accepter side): %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoPendingRequest
	}

	tag, err = tx.Exec(ctx, `
		UPDATE users SET friends = CASE
			WHEN $2 = ANY(friends) THEN friends
			ELSE array_append(friends, $2)
		END
		WHERE id = $1`,
		requester, accepter,
	)
	if err != nil {
		return fmt.Errorf("accept request (requester side): %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) SetAvatarKey(ctx context.Context, id, key string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET avatar_key = $2 WHERE id = $1`, id, key)
	if err != nil {
		return fmt.Errorf("set avatar key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
