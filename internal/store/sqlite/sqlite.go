package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/AshishKapoor/meri-chat-application/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	visitor_id TEXT PRIMARY KEY,
	username   TEXT NOT NULL,
	is_admin   BOOLEAN NOT NULL DEFAULT 0,
	is_online  BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS channels (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_by TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
	id                TEXT PRIMARY KEY,
	channel_id        TEXT NOT NULL,
	content           TEXT NOT NULL,
	sender_username   TEXT NOT NULL,
	sender_visitor_id TEXT NOT NULL,
	timestamp         DATETIME NOT NULL,
	system            BOOLEAN NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_messages_channel_ts ON messages(channel_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_messages_ts ON messages(timestamp);
CREATE INDEX IF NOT EXISTS idx_channels_created_at ON channels(created_at);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== UserStore implementation ====

// GetUserByVisitorID retrieves a user by visitor id.
func (s *SQLiteStore) GetUserByVisitorID(ctx context.Context, visitorID string) (*store.User, error) {
	query := `
		SELECT visitor_id, username, is_admin, is_online, created_at
		FROM users
		WHERE visitor_id = ?
	`
	var user store.User
	err := s.db.QueryRowContext(ctx, query, visitorID).Scan(
		&user.VisitorID,
		&user.Username,
		&user.IsAdmin,
		&user.IsOnline,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", visitorID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &user, nil
}

// UpsertUser creates the user or updates username and online flag,
// leaving the admin flag of an existing user untouched.
func (s *SQLiteStore) UpsertUser(ctx context.Context, visitorID, username string) (*store.User, error) {
	query := `
		INSERT INTO users (visitor_id, username, is_admin, is_online)
		VALUES (?, ?, 0, 1)
		ON CONFLICT(visitor_id) DO UPDATE SET
			username  = excluded.username,
			is_online = 1
	`
	if _, err := s.db.ExecContext(ctx, query, visitorID, username); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	return s.GetUserByVisitorID(ctx, visitorID)
}

// UpsertAdmin creates or updates the user with the admin flag forced on
// and the username forced to "Admin".
func (s *SQLiteStore) UpsertAdmin(ctx context.Context, visitorID string) (*store.User, error) {
	query := `
		INSERT INTO users (visitor_id, username, is_admin, is_online)
		VALUES (?, 'Admin', 1, 1)
		ON CONFLICT(visitor_id) DO UPDATE SET
			username  = 'Admin',
			is_admin  = 1,
			is_online = 1
	`
	if _, err := s.db.ExecContext(ctx, query, visitorID); err != nil {
		return nil, fmt.Errorf("upsert admin: %w", err)
	}

	return s.GetUserByVisitorID(ctx, visitorID)
}

// SetUserOnline updates the online flag for the visitor id.
func (s *SQLiteStore) SetUserOnline(ctx context.Context, visitorID string, online bool) error {
	query := `UPDATE users SET is_online = ? WHERE visitor_id = ?`
	if _, err := s.db.ExecContext(ctx, query, online, visitorID); err != nil {
		return fmt.Errorf("set user online: %w", err)
	}
	return nil
}

// ==== ChannelStore implementation ====

// CreateChannel persists a new channel.
func (s *SQLiteStore) CreateChannel(ctx context.Context, ch *store.Channel) error {
	query := `
		INSERT INTO channels (id, name, created_by, created_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, ch.ID, ch.Name, ch.CreatedBy, ch.CreatedAt); err != nil {
		return fmt.Errorf("insert channel: %w", err)
	}
	return nil
}

// GetChannelByID retrieves a channel by id.
func (s *SQLiteStore) GetChannelByID(ctx context.Context, id string) (*store.Channel, error) {
	query := `
		SELECT id, name, created_by, created_at
		FROM channels
		WHERE id = ?
	`
	var ch store.Channel
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&ch.ID,
		&ch.Name,
		&ch.CreatedBy,
		&ch.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("channel %s: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("query channel: %w", err)
	}

	return &ch, nil
}

// ListChannels returns all channels, newest first.
func (s *SQLiteStore) ListChannels(ctx context.Context) ([]*store.Channel, error) {
	query := `
		SELECT id, name, created_by, created_at
		FROM channels
		ORDER BY created_at DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query channels: %w", err)
	}
	defer rows.Close()

	channels := make([]*store.Channel, 0)
	for rows.Next() {
		var ch store.Channel
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.CreatedBy, &ch.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, &ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channels: %w", err)
	}

	return channels, nil
}

// DeleteChannel removes a channel.
func (s *SQLiteStore) DeleteChannel(ctx context.Context, id string) error {
	query := `DELETE FROM channels WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return nil
}

// ==== MessageStore implementation ====

// SaveMessage persists a message.
func (s *SQLiteStore) SaveMessage(ctx context.Context, m *store.Message) error {
	query := `
		INSERT INTO messages (id, channel_id, content, sender_username, sender_visitor_id, timestamp, system)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		m.ID,
		m.ChannelID,
		m.Content,
		m.SenderUsername,
		m.SenderVisitorID,
		m.Timestamp,
		m.System,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListMessagesSince returns channel messages at or after since, oldest first.
func (s *SQLiteStore) ListMessagesSince(ctx context.Context, channelID string, since time.Time) ([]*store.Message, error) {
	query := `
		SELECT id, channel_id, content, sender_username, sender_visitor_id, timestamp, system
		FROM messages
		WHERE channel_id = ? AND timestamp >= ?
		ORDER BY timestamp ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, channelID, since)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*store.Message, 0)
	for rows.Next() {
		var m store.Message
		err := rows.Scan(
			&m.ID,
			&m.ChannelID,
			&m.Content,
			&m.SenderUsername,
			&m.SenderVisitorID,
			&m.Timestamp,
			&m.System,
		)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

// DeleteChannelMessages removes every message of a channel.
func (s *SQLiteStore) DeleteChannelMessages(ctx context.Context, channelID string) error {
	query := `DELETE FROM messages WHERE channel_id = ?`
	if _, err := s.db.ExecContext(ctx, query, channelID); err != nil {
		return fmt.Errorf("delete channel messages: %w", err)
	}
	return nil
}

// ExpireBefore removes messages older than cutoff.
func (s *SQLiteStore) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM messages WHERE timestamp < ?`
	result, err := s.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire messages: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}
