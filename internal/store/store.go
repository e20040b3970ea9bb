package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// User represents a visitor in the system. Users are keyed by the
// client-generated visitor id, which is unique across the collection.
type User struct {
	VisitorID string
	Username  string
	IsAdmin   bool
	IsOnline  bool
	CreatedAt time.Time
}

// Channel represents a named conversation scope.
type Channel struct {
	ID        string
	Name      string
	CreatedBy string // visitor id of the creator
	CreatedAt time.Time
}

// Message represents a persisted chat message. Messages older than the
// configured retention window are removed by the expiry sweeper.
type Message struct {
	ID              string
	ChannelID       string
	Content         string
	SenderUsername  string
	SenderVisitorID string
	Timestamp       time.Time
	System          bool
}

// UserStore handles user persistence.
type UserStore interface {
	// GetUserByVisitorID retrieves a user by visitor id.
	// Returns ErrNotFound if no such user exists.
	GetUserByVisitorID(ctx context.Context, visitorID string) (*User, error)

	// UpsertUser creates a user for the visitor id (non-admin, online) or
	// updates the existing record's username and online flag. The admin
	// flag of an existing user is left untouched.
	UpsertUser(ctx context.Context, visitorID, username string) (*User, error)

	// UpsertAdmin creates or updates the user for the visitor id with the
	// admin flag forced on, the online flag set, and the username forced
	// to "Admin".
	UpsertAdmin(ctx context.Context, visitorID string) (*User, error)

	// SetUserOnline updates the online flag for the visitor id. A missing
	// user is not an error.
	SetUserOnline(ctx context.Context, visitorID string, online bool) error
}

// ChannelStore handles channel persistence.
type ChannelStore interface {
	// CreateChannel persists a new channel.
	CreateChannel(ctx context.Context, ch *Channel) error

	// GetChannelByID retrieves a channel by id.
	// Returns ErrNotFound if no such channel exists.
	GetChannelByID(ctx context.Context, id string) (*Channel, error)

	// ListChannels returns all channels sorted by creation time, newest
	// first. The full collection is returned; channel counts are expected
	// to stay small.
	ListChannels(ctx context.Context) ([]*Channel, error)

	// DeleteChannel removes a channel. Deleting a missing channel is not
	// an error.
	DeleteChannel(ctx context.Context, id string) error
}

// MessageStore handles message persistence.
type MessageStore interface {
	// SaveMessage persists a message.
	SaveMessage(ctx context.Context, m *Message) error

	// ListMessagesSince returns the messages of a channel with a timestamp
	// at or after since, sorted ascending by timestamp.
	ListMessagesSince(ctx context.Context, channelID string, since time.Time) ([]*Message, error)

	// DeleteChannelMessages removes every message belonging to a channel.
	DeleteChannelMessages(ctx context.Context, channelID string) error

	// ExpireBefore removes messages with a timestamp before cutoff and
	// reports how many were removed.
	ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	ChannelStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
