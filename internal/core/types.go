package core

import "time"

// User is a visitor as seen by the relay.
type User struct {
	VisitorID string
	Username  string
	IsAdmin   bool
	IsOnline  bool
	CreatedAt time.Time
}

// Channel is a conversation scope enriched with its live member count.
// MemberCount is derived from presence and never persisted.
type Channel struct {
	ID          string
	Name        string
	CreatedBy   string
	CreatedAt   time.Time
	MemberCount int
}

// Message is the domain model for a chat message. System messages are
// synthesized join/leave/disconnect notices, flagged distinctly from
// user content.
type Message struct {
	ID              string
	ChannelID       string
	Content         string
	SenderUsername  string
	SenderVisitorID string
	Timestamp       time.Time
	System          bool
}
