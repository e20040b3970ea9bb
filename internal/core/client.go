package core

// Client is one connected WebSocket session as seen by the relay.
// The transport closes Commands when its read side ends; Events is
// never closed. The session fields below ID are owned by the hub
// goroutine and must not be touched by the transport.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	// Session state, mirrors what the client last told us.
	VisitorID        string
	Username         string
	IsAdmin          bool
	CurrentChannelID string
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 32),
	}
}
