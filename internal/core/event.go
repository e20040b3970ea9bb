package core

// EventKind is a notification the relay emits to clients.
type EventKind int

const (
	// EventUserAck answers register and adminLogin requests.
	EventUserAck EventKind = iota
	// EventChannelListAck answers getChannels requests.
	EventChannelListAck
	// EventSuggestionAck answers suggestChannelName requests.
	EventSuggestionAck
	// EventChannelAck answers createChannel requests.
	EventChannelAck
	// EventHistoryAck answers joinChannel requests with recent history.
	EventHistoryAck
	// EventDeleteAck answers deleteChannel requests.
	EventDeleteAck

	// EventChannels pushes the enriched channel list to every client.
	EventChannels
	// EventChatMessage pushes a new chat message to channel members.
	EventChatMessage
	// EventSystemNotice pushes a synthesized join/leave/disconnect notice.
	EventSystemNotice
	// EventChannelDeleted notifies channel members about a deletion.
	EventChannelDeleted
	// EventSendError reports a sendMessage persistence failure to the sender.
	EventSendError
)

// Event is sent to clients to describe what happened in the system.
// Err carries the user-facing error string for failed acknowledged
// requests; it is empty on success.
type Event struct {
	Kind  EventKind
	ReqID string

	User       *User
	Channel    *Channel
	Channels   []Channel
	Message    *Message
	Messages   []Message
	ChannelID  string
	Suggestion string
	Success    bool
	Err        string
}
