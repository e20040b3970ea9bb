package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandRegister upserts the user record for a visitor id.
	CommandRegister CommandKind = iota
	// CommandAdminLogin checks admin credentials and grants the admin flag.
	CommandAdminLogin
	// CommandListChannels fetches the enriched channel list.
	CommandListChannels
	// CommandSuggestName asks for a random channel name suggestion.
	CommandSuggestName
	// CommandCreateChannel creates a new channel.
	CommandCreateChannel
	// CommandJoinChannel subscribes the connection to a channel.
	CommandJoinChannel
	// CommandLeaveChannel unsubscribes the connection from a channel.
	CommandLeaveChannel
	// CommandSendMessage delivers a chat message to channel members.
	CommandSendMessage
	// CommandDeleteChannel deletes a channel and its messages.
	CommandDeleteChannel
)

// Command represents an action requested by a client. ReqID carries the
// request id for acknowledged operations; fire-and-forget commands
// (leaveChannel, sendMessage) leave it empty.
type Command struct {
	Kind  CommandKind
	ReqID string

	Username    string
	VisitorID   string
	Email       string
	Password    string
	ChannelID   string
	ChannelName string
	Content     string
}
