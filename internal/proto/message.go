package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client. ID echoes
// back on the acknowledgement for request/response operations and is
// omitted for fire-and-forget ones.
type Inbound struct {
	ID   string          `json:"id,omitempty"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

const (
	InboundTypeRegister           = "register"
	InboundTypeAdminLogin         = "adminLogin"
	InboundTypeGetChannels        = "getChannels"
	InboundTypeSuggestChannelName = "suggestChannelName"
	InboundTypeCreateChannel      = "createChannel"
	InboundTypeJoinChannel        = "joinChannel"
	InboundTypeLeaveChannel       = "leaveChannel"
	InboundTypeSendMessage        = "sendMessage"
	InboundTypeDeleteChannel      = "deleteChannel"

	OutboundTypeAck   = "ack"
	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventChannels       = "channels"
	EventMessage        = "message"
	EventSystem         = "system"
	EventChannelDeleted = "channelDeleted"
	EventError          = "error"
)

// RegisterData carries a register request.
type RegisterData struct {
	Username  string `json:"username"`
	VisitorID string `json:"visitorId"`
}

// AdminLoginData carries an adminLogin request.
type AdminLoginData struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	VisitorID string `json:"visitorId"`
}

// CreateChannelData carries a createChannel request.
type CreateChannelData struct {
	Name      string `json:"name"`
	VisitorID string `json:"visitorId"`
}

// JoinChannelData carries a joinChannel request.
type JoinChannelData struct {
	ChannelID string `json:"channelId"`
	VisitorID string `json:"visitorId"`
}

// LeaveChannelData carries a leaveChannel notification.
type LeaveChannelData struct {
	ChannelID string `json:"channelId"`
}

// SendMessageData carries a sendMessage notification.
type SendMessageData struct {
	ChannelID       string `json:"channelId"`
	Content         string `json:"content"`
	SenderVisitorID string `json:"senderVisitorId"`
}

// DeleteChannelData carries a deleteChannel request.
type DeleteChannelData struct {
	ChannelID string `json:"channelId"`
	VisitorID string `json:"visitorId"`
}

// Outbound is the envelope for messages sent to the client. Acks carry
// the originating request's id; pushes carry the event name.
type Outbound struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// User is the wire shape of a user record.
type User struct {
	VisitorID string `json:"visitorId"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"isAdmin"`
	IsOnline  bool   `json:"isOnline"`
	CreatedAt int64  `json:"createdAt"`
}

// Channel is the wire shape of a channel with its live member count.
type Channel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreatedBy   string `json:"createdBy"`
	CreatedAt   int64  `json:"createdAt"`
	MemberCount int    `json:"memberCount"`
}

// Message is the wire shape of a chat or system message.
type Message struct {
	ID              string `json:"id"`
	ChannelID       string `json:"channelId"`
	Content         string `json:"content"`
	SenderUsername  string `json:"senderUsername"`
	SenderVisitorID string `json:"senderVisitorId"`
	Timestamp       int64  `json:"timestamp"`
	System          bool   `json:"system,omitempty"`
}

// UserAck answers register and adminLogin.
type UserAck struct {
	User  *User  `json:"user,omitempty"`
	Error string `json:"error,omitempty"`
}

// ChannelAck answers createChannel.
type ChannelAck struct {
	Channel *Channel `json:"channel,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// HistoryAck answers joinChannel.
type HistoryAck struct {
	Messages []Message `json:"messages,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// DeleteAck answers deleteChannel.
type DeleteAck struct {
	Success bool   `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
