package core

// User-facing error strings returned in acknowledgements. Infrastructure
// failures are collapsed into the generic "Failed to ..." form; the
// underlying cause is only logged.
const (
	ErrFailedRegister          = "Failed to register"
	ErrInvalidAdminCredentials = "Invalid admin credentials"
	ErrFailedSetAdmin          = "Failed to set admin"
	ErrFailedCreateChannel     = "Failed to create channel"
	ErrChannelNotFound         = "Channel not found"
	ErrFailedJoinChannel       = "Failed to join channel"
	ErrUserNotFound            = "User not found"
	ErrNotAllowed              = "Not allowed"
	ErrFailedDeleteChannel     = "Failed to delete channel"
	ErrFailedSendMessage       = "Failed to send message"
)
