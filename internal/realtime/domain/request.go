package domain

// Action client request action over the live connection
type Action string

const (
	// ActionOnlineUsers ask for a fresh online snapshot, replayed by the
	// client after a reconnect
	ActionOnlineUsers Action = "online-users"
)

// WSRequest client to server request frame
type WSRequest struct {
	Action string `json:"action"`
}
