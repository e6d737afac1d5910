package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// Event names pushed over the live connection
const (
	// EventOnlineUsers full snapshot of user ids with at least one live connection
	EventOnlineUsers = "online-users"
	// EventNewMessage one chat message, pushed to sender and receiver connections
	EventNewMessage = "new-message"
	// EventNewNotification one like/comment/follow notification, pushed to the recipient only
	EventNewNotification = "new-notification"
)

// MessageType body variant of a chat message
type MessageType string

const (
	// MessageTypeText plain text body
	MessageTypeText MessageType = "text"
	// MessageTypePost a shared post reference
	MessageTypePost MessageType = "post"
)

// NotificationType definition notification kind
type NotificationType string

const (
	// NotificationLike someone liked a post
	NotificationLike NotificationType = "like"
	// NotificationComment someone commented on a post
	NotificationComment NotificationType = "comment"
	// NotificationFollow someone started following the recipient
	NotificationFollow NotificationType = "follow"
)

// NewMessageEvent is the message payload constructed by the write handler
// after its persistence commit. Immutable once built.
type NewMessageEvent struct {
	ID             string      `json:"_id"`
	ConversationID string      `json:"conversationId,omitempty"`
	SenderID       string      `json:"senderId"`
	ReceiverID     string      `json:"receiverId"`
	MessageType    MessageType `json:"messageType"`
	Message        string      `json:"message,omitempty"`
	SharedPostID   string      `json:"sharedPost,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// NotificationSender the sender block embedded in a notification push
type NotificationSender struct {
	ID             string `json:"_id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// NewNotificationEvent is the notification payload constructed by the write
// handler after its persistence commit. Immutable once built.
type NewNotificationEvent struct {
	ID          string             `json:"_id"`
	Type        NotificationType   `json:"type"`
	Message     string             `json:"message"`
	Sender      NotificationSender `json:"sender"`
	RecipientID string             `json:"recipientId"`
	PostID      string             `json:"post,omitempty"`
	Read        bool               `json:"read"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// MessagePush NewMessageEvent as delivered to one connection. IsReceiver
// distinguishes "this arrived for me" from "my own echoed send".
type MessagePush struct {
	NewMessageEvent
	IsReceiver bool `json:"isReceiver"`
}

// Envelope wraps every push with its event name
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Wire errors
var (
	ErrUnknownEvent  = errors.New("unknown event name")
	ErrMissingFields = errors.New("push payload missing required fields")
)

// NewEnvelope marshal data under the given event name
func NewEnvelope(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

// ParseEnvelope decode one frame from the wire
func ParseEnvelope(payload []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, err
	}
	if env.Event == "" {
		return nil, ErrUnknownEvent
	}
	return &env, nil
}

// Validate required fields of a message push, never trust shape at runtime
func (m *MessagePush) Validate() error {
	if m.ID == "" || m.SenderID == "" || m.ReceiverID == "" {
		return ErrMissingFields
	}
	switch m.MessageType {
	case MessageTypeText:
		if m.Message == "" {
			return ErrMissingFields
		}
	case MessageTypePost:
		if m.SharedPostID == "" {
			return ErrMissingFields
		}
	default:
		return ErrMissingFields
	}
	return nil
}

// Validate required fields of a notification push
func (n *NewNotificationEvent) Validate() error {
	if n.ID == "" || n.RecipientID == "" || n.Sender.ID == "" {
		return ErrMissingFields
	}
	switch n.Type {
	case NotificationLike, NotificationComment, NotificationFollow:
	default:
		return ErrMissingFields
	}
	return nil
}
