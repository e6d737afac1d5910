package domain

import "time"

// NotificationFeedLimit the notification list read is capped at the most
// recent entries
const NotificationFeedLimit = 50

// Notification one like/comment/follow event directed at a user
type Notification struct {
	ID          string    `bson:"_id" json:"_id"`
	Type        string    `bson:"type" json:"type"`
	SenderID    string    `bson:"sender_id" json:"senderId"`
	RecipientID string    `bson:"recipient_id" json:"recipientId"`
	PostID      string    `bson:"post,omitempty" json:"post,omitempty"`
	Message     string    `bson:"message" json:"message"`
	Read        bool      `bson:"read" json:"read"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
}

// Profile the public sender block shown on a notification
type Profile struct {
	ID             string `json:"_id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}
