package domain

import (
	"time"

	"wayfare/pkg"
)

// Conversation the ordered message exchange between exactly two users
type Conversation struct {
	ID        string    `bson:"_id,omitempty" json:"_id"`
	Members   []string  `bson:"members" json:"members"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// HasMember check the user belongs to this conversation
func (c *Conversation) HasMember(userID string) bool {
	return pkg.Contains(c.Members, userID)
}

// ChatMessage one persisted chat message, text or shared post
type ChatMessage struct {
	ID             string    `bson:"_id" json:"_id"`
	ConversationID string    `bson:"conversation_id" json:"conversationId"`
	SenderID       string    `bson:"sender_id" json:"senderId"`
	ReceiverID     string    `bson:"receiver_id" json:"receiverId"`
	MessageType    string    `bson:"message_type" json:"messageType"`
	Message        string    `bson:"message,omitempty" json:"message,omitempty"`
	SharedPostID   string    `bson:"shared_post,omitempty" json:"sharedPost,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
}
