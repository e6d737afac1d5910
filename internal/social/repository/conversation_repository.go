package repository

import (
	"context"
	"time"

	"wayfare/internal/social/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConversationRepository definition conversation and message persistence
type ConversationRepository interface {
	// FindOrCreate return the two member conversation, creating it when absent
	FindOrCreate(ctx context.Context, userA, userB string) (*domain.Conversation, error)
	// FindBetween return the conversation of the pair, nil when absent
	FindBetween(ctx context.Context, userA, userB string) (*domain.Conversation, error)
	// AppendMessage persist one message
	AppendMessage(ctx context.Context, msg *domain.ChatMessage) error
	// FindMessages all messages of a conversation, oldest first
	FindMessages(ctx context.Context, conversationID string) ([]domain.ChatMessage, error)
}

type conversationRepository struct {
	convColl *mongo.Collection
	msgColl  *mongo.Collection
}

// NewMongoConversationRepository create a ConversationRepository
func NewMongoConversationRepository(db *mongo.Database) ConversationRepository {
	return &conversationRepository{
		convColl: db.Collection("conversations"),
		msgColl:  db.Collection("messages"),
	}
}

func (r *conversationRepository) FindBetween(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	filter := bson.M{"members": bson.M{"$all": []string{userA, userB}, "$size": 2}}
	var conv domain.Conversation
	err := r.convColl.FindOne(ctx, filter).Decode(&conv)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) FindOrCreate(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	conv, err := r.FindBetween(ctx, userA, userB)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	conv = &domain.Conversation{
		ID:        uuid.New().String(),
		Members:   []string{userA, userB},
		CreatedAt: time.Now(),
	}
	if _, err := r.convColl.InsertOne(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (r *conversationRepository) AppendMessage(ctx context.Context, msg *domain.ChatMessage) error {
	_, err := r.msgColl.InsertOne(ctx, msg)
	return err
}

func (r *conversationRepository) FindMessages(ctx context.Context, conversationID string) ([]domain.ChatMessage, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := r.msgColl.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, err
	}
	var messages []domain.ChatMessage
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
