package repository

import (
	"context"

	"wayfare/internal/social/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository definition notification persistence
type NotificationRepository interface {
	// Insert persist one notification
	Insert(ctx context.Context, n *domain.Notification) error
	// FindByRecipient most recent first, capped at limit
	FindByRecipient(ctx context.Context, recipientID string, limit int64) ([]domain.Notification, error)
	// MarkRead flip one entry's read flag, scoped to its recipient
	MarkRead(ctx context.Context, id, recipientID string) error
	// MarkAllRead flip every entry of the recipient
	MarkAllRead(ctx context.Context, recipientID string) error
}

type notificationRepository struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepository create a NotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) NotificationRepository {
	return &notificationRepository{
		coll: db.Collection("notifications"),
	}
}

func (r *notificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	_, err := r.coll.InsertOne(ctx, n)
	return err
}

func (r *notificationRepository) FindByRecipient(ctx context.Context, recipientID string, limit int64) ([]domain.Notification, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit)
	cur, err := r.coll.Find(ctx, bson.M{"recipient_id": recipientID}, opts)
	if err != nil {
		return nil, err
	}
	var notifications []domain.Notification
	if err := cur.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	filter := bson.M{"_id": id, "recipient_id": recipientID}
	update := bson.M{"$set": bson.M{"read": true}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	filter := bson.M{"recipient_id": recipientID, "read": false}
	update := bson.M{"$set": bson.M{"read": true}}
	_, err := r.coll.UpdateMany(ctx, filter, update)
	return err
}
