package app

import (
	"context"
	"time"

	rtdomain "wayfare/internal/realtime/domain"
	"wayfare/internal/social/domain"
	"wayfare/internal/social/repository"
	errprocess "wayfare/pkg/err"

	"github.com/google/uuid"
)

// AccountReader resolves the public profile embedded in notification pushes
type AccountReader interface {
	Profile(ctx context.Context, userID string) (*domain.Profile, error)
}

// NotificationUseCase handles the like/comment/follow write paths and the
// recovery reads of the notification feed
type NotificationUseCase struct {
	notifRepo  repository.NotificationRepository
	accounts   AccountReader
	dispatcher Dispatcher
}

// NewNotificationUseCase create NotificationUseCase
func NewNotificationUseCase(
	notifRepo repository.NotificationRepository,
	accounts AccountReader,
	dispatcher Dispatcher,
) *NotificationUseCase {
	return &NotificationUseCase{
		notifRepo:  notifRepo,
		accounts:   accounts,
		dispatcher: dispatcher,
	}
}

func notificationMessage(kind rtdomain.NotificationType, username string) string {
	switch kind {
	case rtdomain.NotificationLike:
		return username + " liked your post"
	case rtdomain.NotificationComment:
		return username + " commented on your post"
	case rtdomain.NotificationFollow:
		return username + " started following you"
	}
	return ""
}

// Notify persist the notification, then push it to the recipient. A user's
// action on their own content produces nothing. The dispatch runs strictly
// after the commit.
func (uc *NotificationUseCase) Notify(ctx context.Context, senderID, recipientID string, kind rtdomain.NotificationType, postID string) (*domain.Notification, error) {
	if recipientID == "" {
		return nil, errprocess.Set("missing recipient")
	}
	if senderID == recipientID {
		return nil, nil
	}

	sender, err := uc.accounts.Profile(ctx, senderID)
	if err != nil {
		return nil, err
	}

	message := notificationMessage(kind, sender.Username)
	if message == "" {
		return nil, errprocess.Set("unknown notification type")
	}

	n := &domain.Notification{
		ID:          uuid.New().String(),
		Type:        string(kind),
		SenderID:    senderID,
		RecipientID: recipientID,
		PostID:      postID,
		Message:     message,
		Read:        false,
		CreatedAt:   time.Now(),
	}
	if err := uc.notifRepo.Insert(ctx, n); err != nil {
		return nil, err
	}

	uc.dispatcher.DispatchNotification(rtdomain.NewNotificationEvent{
		ID:      n.ID,
		Type:    kind,
		Message: n.Message,
		Sender: rtdomain.NotificationSender{
			ID:             sender.ID,
			Username:       sender.Username,
			ProfilePicture: sender.ProfilePicture,
		},
		RecipientID: n.RecipientID,
		PostID:      n.PostID,
		Read:        false,
		CreatedAt:   n.CreatedAt,
	})

	return n, nil
}

// List the recipient's feed, most recent first, capped
func (uc *NotificationUseCase) List(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	return uc.notifRepo.FindByRecipient(ctx, recipientID, domain.NotificationFeedLimit)
}

// MarkRead flip one entry's read flag
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id, recipientID string) error {
	return uc.notifRepo.MarkRead(ctx, id, recipientID)
}

// MarkAllRead flip every entry of the recipient
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, recipientID string) error {
	return uc.notifRepo.MarkAllRead(ctx, recipientID)
}
