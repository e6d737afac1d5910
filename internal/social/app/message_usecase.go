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

// Dispatcher pushes committed domain events to live connections. Delivery is
// best effort and never fails the write that produced the event.
type Dispatcher interface {
	DispatchMessage(ev rtdomain.NewMessageEvent)
	DispatchNotification(ev rtdomain.NewNotificationEvent)
}

// MessageBody the body variant of an outgoing message
type MessageBody struct {
	Type         string
	Text         string
	SharedPostID string
}

// MessageUseCase handles the chat message write path and the conversation
// history read used to rehydrate a client after a missed push
type MessageUseCase struct {
	convRepo   repository.ConversationRepository
	dispatcher Dispatcher
}

// NewMessageUseCase create MessageUseCase
func NewMessageUseCase(convRepo repository.ConversationRepository, dispatcher Dispatcher) *MessageUseCase {
	return &MessageUseCase{
		convRepo:   convRepo,
		dispatcher: dispatcher,
	}
}

// Send persist the message, then fan it out. The dispatch runs strictly
// after the commit so an event is never observable before the fact it
// describes is durable.
func (uc *MessageUseCase) Send(ctx context.Context, senderID, receiverID string, body MessageBody) (*domain.ChatMessage, error) {
	if receiverID == "" || receiverID == senderID {
		return nil, errprocess.Set("invalid receiver")
	}
	switch body.Type {
	case string(rtdomain.MessageTypeText):
		if body.Text == "" {
			return nil, errprocess.Set("empty message")
		}
	case string(rtdomain.MessageTypePost):
		if body.SharedPostID == "" {
			return nil, errprocess.Set("missing shared post")
		}
	default:
		return nil, errprocess.Set("unknown message type")
	}

	conv, err := uc.convRepo.FindOrCreate(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}

	msg := &domain.ChatMessage{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		MessageType:    body.Type,
		Message:        body.Text,
		SharedPostID:   body.SharedPostID,
		CreatedAt:      time.Now(),
	}
	if err := uc.convRepo.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}

	uc.dispatcher.DispatchMessage(rtdomain.NewMessageEvent{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		ReceiverID:     msg.ReceiverID,
		MessageType:    rtdomain.MessageType(msg.MessageType),
		Message:        msg.Message,
		SharedPostID:   msg.SharedPostID,
		CreatedAt:      msg.CreatedAt,
	})

	return msg, nil
}

// History the full conversation between the local user and a peer, oldest
// first. An absent conversation is an empty history, not an error.
func (uc *MessageUseCase) History(ctx context.Context, localUserID, peerID string) ([]domain.ChatMessage, error) {
	conv, err := uc.convRepo.FindBetween(ctx, localUserID, peerID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return []domain.ChatMessage{}, nil
	}
	return uc.convRepo.FindMessages(ctx, conv.ID)
}
