package app

import (
	"context"

	rtdomain "wayfare/internal/realtime/domain"
	"wayfare/internal/social/domain"

	"github.com/stretchr/testify/mock"
)

// MockConversationRepository Mock ConversationRepository
type MockConversationRepository struct {
	mock.Mock
}

// FindOrCreate mock find or create conversation
func (m *MockConversationRepository) FindOrCreate(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindBetween mock find conversation of a pair
func (m *MockConversationRepository) FindBetween(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// AppendMessage mock append message
func (m *MockConversationRepository) AppendMessage(ctx context.Context, msg *domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// FindMessages mock find messages of a conversation
func (m *MockConversationRepository) FindMessages(ctx context.Context, conversationID string) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.ChatMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockNotificationRepository Mock NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

// Insert mock insert notification
func (m *MockNotificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// FindByRecipient mock find notifications of a recipient
func (m *MockNotificationRepository) FindByRecipient(ctx context.Context, recipientID string, limit int64) ([]domain.Notification, error) {
	args := m.Called(ctx, recipientID, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

// MarkRead mock mark one read
func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	args := m.Called(ctx, id, recipientID)
	return args.Error(0)
}

// MarkAllRead mock mark all read
func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	args := m.Called(ctx, recipientID)
	return args.Error(0)
}

// MockDispatcher Mock Dispatcher
type MockDispatcher struct {
	mock.Mock
}

// DispatchMessage mock message fan-out
func (m *MockDispatcher) DispatchMessage(ev rtdomain.NewMessageEvent) {
	m.Called(ev)
}

// DispatchNotification mock notification fan-out
func (m *MockDispatcher) DispatchNotification(ev rtdomain.NewNotificationEvent) {
	m.Called(ev)
}

// MockAccountReader Mock AccountReader
type MockAccountReader struct {
	mock.Mock
}

// Profile mock public profile lookup
func (m *MockAccountReader) Profile(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}
