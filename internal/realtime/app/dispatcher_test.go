package app

import (
	"encoding/json"
	"testing"
	"time"

	"wayfare/internal/realtime/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func drainPushes(t *testing.T, conn *domain.Connection) []domain.Envelope {
	t.Helper()
	var out []domain.Envelope
	for {
		select {
		case payload := <-conn.Send:
			env, err := domain.ParseEnvelope(payload)
			assert.NoError(t, err)
			out = append(out, *env)
		default:
			return out
		}
	}
}

func messageEvent(sender, receiver, text string) domain.NewMessageEvent {
	return domain.NewMessageEvent{
		ID:             uuid.New().String(),
		ConversationID: uuid.New().String(),
		SenderID:       sender,
		ReceiverID:     receiver,
		MessageType:    domain.MessageTypeText,
		Message:        text,
		CreatedAt:      time.Now(),
	}
}

func TestEventDispatcher_MessageFanOut(t *testing.T) {
	reg := NewPresenceRegistry()
	d := NewEventDispatcher(reg)

	senderTab1 := domain.NewConnection("user-a", 8)
	senderTab2 := domain.NewConnection("user-a", 8)
	receiver := domain.NewConnection("user-b", 8)
	bystander := domain.NewConnection("user-c", 8)
	reg.Register(senderTab1)
	reg.Register(senderTab2)
	reg.Register(receiver)
	reg.Register(bystander)

	d.DispatchMessage(messageEvent("user-a", "user-b", "hi"))

	for _, senderConn := range []*domain.Connection{senderTab1, senderTab2} {
		pushes := drainPushes(t, senderConn)
		assert.Len(t, pushes, 1)
		assert.Equal(t, domain.EventNewMessage, pushes[0].Event)

		var push domain.MessagePush
		assert.NoError(t, json.Unmarshal(pushes[0].Data, &push))
		assert.False(t, push.IsReceiver, "sender tabs get the echo")
		assert.Equal(t, "hi", push.Message)
	}

	pushes := drainPushes(t, receiver)
	assert.Len(t, pushes, 1)
	var push domain.MessagePush
	assert.NoError(t, json.Unmarshal(pushes[0].Data, &push))
	assert.True(t, push.IsReceiver)

	assert.Empty(t, drainPushes(t, bystander), "no other connection receives the message")
}

func TestEventDispatcher_MessageToOfflineReceiverIsDropped(t *testing.T) {
	reg := NewPresenceRegistry()
	d := NewEventDispatcher(reg)

	senderTab := domain.NewConnection("user-a", 8)
	reg.Register(senderTab)

	// user-b offline: no push anywhere for them, the sender still gets the echo
	d.DispatchMessage(messageEvent("user-a", "user-b", "hi"))

	pushes := drainPushes(t, senderTab)
	assert.Len(t, pushes, 1)
	var push domain.MessagePush
	assert.NoError(t, json.Unmarshal(pushes[0].Data, &push))
	assert.False(t, push.IsReceiver)
}

func TestEventDispatcher_NotificationRecipientOnly(t *testing.T) {
	reg := NewPresenceRegistry()
	d := NewEventDispatcher(reg)

	sender := domain.NewConnection("user-a", 8)
	recipient := domain.NewConnection("user-b", 8)
	reg.Register(sender)
	reg.Register(recipient)

	d.DispatchNotification(domain.NewNotificationEvent{
		ID:          uuid.New().String(),
		Type:        domain.NotificationLike,
		Message:     "liked your post",
		Sender:      domain.NotificationSender{ID: "user-a", Username: "alice"},
		RecipientID: "user-b",
		PostID:      "post-1",
		CreatedAt:   time.Now(),
	})

	pushes := drainPushes(t, recipient)
	assert.Len(t, pushes, 1)
	assert.Equal(t, domain.EventNewNotification, pushes[0].Event)

	var notif domain.NewNotificationEvent
	assert.NoError(t, json.Unmarshal(pushes[0].Data, &notif))
	assert.Equal(t, domain.NotificationLike, notif.Type)
	assert.False(t, notif.Read)

	assert.Empty(t, drainPushes(t, sender), "the sender never hears about their own action")
}

func TestEventDispatcher_PerPairOrderPreserved(t *testing.T) {
	reg := NewPresenceRegistry()
	d := NewEventDispatcher(reg)

	receiver := domain.NewConnection("user-b", 16)
	reg.Register(receiver)

	for _, text := range []string{"one", "two", "three"} {
		d.DispatchMessage(messageEvent("user-a", "user-b", text))
	}

	pushes := drainPushes(t, receiver)
	assert.Len(t, pushes, 3)
	for i, want := range []string{"one", "two", "three"} {
		var push domain.MessagePush
		assert.NoError(t, json.Unmarshal(pushes[i].Data, &push))
		assert.Equal(t, want, push.Message)
	}
}

func TestEventDispatcher_FullQueueDropsNotBlocks(t *testing.T) {
	reg := NewPresenceRegistry()
	d := NewEventDispatcher(reg)

	receiver := domain.NewConnection("user-b", 1)
	reg.Register(receiver)

	d.DispatchMessage(messageEvent("user-a", "user-b", "kept"))
	d.DispatchMessage(messageEvent("user-a", "user-b", "dropped"))

	pushes := drainPushes(t, receiver)
	assert.Len(t, pushes, 1)
	var push domain.MessagePush
	assert.NoError(t, json.Unmarshal(pushes[0].Data, &push))
	assert.Equal(t, "kept", push.Message)
}

func TestEventDispatcher_OnlineSnapshotBroadcast(t *testing.T) {
	reg := NewPresenceRegistry()
	d := NewEventDispatcher(reg)

	connA := domain.NewConnection("user-a", 8)
	connB := domain.NewConnection("user-b", 8)
	reg.Register(connA)
	reg.Register(connB)

	d.BroadcastOnlineUsers()

	for _, conn := range []*domain.Connection{connA, connB} {
		pushes := drainPushes(t, conn)
		assert.Len(t, pushes, 1)
		assert.Equal(t, domain.EventOnlineUsers, pushes[0].Event)

		var online []string
		assert.NoError(t, json.Unmarshal(pushes[0].Data, &online))
		assert.ElementsMatch(t, []string{"user-a", "user-b"}, online)
	}
}
