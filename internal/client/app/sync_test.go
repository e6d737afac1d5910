package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	rtdomain "wayfare/internal/realtime/domain"
	"wayfare/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Log = logger.Initialize("client_test", filepath.Join(os.TempDir(), "wayfare_test_logs"))
	os.Exit(m.Run())
}

func incomingPush(id, senderID string) rtdomain.MessagePush {
	return rtdomain.MessagePush{
		NewMessageEvent: rtdomain.NewMessageEvent{
			ID:          id,
			SenderID:    senderID,
			ReceiverID:  "me",
			MessageType: rtdomain.MessageTypeText,
			Message:     "hello",
			CreatedAt:   time.Now(),
		},
		IsReceiver: true,
	}
}

func echoedPush(id, receiverID string) rtdomain.MessagePush {
	return rtdomain.MessagePush{
		NewMessageEvent: rtdomain.NewMessageEvent{
			ID:          id,
			SenderID:    "me",
			ReceiverID:  receiverID,
			MessageType: rtdomain.MessageTypeText,
			Message:     "hi back",
			CreatedAt:   time.Now(),
		},
		IsReceiver: false,
	}
}

func notification(id string, read bool) rtdomain.NewNotificationEvent {
	return rtdomain.NewNotificationEvent{
		ID:          id,
		Type:        rtdomain.NotificationLike,
		Message:     "bob liked your post",
		Sender:      rtdomain.NotificationSender{ID: "bob", Username: "bob"},
		RecipientID: "me",
		Read:        read,
		CreatedAt:   time.Now(),
	}
}

func TestApplyOnlineSnapshot_LatestWins(t *testing.T) {
	s := NewSyncState("me")

	s.ApplyOnlineSnapshot([]string{"alice", "bob"})
	assert.Equal(t, []string{"alice", "bob"}, s.OnlineUsers())

	s.ApplyOnlineSnapshot([]string{"carol"})
	assert.Equal(t, []string{"carol"}, s.OnlineUsers())

	s.ApplyOnlineSnapshot(nil)
	assert.Empty(t, s.OnlineUsers())
}

func TestApplyMessage_ThreadsAndUnread(t *testing.T) {
	s := NewSyncState("me")

	assert.NoError(t, s.ApplyMessage(incomingPush("m1", "alice")))
	assert.NoError(t, s.ApplyMessage(incomingPush("m2", "alice")))
	assert.NoError(t, s.ApplyMessage(echoedPush("m3", "alice")))
	assert.NoError(t, s.ApplyMessage(incomingPush("m4", "bob")))

	// echoed own send lands in the thread but moves no counter
	assert.Len(t, s.Thread("alice"), 3)
	assert.Equal(t, 2, s.UnreadCount("alice"))
	assert.Equal(t, 1, s.UnreadCount("bob"))
	assert.Equal(t, 0, s.UnreadCount("stranger"))
}

func TestApplyMessage_SelfSenderNeverCountsUnread(t *testing.T) {
	s := NewSyncState("me")

	// a push claiming the local user as sender must not move a counter,
	// whatever the receiver flag on the wire says
	selfPush := incomingPush("m1", "me")
	assert.True(t, selfPush.IsReceiver)

	assert.NoError(t, s.ApplyMessage(selfPush))
	assert.Equal(t, 0, s.UnreadCount("me"))
	assert.Len(t, s.Thread("me"), 1)

	assert.NoError(t, s.ApplyMessage(incomingPush("m2", "alice")))
	assert.Equal(t, 1, s.UnreadCount("alice"))
}

func TestApplyMessage_DuplicateIgnored(t *testing.T) {
	s := NewSyncState("me")

	push := incomingPush("m1", "alice")
	assert.NoError(t, s.ApplyMessage(push))
	assert.NoError(t, s.ApplyMessage(push))
	assert.NoError(t, s.ApplyMessage(push))

	assert.Len(t, s.Thread("alice"), 1)
	assert.Equal(t, 1, s.UnreadCount("alice"))
}

func TestApplyMessage_InvalidRejected(t *testing.T) {
	s := NewSyncState("me")

	bad := incomingPush("m1", "alice")
	bad.Message = ""

	assert.Error(t, s.ApplyMessage(bad))
	assert.Empty(t, s.Thread("alice"))
}

func TestMarkThreadRead(t *testing.T) {
	s := NewSyncState("me")

	assert.NoError(t, s.ApplyMessage(incomingPush("m1", "alice")))
	assert.Equal(t, 1, s.UnreadCount("alice"))

	s.MarkThreadRead("alice")
	assert.Equal(t, 0, s.UnreadCount("alice"))

	// marking an unknown peer is a no-op
	s.MarkThreadRead("stranger")
	assert.Equal(t, 0, s.UnreadCount("stranger"))

	// a new message counts again
	assert.NoError(t, s.ApplyMessage(incomingPush("m2", "alice")))
	assert.Equal(t, 1, s.UnreadCount("alice"))
}

func TestReplaceThread_ResetsDedupe(t *testing.T) {
	s := NewSyncState("me")

	assert.NoError(t, s.ApplyMessage(incomingPush("m1", "alice")))

	history := []rtdomain.MessagePush{incomingPush("m1", "alice"), incomingPush("m2", "alice")}
	s.ReplaceThread("alice", history)
	assert.Len(t, s.Thread("alice"), 2)

	// ids present in the replaced thread stay deduped
	assert.NoError(t, s.ApplyMessage(incomingPush("m2", "alice")))
	assert.Len(t, s.Thread("alice"), 2)

	assert.NoError(t, s.ApplyMessage(incomingPush("m3", "alice")))
	assert.Len(t, s.Thread("alice"), 3)
}

func TestNotifications_FeedAndUnread(t *testing.T) {
	s := NewSyncState("me")

	assert.NoError(t, s.ApplyNotification(notification("n1", false)))
	assert.NoError(t, s.ApplyNotification(notification("n2", false)))
	assert.NoError(t, s.ApplyNotification(notification("n1", false)))

	feed := s.Notifications()
	assert.Len(t, feed, 2)
	assert.Equal(t, "n2", feed[0].ID, "newest first")
	assert.Equal(t, 2, s.UnreadNotificationCount())

	s.MarkNotificationRead("n1")
	assert.Equal(t, 1, s.UnreadNotificationCount())

	s.MarkAllNotificationsRead()
	assert.Equal(t, 0, s.UnreadNotificationCount())
}

func TestNotifications_InvalidRejected(t *testing.T) {
	s := NewSyncState("me")

	bad := notification("n1", false)
	bad.Type = "poke"
	assert.Error(t, s.ApplyNotification(bad))
	assert.Empty(t, s.Notifications())
}

func TestReplaceNotifications(t *testing.T) {
	s := NewSyncState("me")

	assert.NoError(t, s.ApplyNotification(notification("n1", false)))

	s.ReplaceNotifications([]rtdomain.NewNotificationEvent{
		notification("n5", true),
		notification("n4", false),
	})

	feed := s.Notifications()
	assert.Len(t, feed, 2)
	assert.Equal(t, 1, s.UnreadNotificationCount())

	// replaced ids stay deduped, new ones apply
	assert.NoError(t, s.ApplyNotification(notification("n4", false)))
	assert.Len(t, s.Notifications(), 2)
	assert.NoError(t, s.ApplyNotification(notification("n6", false)))
	assert.Len(t, s.Notifications(), 3)
}

func TestView_IsACopy(t *testing.T) {
	s := NewSyncState("me")

	assert.NoError(t, s.ApplyMessage(incomingPush("m1", "alice")))
	assert.NoError(t, s.ApplyNotification(notification("n1", false)))
	s.ApplyOnlineSnapshot([]string{"alice"})

	view := s.View()
	view.OnlineUsers[0] = "mutated"
	view.UnreadCounts["alice"] = 99
	delete(view.Threads, "alice")

	assert.Equal(t, []string{"alice"}, s.OnlineUsers())
	assert.Equal(t, 1, s.UnreadCount("alice"))
	assert.Len(t, s.Thread("alice"), 1)
	assert.Equal(t, 1, view.UnreadNotificationCount())
}
