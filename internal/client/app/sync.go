package app

import (
	"sync"

	"wayfare/internal/client/domain"
	rtdomain "wayfare/internal/realtime/domain"
)

// SyncState holds the client's live view of the platform. Every reducer is
// idempotent so a replayed push cannot corrupt the view.
type SyncState struct {
	mu sync.RWMutex

	localUserID string

	onlineUsers []string
	threads     map[string][]rtdomain.MessagePush
	seen        map[string]map[string]struct{}
	unread      map[string]int

	notifications []rtdomain.NewNotificationEvent
	notifSeen     map[string]struct{}
}

// NewSyncState create SyncState for one logged-in user
func NewSyncState(localUserID string) *SyncState {
	return &SyncState{
		localUserID: localUserID,
		threads:     make(map[string][]rtdomain.MessagePush),
		seen:        make(map[string]map[string]struct{}),
		unread:      make(map[string]int),
		notifSeen:   make(map[string]struct{}),
	}
}

// ApplyOnlineSnapshot replace the whole online list. Snapshots are not
// merged, the latest one wins.
func (s *SyncState) ApplyOnlineSnapshot(userIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onlineUsers = append([]string(nil), userIDs...)
}

// ApplyMessage append one push to its peer thread. A push already seen by id
// is ignored. The unread counter moves only for messages another user sent,
// judged by the sender id, never by flags the wire happens to carry.
func (s *SyncState) ApplyMessage(push rtdomain.MessagePush) error {
	if err := push.Validate(); err != nil {
		return err
	}

	peerID := push.ReceiverID
	if push.IsReceiver {
		peerID = push.SenderID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[peerID]; !ok {
		s.seen[peerID] = make(map[string]struct{})
	}
	if _, dup := s.seen[peerID][push.ID]; dup {
		return nil
	}
	s.seen[peerID][push.ID] = struct{}{}
	s.threads[peerID] = append(s.threads[peerID], push)

	if push.IsReceiver && push.SenderID != s.localUserID {
		s.unread[peerID]++
	}
	return nil
}

// MarkThreadRead clear the unread counter of one peer. The entry is removed,
// not zeroed, so absent and read threads look the same.
func (s *SyncState) MarkThreadRead(peerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.unread, peerID)
}

// ReplaceThread overwrite one peer thread from a history fetch
func (s *SyncState) ReplaceThread(peerID string, pushes []rtdomain.MessagePush) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.threads[peerID] = append([]rtdomain.MessagePush(nil), pushes...)
	s.seen[peerID] = make(map[string]struct{})
	for _, p := range pushes {
		s.seen[peerID][p.ID] = struct{}{}
	}
}

// ApplyNotification prepend one notification, newest first. A duplicate id
// is ignored.
func (s *SyncState) ApplyNotification(ev rtdomain.NewNotificationEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.notifSeen[ev.ID]; dup {
		return nil
	}
	s.notifSeen[ev.ID] = struct{}{}
	s.notifications = append([]rtdomain.NewNotificationEvent{ev}, s.notifications...)
	return nil
}

// MarkNotificationRead flip one entry's read flag
func (s *SyncState) MarkNotificationRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			return
		}
	}
}

// MarkAllNotificationsRead flip every entry
func (s *SyncState) MarkAllNotificationsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		s.notifications[i].Read = true
	}
}

// ReplaceNotifications overwrite the feed from a rehydration fetch
func (s *SyncState) ReplaceNotifications(list []rtdomain.NewNotificationEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = append([]rtdomain.NewNotificationEvent(nil), list...)
	s.notifSeen = make(map[string]struct{})
	for _, n := range list {
		s.notifSeen[n.ID] = struct{}{}
	}
}

// OnlineUsers copy of the current online list
func (s *SyncState) OnlineUsers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.onlineUsers...)
}

// Thread copy of one peer thread, oldest first
func (s *SyncState) Thread(peerID string) []rtdomain.MessagePush {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]rtdomain.MessagePush(nil), s.threads[peerID]...)
}

// UnreadCount unread messages from one peer
func (s *SyncState) UnreadCount(peerID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread[peerID]
}

// Notifications copy of the feed, newest first
func (s *SyncState) Notifications() []rtdomain.NewNotificationEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]rtdomain.NewNotificationEvent(nil), s.notifications...)
}

// UnreadNotificationCount derived from the feed, never stored
func (s *SyncState) UnreadNotificationCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// View one consistent copy of the whole client state
func (s *SyncState) View() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	threads := make(map[string]domain.Thread, len(s.threads))
	for peerID, msgs := range s.threads {
		threads[peerID] = domain.Thread{
			PeerID:   peerID,
			Messages: append([]rtdomain.MessagePush(nil), msgs...),
		}
	}
	unread := make(map[string]int, len(s.unread))
	for peerID, n := range s.unread {
		unread[peerID] = n
	}
	return domain.Snapshot{
		OnlineUsers:   append([]string(nil), s.onlineUsers...),
		Threads:       threads,
		UnreadCounts:  unread,
		Notifications: append([]rtdomain.NewNotificationEvent(nil), s.notifications...),
	}
}
