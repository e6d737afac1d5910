package domain

import (
	rtdomain "wayfare/internal/realtime/domain"
)

// Thread one peer's conversation as held on the client, oldest first
type Thread struct {
	PeerID   string
	Messages []rtdomain.MessagePush
}

// Snapshot a copy of the full client view, safe to read without locks
type Snapshot struct {
	OnlineUsers   []string
	Threads       map[string]Thread
	UnreadCounts  map[string]int
	Notifications []rtdomain.NewNotificationEvent
}

// UnreadNotificationCount derived count, never stored
func (s *Snapshot) UnreadNotificationCount() int {
	count := 0
	for _, n := range s.Notifications {
		if !n.Read {
			count++
		}
	}
	return count
}
