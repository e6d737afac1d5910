package app

import (
	"wayfare/internal/realtime/domain"
	"wayfare/pkg/logger"

	"go.uber.org/zap"
)

// EventDispatcher fans committed domain events out to live connections.
// Write handlers call it synchronously right after their persistence commit,
// so per (sender, receiver) pair the push order matches the commit order.
// Delivery is fire-and-forget: an empty target set or a full connection
// queue drops the push, the store stays the system of record and the client
// recovers through the REST reads on its next load.
type EventDispatcher struct {
	registry *PresenceRegistry
}

// NewEventDispatcher create an EventDispatcher over the given registry
func NewEventDispatcher(registry *PresenceRegistry) *EventDispatcher {
	return &EventDispatcher{registry: registry}
}

// DispatchMessage push the message to every connection of the receiver and
// every connection of the sender, so the sender's other open tabs see the
// echoed send. Each push carries isReceiver so the client can tell the two
// apart. No other connection receives it.
func (d *EventDispatcher) DispatchMessage(ev domain.NewMessageEvent) {
	d.pushMessage(ev, d.registry.ActiveConnectionsFor(ev.ReceiverID), true)
	d.pushMessage(ev, d.registry.ActiveConnectionsFor(ev.SenderID), false)
}

func (d *EventDispatcher) pushMessage(ev domain.NewMessageEvent, conns []*domain.Connection, isReceiver bool) {
	if len(conns) == 0 {
		return
	}
	payload, err := domain.NewEnvelope(domain.EventNewMessage, domain.MessagePush{
		NewMessageEvent: ev,
		IsReceiver:      isReceiver,
	})
	if err != nil {
		logger.Log.Errorf("marshal message push:", err)
		return
	}
	for _, c := range conns {
		if !c.Push(payload) {
			logger.Log.Warn("message push dropped, connection queue full",
				zap.String("userID", c.UserID), zap.String("connID", string(c.ID)))
		}
	}
}

// DispatchNotification push the notification to the recipient's connections
// only, the sender never receives a push for their own action
func (d *EventDispatcher) DispatchNotification(ev domain.NewNotificationEvent) {
	conns := d.registry.ActiveConnectionsFor(ev.RecipientID)
	if len(conns) == 0 {
		return
	}
	payload, err := domain.NewEnvelope(domain.EventNewNotification, ev)
	if err != nil {
		logger.Log.Errorf("marshal notification push:", err)
		return
	}
	for _, c := range conns {
		if !c.Push(payload) {
			logger.Log.Warn("notification push dropped, connection queue full",
				zap.String("userID", c.UserID), zap.String("connID", string(c.ID)))
		}
	}
}

// BroadcastOnlineUsers push the full online snapshot to every live
// connection, called when a user's presence flips on or off
func (d *EventDispatcher) BroadcastOnlineUsers() {
	payload, err := domain.NewEnvelope(domain.EventOnlineUsers, d.registry.OnlineUserIDs())
	if err != nil {
		logger.Log.Errorf("marshal online snapshot:", err)
		return
	}
	for _, c := range d.registry.AllConnections() {
		if !c.Push(payload) {
			logger.Log.Warn("online snapshot dropped, connection queue full",
				zap.String("userID", c.UserID), zap.String("connID", string(c.ID)))
		}
	}
}

// SendOnlineUsers push the snapshot to a single connection, used right after
// registration and when a client replays the snapshot request
func (d *EventDispatcher) SendOnlineUsers(conn *domain.Connection) {
	payload, err := domain.NewEnvelope(domain.EventOnlineUsers, d.registry.OnlineUserIDs())
	if err != nil {
		logger.Log.Errorf("marshal online snapshot:", err)
		return
	}
	if !conn.Push(payload) {
		logger.Log.Warn("online snapshot dropped, connection queue full",
			zap.String("userID", conn.UserID), zap.String("connID", string(conn.ID)))
	}
}
