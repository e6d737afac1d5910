package app

import (
	"context"
	"encoding/json"
	"time"

	"wayfare/internal/realtime/domain"
	"wayfare/pkg/logger"
	"wayfare/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const pingPeriod = 10 * time.Minute

// RealtimeWebsocketHandler owns the lifecycle of live connections: handshake,
// registration, the writer pump and unconditional deregistration on close
type RealtimeWebsocketHandler struct {
	registry   *PresenceRegistry
	dispatcher *EventDispatcher
	sendBuffer int
}

// NewRealtimeWebsocketHandler create RealtimeWebsocketHandler
func NewRealtimeWebsocketHandler(
	registry *PresenceRegistry,
	dispatcher *EventDispatcher,
	sendBuffer int,
) *RealtimeWebsocketHandler {
	return &RealtimeWebsocketHandler{
		registry:   registry,
		dispatcher: dispatcher,
		sendBuffer: sendBuffer,
	}
}

// HandleConnection entry point of one live connection. The JWT middleware
// verified the session identity before the upgrade; a connection without it
// is refused here and never enters the registry.
func (h *RealtimeWebsocketHandler) HandleConnection(conn *websocket.Conn) {
	userID, ok := conn.Locals(middlewares.TokenUserID).(string)
	if !ok || userID == "" {
		logger.Log.Warn("websocket handshake without verified identity, refused")
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthenticated"))
		conn.Close()
		return
	}

	live := domain.NewConnection(userID, h.sendBuffer)
	ctxClose, cancel := context.WithCancel(context.Background())

	// Registration happens on the transition into Open. Deregistration is
	// deferred so it runs on every close path, a clean close and an abrupt
	// network drop are treated identically.
	first := h.registry.Register(live)
	logger.Log.Info("websocket open",
		zap.String("userID", userID), zap.String("connID", string(live.ID)),
		zap.Bool("firstConnection", first))

	defer func() {
		_, last := h.registry.Deregister(live.ID)
		cancel()
		conn.Close()
		if last {
			h.dispatcher.BroadcastOnlineUsers()
		}
		logger.Log.Info("websocket close",
			zap.String("userID", userID), zap.String("connID", string(live.ID)))
	}()

	// fiber handles close frames in the read loop, the handler only logs
	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("websocket closed:", conn.RemoteAddr())
		return nil
	})

	conn.SetPongHandler(func(appData string) error {
		return nil
	})

	// writer pump, the only goroutine writing to this socket
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case payload := <-live.Send:
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					logger.Log.Errorf("websocket write error:", err)
					return
				}
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
					logger.Log.Errorf("ping error:", err)
					return
				}
			case <-ctxClose.Done():
				return
			}
		}
	}()

	if first {
		h.dispatcher.BroadcastOnlineUsers()
	} else {
		h.dispatcher.SendOnlineUsers(live)
	}

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Infof("connection closed:", err)
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		h.execRequest(live, message)
	}
}

// execRequest serve the small client request surface of the live connection.
// Malformed frames are dropped and logged, never fatal to the connection.
func (h *RealtimeWebsocketHandler) execRequest(live *domain.Connection, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		logger.Log.Warn("malformed websocket request dropped",
			zap.String("userID", live.UserID), zap.Error(err))
		return
	}

	switch domain.Action(req.Action) {
	case domain.ActionOnlineUsers:
		h.dispatcher.SendOnlineUsers(live)
	default:
		logger.Log.Warn("unknown websocket action dropped",
			zap.String("userID", live.UserID), zap.String("action", req.Action))
	}
}
