package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	rtdomain "wayfare/internal/realtime/domain"
	"wayfare/pkg/logger"
	"wayfare/pkg/middlewares"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	handshakeTimeout = 10 * time.Second
	defaultBaseDelay = time.Second
	defaultRetries   = 5
)

// ErrNotConnected no live connection to write on
var ErrNotConnected = errors.New("not connected")

// ConnManager owns the client's single live connection. A replaced
// connection is closed before the new dial even starts, the session never
// holds two at once. After any reconnect the view may have missed pushes,
// so the onStale callback tells the owner to rehydrate over HTTP.
type ConnManager struct {
	endpoint string
	token    string
	state    *SyncState

	dialer     *websocket.Dialer
	baseDelay  time.Duration
	maxRetries int
	onStale    func()

	mu      sync.Mutex
	conn    *websocket.Conn
	cancel  context.CancelFunc
	closing bool
}

// NewConnManager create ConnManager for one session
func NewConnManager(endpoint, token string, state *SyncState, onStale func()) *ConnManager {
	return &ConnManager{
		endpoint: endpoint,
		token:    token,
		state:    state,
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
		},
		baseDelay:  defaultBaseDelay,
		maxRetries: defaultRetries,
		onStale:    onStale,
	}
}

func (m *ConnManager) dialURL() string {
	return m.endpoint + "?" + middlewares.QueryToken + "=" + m.token
}

// Connect open the connection and start consuming pushes. An existing
// connection is closed first.
func (m *ConnManager) Connect(ctx context.Context) error {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.closing = false
	m.mu.Unlock()

	return m.dial(runCtx)
}

func (m *ConnManager) dial(runCtx context.Context) error {
	// the session holds one connection at a time, the old socket is fully
	// closed before the handshake for its replacement starts
	m.mu.Lock()
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	m.mu.Unlock()

	conn, _, err := m.dialer.DialContext(runCtx, m.dialURL(), nil)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()

	go m.readPump(runCtx, conn)
	return nil
}

// RequestOnlineUsers ask the server to replay the online snapshot
func (m *ConnManager) RequestOnlineUsers() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return ErrNotConnected
	}
	payload, err := json.Marshal(rtdomain.WSRequest{Action: string(rtdomain.ActionOnlineUsers)})
	if err != nil {
		return err
	}
	return m.conn.WriteMessage(websocket.TextMessage, payload)
}

// Close shut the connection down for good, no reconnect follows
func (m *ConnManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closing = true
	if m.cancel != nil {
		m.cancel()
	}
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
}

func (m *ConnManager) readPump(runCtx context.Context, conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			m.mu.Lock()
			deliberate := m.closing
			m.mu.Unlock()
			if deliberate || runCtx.Err() != nil {
				return
			}
			logger.Log.Warn("connection lost", zap.Error(err))
			m.reconnect(runCtx)
			return
		}
		if err := m.handleFrame(payload); err != nil {
			logger.Log.Warn("push dropped", zap.Error(err))
		}
	}
}

// reconnect dial again with exponential backoff. Events pushed while the
// connection was down are gone, so a successful reconnect reports the view
// as stale.
func (m *ConnManager) reconnect(runCtx context.Context) {
	delay := m.baseDelay
	for attempt := 1; attempt <= m.maxRetries; attempt++ {
		select {
		case <-runCtx.Done():
			return
		case <-time.After(delay):
		}

		if err := m.dial(runCtx); err != nil {
			logger.Log.Warn("reconnect failed",
				zap.Int("attempt", attempt), zap.Error(err))
			delay *= 2
			continue
		}

		logger.Log.Info("reconnected", zap.Int("attempt", attempt))
		if m.onStale != nil {
			m.onStale()
		}
		return
	}
	logger.Log.Error("gave up reconnecting", zap.Int("attempts", m.maxRetries))
	if m.onStale != nil {
		m.onStale()
	}
}

func (m *ConnManager) handleFrame(payload []byte) error {
	env, err := rtdomain.ParseEnvelope(payload)
	if err != nil {
		return err
	}

	switch env.Event {
	case rtdomain.EventOnlineUsers:
		var userIDs []string
		if err := json.Unmarshal(env.Data, &userIDs); err != nil {
			return err
		}
		m.state.ApplyOnlineSnapshot(userIDs)
		return nil

	case rtdomain.EventNewMessage:
		var push rtdomain.MessagePush
		if err := json.Unmarshal(env.Data, &push); err != nil {
			return err
		}
		return m.state.ApplyMessage(push)

	case rtdomain.EventNewNotification:
		var ev rtdomain.NewNotificationEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return err
		}
		return m.state.ApplyNotification(ev)
	}

	return rtdomain.ErrUnknownEvent
}
