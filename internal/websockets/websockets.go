package websockets

import (
	"sync"

	"inkwell/internal/events"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// Manager pushes leaderboard events to connected websocket clients. Clients
// are read-only listeners; inbound frames are drained and dropped.
type Manager struct {
	clients map[string]*client
	mutex   sync.RWMutex
	log     logger.Logger
}

type client struct {
	conn *websocket.Conn
	send chan events.Event
}

func New(eventBus *events.EventBus) *Manager {
	m := &Manager{
		clients: make(map[string]*client),
		log:     logger.New("websockets"),
	}

	eventBus.Subscribe(events.LEADERBOARD_CHANNEL, func(event events.Event) error {
		m.Broadcast(event)
		return nil
	})

	return m
}

// HandleWebSocket owns one connection for its lifetime. It returns when the
// peer disconnects.
func (m *Manager) HandleWebSocket(conn *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	id := uuid.New().String()
	cl := &client{
		conn: conn,
		send: make(chan events.Event, 16),
	}

	m.mutex.Lock()
	m.clients[id] = cl
	m.mutex.Unlock()
	log.Info("client connected", "clientID", id)

	defer func() {
		m.mutex.Lock()
		delete(m.clients, id)
		m.mutex.Unlock()
		close(cl.send)
		log.Info("client disconnected", "clientID", id)
	}()

	go func() {
		for event := range cl.send {
			if err := conn.WriteJSON(event); err != nil {
				log.Warn("failed to write event", "clientID", id, "error", err)
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (m *Manager) Broadcast(event events.Event) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for id, cl := range m.clients {
		select {
		case cl.send <- event:
		default:
			m.log.Warn("dropping event for slow client", "clientID", id)
		}
	}
}
