package events

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

type EventType string

const (
	TypeConnection EventType = "connection"
	TypeUpdate     EventType = "update"
	TypeComplete   EventType = "complete"
	TypeError      EventType = "error"
)

// Event is one message on a client's progress stream. The JSON shape is the
// wire protocol; transports encode it as-is.
type Event struct {
	Type       EventType   `json:"type"`
	ClientID   string      `json:"clientId,omitempty"`
	Stage      string      `json:"stage,omitempty"`
	Message    string      `json:"message,omitempty"`
	Progress   int         `json:"progress,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	StatusCode int         `json:"statusCode,omitempty"`
}

// Terminal reports whether no further events may follow this one.
func (e Event) Terminal() bool {
	return e.Type == TypeComplete || e.Type == TypeError
}

// sessionBuffer bounds how far a slow consumer may fall behind before
// events are dropped.
const sessionBuffer = 64

// Session is one client's single-shot progress stream. It delivers at most
// one terminal event, after which the hub forgets the client ID.
type Session struct {
	id string
	ch chan Event
}

func (s *Session) ID() string { return s.id }

// Events is drained by a transport adapter; the channel closes after the
// terminal event or when the hub closes the session.
func (s *Session) Events() <-chan Event { return s.ch }

// Hub registers per-client progress sessions and routes published pipeline
// events to them. Publishing to an unknown or already-closed client ID is a
// logged no-op, never an error: in-flight upstream work finishing after a
// disconnect lands here.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]*Session)}
}

// Open registers a new session and queues the connection event carrying the
// fresh client ID as its first message.
func (h *Hub) Open() *Session {
	s := &Session{
		id: uuid.NewString(),
		ch: make(chan Event, sessionBuffer),
	}

	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()

	s.ch <- Event{Type: TypeConnection, ClientID: s.id}
	return s
}

// Active reports whether a session is currently open for clientID.
func (h *Hub) Active(clientID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.sessions[clientID]
	return ok
}

// PublishUpdate emits a non-terminal stage/progress update.
func (h *Hub) PublishUpdate(clientID, stage, message string, progress int) {
	h.publish(clientID, Event{
		Type:     TypeUpdate,
		Stage:    stage,
		Message:  message,
		Progress: progress,
	})
}

// PublishComplete emits the single terminal complete event and closes the
// session.
func (h *Hub) PublishComplete(clientID string, data interface{}) {
	h.publish(clientID, Event{
		Type:    TypeComplete,
		Stage:   "complete",
		Message: "Done",
		Data:    data,
	})
}

// PublishError emits the terminal error event and closes the session.
func (h *Hub) PublishError(clientID, message string, statusCode int) {
	h.publish(clientID, Event{
		Type:       TypeError,
		Stage:      "error",
		Message:    message,
		StatusCode: statusCode,
	})
}

// Close tears a session down without a terminal event (client disconnect).
func (h *Hub) Close(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[clientID]
	if !ok {
		return
	}
	delete(h.sessions, clientID)
	close(s.ch)
}

// publish delivers ev to clientID's session. Sends happen under h.mu so a
// concurrent Close cannot close the channel between the lookup and the send;
// every send is non-blocking, so the lock is never held across a wait. A
// terminal event that finds the buffer full is dropped like any other, but
// the channel still closes, so the drain loop ends either way.
func (h *Hub) publish(clientID string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.sessions[clientID]
	if !ok {
		log.Printf("events: publish %s to unknown client %s (dropped)", ev.Type, clientID)
		return
	}

	select {
	case s.ch <- ev:
	default:
		log.Printf("events: client %s buffer full, dropping %s/%s", clientID, ev.Type, ev.Stage)
	}

	if ev.Terminal() {
		delete(h.sessions, clientID)
		close(s.ch)
	}
}
