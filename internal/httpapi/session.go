package httpapi

import (
	"sync"

	"github.com/gorilla/websocket"
)

// wsSession adapts a *websocket.Conn to engine.Session. gorilla/websocket
// forbids concurrent writes to the same connection, so every write goes
// through mu.
type wsSession struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func newWSSession(conn *websocket.Conn) *wsSession {
	return &wsSession{conn: conn}
}

func (s *wsSession) Deliver(payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	return s.conn.WriteJSON(payload)
}

func (s *wsSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.conn.Close()
}

var errClosed = errSessionClosed{}

type errSessionClosed struct{}

func (errSessionClosed) Error() string { return "session closed" }
