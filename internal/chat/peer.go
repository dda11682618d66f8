package chat

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Peer wraps an accepted websocket connection. Reads stay on the owning
// session goroutine; writes are serialized because the registry hands
// the same peer to other sessions for fan-out and gorilla connections
// do not allow concurrent writers.
type Peer struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewPeer(conn *websocket.Conn) *Peer {
	return &Peer{conn: conn}
}

// SendJSON writes a single JSON frame. Safe for concurrent use.
func (p *Peer) SendJSON(v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn.WriteJSON(v)
}

// Read blocks until the next inbound frame or a transport error.
func (p *Peer) Read() ([]byte, error) {
	_, data, err := p.conn.ReadMessage()
	return data, err
}

// CloseWithReason sends a close control frame with the given code and
// reason, then tears the connection down.
func (p *Peer) CloseWithReason(code int, reason string) {
	p.mu.Lock()
	_ = p.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(time.Second),
	)
	p.mu.Unlock()
	_ = p.conn.Close()
}

func (p *Peer) Close() error {
	return p.conn.Close()
}
