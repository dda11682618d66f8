package chat

import (
	"errors"
	"sync"
)

// ErrAlreadyConnected is returned when a username already has a live
// connection. The new attempt is refused, the old session stays.
var ErrAlreadyConnected = errors.New("user already connected")

// Registry maps usernames to their single live connection. It is owned
// by the relay and passed by handle to every session; registration is
// atomic so two concurrent accepts for one username cannot both win.
type Registry struct {
	mu    sync.RWMutex
	peers map[string]*Peer
}

func NewRegistry() *Registry {
	return &Registry{peers: make(map[string]*Peer)}
}

// Register claims the username for the given peer. At most one live
// connection per username.
func (r *Registry) Register(username string, p *Peer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.peers[username]; exists {
		return ErrAlreadyConnected
	}
	r.peers[username] = p
	return nil
}

// Unregister removes the username's entry if it still belongs to p.
// Removing an absent or superseded entry is a no-op, so a rejected
// duplicate can never evict the live session.
func (r *Registry) Unregister(username string, p *Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.peers[username]; ok && current == p {
		delete(r.peers, username)
	}
}

// Lookup returns the live connection for username, if any.
func (r *Registry) Lookup(username string) (*Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.peers[username]
	return p, ok
}

// Online reports whether username currently has a live connection.
func (r *Registry) Online(username string) bool {
	_, ok := r.Lookup(username)
	return ok
}
