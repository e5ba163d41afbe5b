package services

import (
	"sync"

	"sudoku-arena/models"
)

// MaxConnections caps the number of simultaneously registered players.
const MaxConnections = 100

// outboundBuffer is the per-connection send queue depth. A player whose
// socket cannot drain fast enough has messages dropped rather than
// blocking the room.
const outboundBuffer = 64

// ConnectionHandle is the registry's view of one live websocket.
type ConnectionHandle struct {
	UserID   uint
	Username string
	Rating   int

	mu       sync.Mutex
	roomCode string
	outbound chan models.ServerMessage
	closed   bool
}

// Outbound returns the channel the socket writer drains.
func (h *ConnectionHandle) Outbound() <-chan models.ServerMessage {
	return h.outbound
}

// RoomCode returns the room the player is currently associated with,
// or "" when idle.
func (h *ConnectionHandle) RoomCode() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.roomCode
}

func (h *ConnectionHandle) setRoomCode(code string) {
	h.mu.Lock()
	h.roomCode = code
	h.mu.Unlock()
}

func (h *ConnectionHandle) send(msg models.ServerMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	select {
	case h.outbound <- msg:
	default:
	}
}

func (h *ConnectionHandle) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.outbound)
}

// Registry tracks every authenticated connection by user ID.
type Registry struct {
	mu       sync.RWMutex
	conns    map[uint]*ConnectionHandle
	queue    *MatchmakingQueue
	capacity int
}

// NewRegistry builds a registry holding at most capacity connections;
// capacity <= 0 falls back to MaxConnections.
func NewRegistry(queue *MatchmakingQueue, capacity int) *Registry {
	if capacity <= 0 {
		capacity = MaxConnections
	}
	return &Registry{
		conns:    make(map[uint]*ConnectionHandle),
		queue:    queue,
		capacity: capacity,
	}
}

// TryRegister adds the player, replacing any previous connection for the
// same user. Returns nil when the server is at capacity.
func (r *Registry) TryRegister(userID uint, username string, rating int) *ConnectionHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.conns[userID]; ok {
		old.close()
		delete(r.conns, userID)
	}
	if len(r.conns) >= r.capacity {
		return nil
	}
	handle := &ConnectionHandle{
		UserID:   userID,
		Username: username,
		Rating:   rating,
		outbound: make(chan models.ServerMessage, outboundBuffer),
	}
	r.conns[userID] = handle
	return handle
}

// Unregister removes the handle if it is still the current connection
// for its user, and clears any matchmaking entries.
func (r *Registry) Unregister(handle *ConnectionHandle) {
	r.mu.Lock()
	if current, ok := r.conns[handle.UserID]; ok && current == handle {
		delete(r.conns, handle.UserID)
	}
	r.mu.Unlock()
	handle.close()
	if r.queue != nil {
		r.queue.Remove(handle.UserID)
	}
}

// Get returns the live handle for a user, or nil.
func (r *Registry) Get(userID uint) *ConnectionHandle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conns[userID]
}

// Send delivers a message to a user if they are connected. Messages to
// absent users are silently dropped.
func (r *Registry) Send(userID uint, msg models.ServerMessage) {
	if h := r.Get(userID); h != nil {
		h.send(msg)
	}
}

// AssociateRoom records which room a connected player is in.
func (r *Registry) AssociateRoom(userID uint, code string) {
	if h := r.Get(userID); h != nil {
		h.setRoomCode(code)
	}
}

// Connected reports whether the user currently has a live connection.
func (r *Registry) Connected(userID uint) bool {
	return r.Get(userID) != nil
}

// Full reports whether a brand-new connection would be rejected.
func (r *Registry) Full() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns) >= r.capacity
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// UpdateRating refreshes the cached rating on a live handle.
func (r *Registry) UpdateRating(userID uint, rating int) {
	if h := r.Get(userID); h != nil {
		h.mu.Lock()
		h.Rating = rating
		h.mu.Unlock()
	}
}
