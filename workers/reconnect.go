// workers/reconnect.go
package workers

import (
	"log"
	"sync"
	"time"

	"sudoku-arena/services"
)

// reconnectGrace is how long a dropped player has to come back before
// their game is forfeited.
const reconnectGrace = 30 * time.Second

// ReconnectSupervisor arms a grace timer for every mid-game disconnect.
// If the player is back in the registry when the timer fires, nothing
// happens; otherwise the room forfeits them.
type ReconnectSupervisor struct {
	rooms *services.RoomManager

	mu     sync.Mutex
	timers map[uint]*time.Timer
}

func NewReconnectSupervisor(rooms *services.RoomManager) *ReconnectSupervisor {
	return &ReconnectSupervisor{
		rooms:  rooms,
		timers: make(map[uint]*time.Timer),
	}
}

// Watch starts the grace period for a player who just dropped out of
// the given room. A later disconnect restarts the clock.
func (s *ReconnectSupervisor) Watch(userID uint, roomCode string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[userID]; ok {
		t.Stop()
	}
	log.Printf("[Reconnect] watching user %d for room %s", userID, roomCode)
	s.timers[userID] = time.AfterFunc(reconnectGrace, func() {
		s.mu.Lock()
		delete(s.timers, userID)
		s.mu.Unlock()
		s.rooms.ForfeitAbsent(roomCode, userID)
	})
}

// Cancel stops the grace timer after a successful reconnect.
func (s *ReconnectSupervisor) Cancel(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[userID]; ok {
		t.Stop()
		delete(s.timers, userID)
	}
}
