package services

import (
	"testing"

	"sudoku-arena/models"
)

func TestRegisterAndSend(t *testing.T) {
	reg := NewRegistry(NewMatchmakingQueue(), 0)
	h := reg.TryRegister(1, "alice", 1200)
	if h == nil {
		t.Fatal("registration failed")
	}
	if reg.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", reg.Count())
	}

	reg.Send(1, models.NewPong())
	select {
	case msg := <-h.Outbound():
		if _, ok := msg.(models.Pong); !ok {
			t.Errorf("got %T, want Pong", msg)
		}
	default:
		t.Fatal("no message queued")
	}

	// Sending to an absent user must not panic or block.
	reg.Send(99, models.NewPong())
}

func TestRegisterReplacesExisting(t *testing.T) {
	reg := NewRegistry(NewMatchmakingQueue(), 0)
	old := reg.TryRegister(1, "alice", 1200)
	fresh := reg.TryRegister(1, "alice", 1200)
	if fresh == nil || fresh == old {
		t.Fatal("reconnect should mint a fresh handle")
	}
	if reg.Count() != 1 {
		t.Errorf("Count() = %d, want 1 after replacement", reg.Count())
	}
	if _, open := <-old.Outbound(); open {
		t.Error("replaced handle's outbound should be closed")
	}
}

func TestCapacity(t *testing.T) {
	reg := NewRegistry(NewMatchmakingQueue(), 0)
	for i := 1; i <= MaxConnections; i++ {
		if reg.TryRegister(uint(i), "p", 1200) == nil {
			t.Fatalf("registration %d rejected below capacity", i)
		}
	}
	if reg.TryRegister(uint(MaxConnections+1), "late", 1200) != nil {
		t.Error("registration above capacity should be rejected")
	}
	// An existing user reconnecting at capacity still gets in.
	if reg.TryRegister(1, "p", 1200) == nil {
		t.Error("reconnect at capacity should succeed")
	}
}

func TestUnregisterStripsQueue(t *testing.T) {
	queue := NewMatchmakingQueue()
	reg := NewRegistry(queue, 0)
	h := reg.TryRegister(1, "alice", 1200)
	queue.EnqueueOrMatch(1, 1200, models.ModeRace, models.DifficultyEasy)

	reg.Unregister(h)
	if reg.Connected(1) {
		t.Error("user still connected after Unregister")
	}
	if queue.Waiting() != 0 {
		t.Errorf("queue has %d entries after Unregister, want 0", queue.Waiting())
	}
}

func TestUnregisterStaleHandle(t *testing.T) {
	reg := NewRegistry(NewMatchmakingQueue(), 0)
	old := reg.TryRegister(1, "alice", 1200)
	fresh := reg.TryRegister(1, "alice", 1200)

	// The old connection's teardown must not evict the new one.
	reg.Unregister(old)
	if reg.Get(1) != fresh {
		t.Error("stale Unregister removed the live handle")
	}
}

func TestAssociateRoom(t *testing.T) {
	reg := NewRegistry(NewMatchmakingQueue(), 0)
	h := reg.TryRegister(1, "alice", 1200)
	reg.AssociateRoom(1, "ABC123")
	if h.RoomCode() != "ABC123" {
		t.Errorf("RoomCode() = %q, want ABC123", h.RoomCode())
	}
}
