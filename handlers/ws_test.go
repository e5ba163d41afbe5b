package handlers

import (
	"testing"

	"sudoku-arena/models"
	"sudoku-arena/services"
	"sudoku-arena/workers"
)

// A reconnect replaces the registry handle before the old read loop
// unwinds. Teardown of the stale handle must leave the new connection
// and its matchmaking entry alone.
func TestTeardownSkipsReplacedHandle(t *testing.T) {
	queue := services.NewMatchmakingQueue()
	reg := services.NewRegistry(queue, 0)
	rooms := services.NewRoomManager(reg, nil)
	h := NewWSHandler(reg, queue, rooms, workers.NewReconnectSupervisor(rooms))

	old := reg.TryRegister(1, "alice", 1200)
	replacement := reg.TryRegister(1, "alice", 1200)
	queue.EnqueueOrMatch(1, 1200, models.ModeRace, models.DifficultyEasy)

	h.teardown(old)
	if reg.Get(1) != replacement {
		t.Fatal("stale teardown must not unregister the current connection")
	}
	if queue.Waiting() != 1 {
		t.Errorf("queue entries = %d, want 1", queue.Waiting())
	}

	h.teardown(replacement)
	if reg.Get(1) != nil {
		t.Error("teardown of the current handle should unregister it")
	}
	if queue.Waiting() != 0 {
		t.Errorf("queue entries after teardown = %d, want 0", queue.Waiting())
	}
}
