package services

import (
	"testing"
	"time"

	"sudoku-arena/models"
)

func TestEnqueueThenMatch(t *testing.T) {
	q := NewMatchmakingQueue()

	if _, matched := q.EnqueueOrMatch(1, 1200, models.ModeRace, models.DifficultyMedium); matched {
		t.Fatal("first player should queue, not match")
	}
	opp, matched := q.EnqueueOrMatch(2, 1250, models.ModeRace, models.DifficultyMedium)
	if !matched || opp != 1 {
		t.Fatalf("second player: got (%d, %v), want (1, true)", opp, matched)
	}
	if q.Waiting() != 0 {
		t.Errorf("queue should be empty after a match, has %d", q.Waiting())
	}
}

func TestNoMatchAcrossBuckets(t *testing.T) {
	q := NewMatchmakingQueue()
	q.EnqueueOrMatch(1, 1200, models.ModeRace, models.DifficultyMedium)

	if _, matched := q.EnqueueOrMatch(2, 1200, models.ModeShared, models.DifficultyMedium); matched {
		t.Error("players in different modes should not match")
	}
	if _, matched := q.EnqueueOrMatch(3, 1200, models.ModeRace, models.DifficultyHard); matched {
		t.Error("players in different difficulties should not match")
	}
	if q.Waiting() != 3 {
		t.Errorf("Waiting() = %d, want 3", q.Waiting())
	}
}

func TestRatingGap(t *testing.T) {
	q := NewMatchmakingQueue()
	q.EnqueueOrMatch(1, 1000, models.ModeRace, models.DifficultyEasy)

	if _, matched := q.EnqueueOrMatch(2, 1300, models.ModeRace, models.DifficultyEasy); matched {
		t.Fatal("300 point gap should not match a fresh entry")
	}

	// Player 1 has been waiting past the widening threshold.
	key := bucketKey(models.ModeRace, models.DifficultyEasy)
	q.mu.Lock()
	for i := range q.buckets[key] {
		if q.buckets[key][i].userID == 1 {
			q.buckets[key][i].queuedAt = time.Now().Add(-wideningAfter - time.Second)
		}
	}
	q.mu.Unlock()

	opp, matched := q.EnqueueOrMatch(3, 1300, models.ModeRace, models.DifficultyEasy)
	if !matched || opp != 1 {
		t.Fatalf("widened gap should match player 1, got (%d, %v)", opp, matched)
	}
}

func TestDuplicateEnqueueIsNoop(t *testing.T) {
	q := NewMatchmakingQueue()
	q.EnqueueOrMatch(1, 1200, models.ModeRace, models.DifficultyEasy)
	if _, matched := q.EnqueueOrMatch(1, 1200, models.ModeRace, models.DifficultyEasy); matched {
		t.Error("re-queueing the same player should not self-match")
	}
	if q.Waiting() != 1 {
		t.Errorf("Waiting() = %d, want 1", q.Waiting())
	}
}

func TestFirstWaitingWins(t *testing.T) {
	q := NewMatchmakingQueue()
	q.EnqueueOrMatch(1, 1200, models.ModeRace, models.DifficultyEasy)
	q.EnqueueOrMatch(2, 1700, models.ModeRace, models.DifficultyEasy)
	q.EnqueueOrMatch(3, 2200, models.ModeRace, models.DifficultyEasy)

	opp, matched := q.EnqueueOrMatch(4, 1210, models.ModeRace, models.DifficultyEasy)
	if !matched || opp != 1 {
		t.Fatalf("expected the earliest in-gap entry (1), got (%d, %v)", opp, matched)
	}
}

func TestRemove(t *testing.T) {
	q := NewMatchmakingQueue()
	q.EnqueueOrMatch(1, 1200, models.ModeRace, models.DifficultyEasy)
	q.EnqueueOrMatch(1, 1200, models.ModeShared, models.DifficultyHard)
	q.Remove(1)
	if q.Waiting() != 0 {
		t.Errorf("Waiting() = %d after Remove, want 0", q.Waiting())
	}
}
