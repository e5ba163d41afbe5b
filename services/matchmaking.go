package services

import (
	"fmt"
	"sync"
	"time"

	"sudoku-arena/models"
)

// Rating window for quick match pairing. The window widens once an
// entry has been waiting longer than wideningAfter.
const (
	baseRatingGap = 200
	wideRatingGap = 400
	wideningAfter = 30 * time.Second
)

type queueEntry struct {
	userID   uint
	rating   int
	queuedAt time.Time
}

// MatchmakingQueue holds players waiting for a quick match, bucketed by
// mode and difficulty.
type MatchmakingQueue struct {
	mu      sync.Mutex
	buckets map[string][]queueEntry
}

func NewMatchmakingQueue() *MatchmakingQueue {
	return &MatchmakingQueue{buckets: make(map[string][]queueEntry)}
}

func bucketKey(mode models.GameMode, difficulty models.Difficulty) string {
	return fmt.Sprintf("%s:%s", mode, difficulty)
}

// EnqueueOrMatch tries to pair the player with someone already waiting
// in the same bucket. Returns the matched opponent's user ID and true,
// or 0 and false when the player was queued instead. Re-queueing an
// already-waiting player is a no-op that reports no match.
func (q *MatchmakingQueue) EnqueueOrMatch(userID uint, rating int, mode models.GameMode, difficulty models.Difficulty) (uint, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	key := bucketKey(mode, difficulty)
	bucket := q.buckets[key]

	for _, e := range bucket {
		if e.userID == userID {
			return 0, false
		}
	}

	now := time.Now()
	for i, e := range bucket {
		gap := baseRatingGap
		if now.Sub(e.queuedAt) > wideningAfter {
			gap = wideRatingGap
		}
		diff := e.rating - rating
		if diff < 0 {
			diff = -diff
		}
		if diff <= gap {
			q.buckets[key] = append(bucket[:i], bucket[i+1:]...)
			return e.userID, true
		}
	}

	q.buckets[key] = append(bucket, queueEntry{userID: userID, rating: rating, queuedAt: now})
	return 0, false
}

// Remove strips the player from every bucket.
func (q *MatchmakingQueue) Remove(userID uint) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for key, bucket := range q.buckets {
		for i, e := range bucket {
			if e.userID == userID {
				q.buckets[key] = append(bucket[:i], bucket[i+1:]...)
				break
			}
		}
		if len(q.buckets[key]) == 0 {
			delete(q.buckets, key)
		}
	}
}

// Waiting returns the number of queued players across all buckets.
func (q *MatchmakingQueue) Waiting() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, bucket := range q.buckets {
		n += len(bucket)
	}
	return n
}
