// workers/sweeper.go
package workers

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"sudoku-arena/services"
)

const (
	sweepInterval = 30 * time.Second

	waitingRoomTTL = 10 * time.Minute
	idleGameTTL    = 5 * time.Minute
	endedRoomTTL   = 2 * time.Minute
)

// StartSweeper runs the room janitor on a fixed schedule: stale waiting
// rooms and finished rooms are dropped, idle games are forfeited.
func StartSweeper(rooms *services.RoomManager) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(sweepInterval),
		gocron.NewTask(func() {
			removed := rooms.Sweep(waitingRoomTTL, idleGameTTL, endedRoomTTL)
			if removed > 0 {
				log.Printf("[Sweeper] removed %d stale room(s), %d active", removed, rooms.Count())
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	log.Println("🔁 Starting room sweeper…")
	return sched, nil
}
