package models

import (
	"time"
)

// Match records a completed (or forfeited) game between two players.
// Elo deltas are stored per seat so a player's history can be rebuilt
// without replaying rating math.
type Match struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Player1ID       uint       `gorm:"index;not null" json:"player1_id"`
	Player2ID       uint       `gorm:"index;not null" json:"player2_id"`
	Mode            GameMode   `gorm:"type:varchar(16);not null" json:"mode"`
	Difficulty      Difficulty `gorm:"type:varchar(16);not null" json:"difficulty"`
	WinnerID        *uint      `gorm:"index" json:"winner_id,omitempty"` // nil = draw/abandoned
	Player1EloDelta int        `gorm:"not null;default:0" json:"player1_elo_delta"`
	Player2EloDelta int        `gorm:"not null;default:0" json:"player2_elo_delta"`
	DurationSecs    int64      `gorm:"not null;default:0" json:"duration_secs"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
}
