package models

import (
	"time"
)

// User is a registered player. ExternalID is the identity-provider id
// (GitHub user id, or the generated dev-mode name when OAuth is disabled).
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExternalID string    `gorm:"uniqueIndex;not null" json:"external_id"`
	Username   string    `gorm:"uniqueIndex;not null" json:"username"`
	AvatarURL  string    `gorm:"not null;default:''" json:"avatar_url"`
	Rating     int       `gorm:"not null;default:1200" json:"rating"`
	Wins       int       `gorm:"not null;default:0" json:"wins"`
	Losses     int       `gorm:"not null;default:0" json:"losses"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Session is a bearer token handed out after the device-auth flow completes.
type Session struct {
	Token     string    `gorm:"primaryKey" json:"token"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// PlayerProfile is the public view of a user returned by the REST API.
type PlayerProfile struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Rating    int    `json:"rating"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
}
