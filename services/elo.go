package services

import "math"

// DefaultRating is the starting rating for new players.
const DefaultRating = 1200

// eloK is the K-factor for rating updates.
const eloK = 32.0

// CalculateElo returns the player's new rating after a game against
// opponentRating. Pure; both sides of a game must be computed from
// pre-update ratings.
func CalculateElo(playerRating, opponentRating int, won bool) int {
	expected := 1.0 / (1.0 + math.Pow(10, float64(opponentRating-playerRating)/400.0))
	score := 0.0
	if won {
		score = 1.0
	}
	return int(math.Round(float64(playerRating) + eloK*(score-expected)))
}

// EloChange returns the rating delta the player would receive.
func EloChange(playerRating, opponentRating int, won bool) int {
	return CalculateElo(playerRating, opponentRating, won) - playerRating
}
