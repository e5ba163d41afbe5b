package utils

import (
	"crypto/rand"
	"math/big"
)

const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RoomCode generates a random 6-character uppercase alphanumeric code.
// Callers are responsible for checking collisions against live rooms.
func RoomCode() string {
	code := make([]byte, 6)
	for i := range code {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeAlphabet))))
		code[i] = roomCodeAlphabet[n.Int64()]
	}
	return string(code)
}
