// sudoku-arena/middleware/ws_auth.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"sudoku-arena/services"
)

type contextKey string

const (
	UserIDContextKey   contextKey = "userID"
	UsernameContextKey contextKey = "username"
	RatingContextKey   contextKey = "rating"
)

// WSAuthMiddleware validates the `token` query param against the
// session store before the websocket upgrade. Browsers cannot set
// headers on a websocket handshake, so the token rides the URL.
//
// Usage:
//
//	app.Get("/ws", middleware.WSAuthMiddleware(authService, registry), websocket.New(...))
func WSAuthMiddleware(auth *services.AuthService, registry *services.Registry) func(*fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(c.Query("token"))
		if token == "" {
			log.Printf("[WSAuth] ❌ missing token from %s", c.IP())
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing token in query",
			})
		}

		user, err := auth.Authenticate(token)
		if err != nil {
			log.Printf("[WSAuth] ❌ invalid session from %s: %v", c.IP(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if registry.Full() && registry.Get(user.ID) == nil {
			log.Printf("[WSAuth] server full, rejecting %s", user.Username)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Server is full",
			})
		}

		c.Locals(string(UserIDContextKey), user.ID)
		c.Locals(string(UsernameContextKey), user.Username)
		c.Locals(string(RatingContextKey), user.Rating)

		log.Printf("[WSAuth] ✅ authenticated %s", user.Username)
		return c.Next()
	}
}
