// handlers/routes.go
package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"

	"sudoku-arena/middleware"
	"sudoku-arena/models"
	"sudoku-arena/services"
)

// leaderboardLimit caps the /leaderboard response size.
const leaderboardLimit = 100

func SetupRoutes(app *fiber.App, auth *services.AuthService, store services.Store, ws *WSHandler) {
	// 🔓 Public routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "ok",
			"connections": ws.registry.Count(),
			"rooms":       ws.rooms.Count(),
		})
	})

	app.Post("/auth/device", func(c *fiber.Ctx) error {
		resp, err := auth.StartDeviceFlow()
		if err != nil {
			log.Printf("[Auth] device flow start failed: %v", err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Failed to start device flow",
			})
		}
		return c.JSON(resp)
	})

	app.Post("/auth/poll", func(c *fiber.Ctx) error {
		var req struct {
			DeviceCode string `json:"device_code"`
		}
		if err := c.BodyParser(&req); err != nil || req.DeviceCode == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing device_code",
			})
		}
		resp, err := auth.PollDeviceFlow(req.DeviceCode)
		if errors.Is(err, services.ErrAuthPending) {
			return c.JSON(models.AuthPollResponse{Status: "pending"})
		}
		if err != nil {
			log.Printf("[Auth] device flow poll failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(resp)
	})

	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(leaderboardLimit)))
		if err != nil || limit < 1 || limit > leaderboardLimit {
			limit = leaderboardLimit
		}
		entries, err := store.GetLeaderboard(limit)
		if err != nil {
			log.Printf("[Leaderboard] query failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load leaderboard",
			})
		}
		return c.JSON(entries)
	})

	app.Get("/profile/:username", func(c *fiber.Ctx) error {
		user, err := store.GetUserByUsername(c.Params("username"))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Player not found",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load profile",
			})
		}
		return c.JSON(models.PlayerProfile{
			Username:  user.Username,
			AvatarURL: user.AvatarURL,
			Rating:    user.Rating,
			Wins:      user.Wins,
			Losses:    user.Losses,
		})
	})

	// 🔐 Game socket: session token checked before the upgrade
	app.Get("/ws", middleware.WSAuthMiddleware(auth, ws.registry), websocket.New(ws.Serve))
}
