package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"sudoku-arena/handlers"
	"sudoku-arena/models"
	"sudoku-arena/services"
	"sudoku-arena/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Match{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	maxConns := services.MaxConnections
	if v := os.Getenv("MAX_CONNECTIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Fatalf("invalid MAX_CONNECTIONS %q", v)
		}
		maxConns = n
	}

	store := services.NewDBStore(db)
	authService := services.NewAuthService(store)
	queue := services.NewMatchmakingQueue()
	registry := services.NewRegistry(queue, maxConns)
	rooms := services.NewRoomManager(registry, store)
	grace := workers.NewReconnectSupervisor(rooms)

	sweeper, err := workers.StartSweeper(rooms)
	if err != nil {
		log.Fatal("failed to start sweeper:", err)
	}

	app := fiber.New(fiber.Config{
		AppName: "sudoku-arena",
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	wsHandler := handlers.NewWSHandler(registry, queue, rooms, grace)
	handlers.SetupRoutes(app, authService, store, wsHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)
	if authService.DevMode() {
		log.Println("✅ Dev auth enabled: POST /auth/device, then /auth/poll with the DEV code")
	}

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = sweeper.Shutdown()
	_ = app.Shutdown()
}
