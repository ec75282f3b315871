package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ghostnseek/backend/internal/api/handler"
	"ghostnseek/backend/internal/chathub"
	"ghostnseek/backend/internal/genai"
	"ghostnseek/backend/internal/models"
	"ghostnseek/backend/internal/payment"
	"ghostnseek/backend/internal/report"
	"ghostnseek/backend/internal/storage"
	"ghostnseek/backend/internal/tasks"
)

func setupDependencies() (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost user=user password=password dbname=ghostnseekdb port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisOpt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpt)

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	// 3. Migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.WaitingEntry{},
		&models.ChatSession{},
		&models.Message{},
		&models.Report{},
		&models.PaymentOrder{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

// moderationGate adapts the genai moderation service to the hub's interface.
type moderationGate struct {
	svc *genai.ModerationService
}

func (g *moderationGate) Moderate(ctx context.Context, message string) chathub.ModerationVerdict {
	result := g.svc.Moderate(ctx, message)
	return chathub.ModerationVerdict{
		IsAppropriate: result.IsAppropriate,
		DisplayText:   result.ModeratedMessage,
	}
}

func main() {
	log.Println("Starting Ghost n seek Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	// 1. Dependencies
	db, rdb := setupDependencies()
	s := storage.NewStorageService(db, rdb)

	gen, err := genai.NewOpenAIGenerator()
	if err != nil {
		log.Fatalf("Failed to initialize generation client: %v", err)
	}
	moderation := genai.NewModerationService(gen)
	clues := genai.NewClueService(gen)
	artwork := genai.NewArtworkService(gen)

	pay, err := payment.NewService(s)
	if err != nil {
		log.Fatalf("Failed to initialize payment service: %v", err)
	}

	reports := report.NewService(s)

	purges, err := tasks.NewClientFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize task client: %v", err)
	}
	defer purges.Close()

	// 2. Chat hub, matcher and session lifecycle
	hub := chathub.NewManagerService(s, &moderationGate{svc: moderation})
	matcher := chathub.NewMatcherService(hub, s)
	lifecycle := chathub.NewLifecycleService(hub, s, purges)

	// 3. Main goroutines
	go hub.Run()
	go matcher.Run()
	go lifecycle.Run()

	// 4. Gin routing
	r := gin.Default()
	h := handler.NewHandler(hub, s, moderation, clues, artwork, pay, reports, purges)

	r.GET("/anonid", h.GetAnonID)
	r.GET("/ws", h.ServeWebSocket)

	api := r.Group("/api")
	{
		api.POST("/match", h.RequestMatch)
		api.POST("/delete-chat", h.DeleteChat)

		api.POST("/clues/from-chat", h.CluesFromChat)
		api.POST("/clues/suggestions", h.ClueSuggestions)
		api.POST("/clues/emoji-dna", h.EmojiDNA)
		api.POST("/clues/analyze", h.AnalyzeClues)

		api.POST("/cluecard/image", h.GenerateArtwork)
		api.POST("/cluecard/export", h.ExportCard)
		api.GET("/cluecard/share-qr", h.ShareQR)

		api.POST("/paypal/create-order", h.CreateOrder)
		api.POST("/paypal/capture-order", h.CaptureOrder)

		api.POST("/moderate", h.ModerateMessage)
		api.POST("/report", h.FileReport)
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
