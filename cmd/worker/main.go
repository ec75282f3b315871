// The worker runs background jobs: today, the delayed purge of ended chat
// sessions and their messages.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ghostnseek/backend/internal/storage"
	"ghostnseek/backend/internal/tasks"
)

func main() {
	log.Println("Starting Ghost n seek Worker...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost user=user password=password dbname=ghostnseekdb port=5432 sslmode=disable"
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisOpt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	s := storage.NewStorageService(db, rdb)

	srv, mux, err := tasks.NewServer(s)
	if err != nil {
		log.Fatalf("Failed to initialize task server: %v", err)
	}

	if err := srv.Run(mux); err != nil {
		log.Fatalf("Task server stopped: %v", err)
	}
}
