// cmd/migrate/main.go
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/nmiguel/devpanel/internal/config"
	"github.com/nmiguel/devpanel/internal/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Println("Connecting to PostgreSQL...")
	db, err := database.Connect(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("🔄 Running migration...")
	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}
	log.Println("✅ Migration completed")
}
