package main

import (
	"context"
	"log"

	"toplist/adapters/llm"
	"toplist/adapters/postgres"
	"toplist/adapters/web"
	"toplist/app"
	"toplist/internal/config"
	"toplist/internal/errors"
	"toplist/internal/migration"
	"toplist/ui"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase initializes the PostgreSQL database connection
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gin.SetMode(appConfig.Server.GinMode)

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer db.Close()

	// Collaborators are dependency-injected; either can be unconfigured and
	// the research pipeline degrades instead of failing
	llmClient := llm.NewGroqClient(appConfig.LLM)
	webClient := web.NewFirecrawlClient(appConfig.Web)

	if !llmClient.IsAvailable() {
		log.Println("GROQ_API_KEY not set, LLM research stage will be skipped")
	}
	if !webClient.IsAvailable() {
		log.Println("FIRECRAWL_API_KEY not set, web enhancement stage will be skipped")
	}

	itemRepo := postgres.NewItemRepository(db)
	validationService := app.NewValidationService(itemRepo)
	metadataService := app.NewMetadataService(llmClient, webClient)
	researchService := app.NewResearchService(validationService, metadataService, itemRepo)

	server := ui.NewServer(researchService, validationService, itemRepo)

	log.Printf("Starting toplist server on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
