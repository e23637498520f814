// Command research runs the metadata pipeline for a single item and prints
// the fused result as JSON. No database is touched; this is pure research.
//
// Usage: research <name> <category> <subcategory>
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"toplist/adapters/llm"
	"toplist/adapters/web"
	"toplist/app"
	"toplist/internal/config"
	"toplist/models"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) < 4 {
		log.Fatal("Usage: research <name> <category> <subcategory>")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Database config is not needed for pure research
	os.Setenv("DATABASE_URL", getEnvOrDefault("DATABASE_URL", "postgres://unused"))

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	metadataService := app.NewMetadataService(
		llm.NewGroqClient(appConfig.LLM),
		web.NewFirecrawlClient(appConfig.Web),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result := metadataService.ResearchItemMetadata(ctx, models.ResearchRequest{
		Name:          os.Args[1],
		Category:      models.Category(os.Args[2]),
		Subcategory:   os.Args[3],
		ResearchDepth: models.DepthStandard,
	})

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	os.Stdout.Write(append(out, '\n'))
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
