// Command import batch-researches items listed in an Excel sheet and
// auto-creates the ones that pass the duplicate gate.
//
// The sheet's first row is a header; each following row is
// name | category | subcategory.
//
// Usage: import <xlsx-file> [sheet]
package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"toplist/adapters/llm"
	"toplist/adapters/postgres"
	"toplist/adapters/web"
	"toplist/app"
	"toplist/internal/config"
	"toplist/internal/migration"
	"toplist/models"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/xuri/excelize/v2"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: import <xlsx-file> [sheet]")
	}
	filePath := os.Args[1]
	sheet := ""
	if len(os.Args) > 2 {
		sheet = os.Args[2]
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.NewRunner().Run(context.Background(), db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	itemRepo := postgres.NewItemRepository(db)
	validationService := app.NewValidationService(itemRepo)
	metadataService := app.NewMetadataService(llm.NewGroqClient(appConfig.LLM), web.NewFirecrawlClient(appConfig.Web))
	researchService := app.NewResearchService(validationService, metadataService, itemRepo)

	rows, err := readRows(filePath, sheet)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", filePath, err)
	}

	log.Printf("Importing %d items from %s", len(rows), filePath)

	items := make([]app.BatchItem, len(rows))
	for i, row := range rows {
		items[i] = app.BatchItem{Name: row.name, Category: row.category, Subcategory: row.subcategory}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	outcomes := researchService.ProcessBatch(ctx, items, importConcurrency())

	created := 0
	skipped := 0
	failed := 0

	for i, outcome := range outcomes {
		switch {
		case outcome.Err != nil:
			log.Printf("Row %d (%s): pipeline error: %v", i+2, outcome.Item.Name, outcome.Err)
			failed++
		case !outcome.Response.IsValid:
			log.Printf("Row %d (%s): invalid: %v", i+2, outcome.Item.Name, outcome.Response.ValidationErrors)
			failed++
		case outcome.Response.ItemCreated:
			log.Printf("Row %d (%s): created %s", i+2, outcome.Item.Name, outcome.Response.ItemID)
			created++
		default:
			reason := "low confidence or duplicate"
			if outcome.Response.DuplicateInfo.IsDuplicate {
				reason = "duplicate"
			}
			log.Printf("Row %d (%s): skipped (%s)", i+2, outcome.Item.Name, reason)
			skipped++
		}
	}

	log.Printf("Import complete: %d created, %d skipped, %d failed", created, skipped, failed)
}

func importConcurrency() int64 {
	if value := os.Getenv("IMPORT_CONCURRENCY"); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return int64(n)
		}
	}
	return 4
}

type importRow struct {
	name        string
	category    models.Category
	subcategory string
}

func readRows(filePath, sheet string) ([]importRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	var rows []importRow
	for i, cells := range raw {
		if i == 0 {
			continue // header
		}
		if len(cells) < 3 || strings.TrimSpace(cells[0]) == "" {
			continue
		}
		rows = append(rows, importRow{
			name:        strings.TrimSpace(cells[0]),
			category:    models.Category(strings.ToLower(strings.TrimSpace(cells[1]))),
			subcategory: strings.TrimSpace(cells[2]),
		})
	}
	return rows, nil
}
