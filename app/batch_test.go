package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"toplist/adapters/web"
	"toplist/models"
)

// countingLLM tracks how many Generate calls run at once
type countingLLM struct {
	mu       sync.Mutex
	active   int
	maxSeen  int
	response string
}

func (c *countingLLM) IsAvailable() bool { return true }

func (c *countingLLM) Generate(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	c.active++
	if c.active > c.maxSeen {
		c.maxSeen = c.active
	}
	c.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	c.mu.Lock()
	c.active--
	c.mu.Unlock()
	return c.response, nil
}

func TestProcessBatch(t *testing.T) {
	repo := &fakeItemRepo{rows: []models.Item{
		catalogItem("Final Fantasy VII", models.CategoryGames, "video_games"),
	}}
	llmClient := &countingLLM{response: llmSuccessResponse}
	service := NewResearchService(
		NewValidationService(repo),
		NewMetadataService(llmClient, &web.MockWebClient{Available: false}),
		repo,
	)

	items := []BatchItem{
		{Name: "Chrono Trigger", Category: models.CategoryGames, Subcategory: "video_games"},
		{Name: "Final Fantasy VII", Category: models.CategoryGames, Subcategory: "video_games"},
		{Name: "Secret of Mana", Category: models.CategoryGames, Subcategory: "video_games"},
		{Name: "Xenogears", Category: models.CategoryGames, Subcategory: "video_games"},
	}

	outcomes := service.ProcessBatch(context.Background(), items, 2)

	if len(outcomes) != len(items) {
		t.Fatalf("got %d outcomes, want %d", len(outcomes), len(items))
	}

	created := 0
	for i, outcome := range outcomes {
		if outcome.Item.Name != items[i].Name {
			t.Errorf("outcome %d is for %q, want input order preserved (%q)", i, outcome.Item.Name, items[i].Name)
		}
		if outcome.Err != nil {
			t.Errorf("%s: unexpected error %v", outcome.Item.Name, outcome.Err)
			continue
		}
		if outcome.Response.ItemCreated {
			created++
		}
	}

	if created != 3 {
		t.Errorf("created = %d, want 3 (the pre-seeded title is blocked by the duplicate gate)", created)
	}
	if llmClient.maxSeen > 2 {
		t.Errorf("saw %d concurrent research calls, want at most 2", llmClient.maxSeen)
	}
}

func TestProcessBatch_MinimumConcurrency(t *testing.T) {
	repo := &fakeItemRepo{}
	llmClient := &countingLLM{response: llmSuccessResponse}
	service := NewResearchService(
		NewValidationService(repo),
		NewMetadataService(llmClient, &web.MockWebClient{Available: false}),
		repo,
	)

	items := []BatchItem{
		{Name: "Chrono Trigger", Category: models.CategoryGames, Subcategory: "video_games"},
		{Name: "Secret of Mana", Category: models.CategoryGames, Subcategory: "video_games"},
	}

	// Nonsense concurrency degrades to sequential processing
	outcomes := service.ProcessBatch(context.Background(), items, 0)

	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	if llmClient.maxSeen != 1 {
		t.Errorf("saw %d concurrent research calls, want sequential", llmClient.maxSeen)
	}
	for _, outcome := range outcomes {
		if outcome.Err != nil || !outcome.Response.ItemCreated {
			t.Errorf("%s: outcome %+v", outcome.Item.Name, outcome)
		}
	}
}
