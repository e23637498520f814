package app

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"toplist/adapters/llm"
	"toplist/adapters/web"
	"toplist/models"
)

func newResearchService(repo *fakeItemRepo, llmClient *llm.MockLLMClient, webClient *web.MockWebClient) *ResearchService {
	return NewResearchService(
		NewValidationService(repo),
		NewMetadataService(llmClient, webClient),
		repo,
	)
}

func successfulStack(repo *fakeItemRepo) *ResearchService {
	return newResearchService(repo,
		&llm.MockLLMClient{Available: true, Response: llmSuccessResponse},
		&web.MockWebClient{Available: false},
	)
}

func TestProcessResearchRequest_InvalidInput(t *testing.T) {
	service := successfulStack(&fakeItemRepo{})

	response, err := service.ProcessResearchRequest(context.Background(), models.ItemResearchRequest{
		Name: "", Category: models.CategoryGames, Subcategory: "video_games",
	})
	if err != nil {
		t.Fatalf("ProcessResearchRequest: %v", err)
	}
	if response.IsValid {
		t.Fatal("empty name must fail validation")
	}
	if response.ResearchPerformed || response.Research != nil {
		t.Error("no research may run for invalid input")
	}
}

func TestProcessResearchRequest_BlockedByDuplicate(t *testing.T) {
	repo := &fakeItemRepo{rows: []models.Item{
		catalogItem("Final Fantasy VII", models.CategoryGames, "video_games"),
	}}
	service := successfulStack(repo)

	response, err := service.ProcessResearchRequest(context.Background(), models.ItemResearchRequest{
		Name: "Final Fantasy VII", Category: models.CategoryGames, Subcategory: "video_games",
	})
	if err != nil {
		t.Fatalf("ProcessResearchRequest: %v", err)
	}

	if response.ResearchPerformed {
		t.Error("duplicate gate must skip research entirely")
	}
	if response.Research == nil || response.Research.ResearchMethod != "blocked_by_duplicate" {
		t.Fatalf("research = %+v, want blocked_by_duplicate marker", response.Research)
	}
	if len(response.Research.ResearchErrors) != 1 || !strings.Contains(response.Research.ResearchErrors[0], "already exists") {
		t.Errorf("errors = %v", response.Research.ResearchErrors)
	}
	if !response.DuplicateInfo.ExactMatch {
		t.Error("duplicate info must be reported alongside the block")
	}
}

func TestProcessResearchRequest_AllowDuplicateResearchesButBlocksCreate(t *testing.T) {
	repo := &fakeItemRepo{rows: []models.Item{
		catalogItem("Final Fantasy VII", models.CategoryGames, "video_games"),
	}}
	service := successfulStack(repo)

	response, err := service.ProcessResearchRequest(context.Background(), models.ItemResearchRequest{
		Name:            "Final Fantasy VII",
		Category:        models.CategoryGames,
		Subcategory:     "video_games",
		AllowDuplicate:  true,
		AutoCreate:      true,
		DuplicateAction: models.DuplicateReject,
	})
	if err != nil {
		t.Fatalf("ProcessResearchRequest: %v", err)
	}

	if !response.ResearchPerformed {
		t.Fatal("allow_duplicate must let research proceed")
	}
	if response.Research.LLMConfidence != 90 {
		t.Errorf("confidence = %d, want 90", response.Research.LLMConfidence)
	}
	if response.ItemCreated {
		t.Error("exact duplicate with reject action must block auto-creation")
	}

	blocked := false
	for _, msg := range response.Research.ResearchErrors {
		if msg == "Auto-creation blocked: exact duplicate found" {
			blocked = true
		}
	}
	if !blocked {
		t.Errorf("missing block message, errors = %v", response.Research.ResearchErrors)
	}
	if len(repo.inserted) != 0 {
		t.Errorf("unexpected insert: %+v", repo.inserted)
	}
}

func TestProcessResearchRequest_DuplicateActionAllowOverrides(t *testing.T) {
	repo := &fakeItemRepo{rows: []models.Item{
		catalogItem("Final Fantasy VII", models.CategoryGames, "video_games"),
	}}
	service := successfulStack(repo)

	response, err := service.ProcessResearchRequest(context.Background(), models.ItemResearchRequest{
		Name:            "Final Fantasy VII",
		Category:        models.CategoryGames,
		Subcategory:     "video_games",
		AllowDuplicate:  true,
		AutoCreate:      true,
		DuplicateAction: models.DuplicateAllow,
	})
	if err != nil {
		t.Fatalf("ProcessResearchRequest: %v", err)
	}

	if !response.ItemCreated {
		t.Fatal("duplicate_action=allow must permit auto-creation past an exact match")
	}
	if response.ItemID == "" {
		t.Error("created response must carry the new item id")
	}
}

func TestProcessResearchRequest_AutoCreate(t *testing.T) {
	repo := &fakeItemRepo{}
	service := successfulStack(repo)

	response, err := service.ProcessResearchRequest(context.Background(), models.ItemResearchRequest{
		Name:        "Final Fantasy VII",
		Category:    models.CategoryGames,
		Subcategory: "video_games",
		AutoCreate:  true,
	})
	if err != nil {
		t.Fatalf("ProcessResearchRequest: %v", err)
	}

	if !response.ItemCreated {
		t.Fatal("90% confidence research with auto_create must create the item")
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("inserted = %d rows, want 1", len(repo.inserted))
	}

	row := repo.inserted[0]
	if row.Name != "Final Fantasy VII" || row.Category != models.CategoryGames {
		t.Errorf("row = %+v", row)
	}
	if row.Description == nil || *row.Description != "A classic role-playing game." {
		t.Errorf("description not carried into the row: %+v", row.Description)
	}
	if row.Group == nil || *row.Group != "RPG" {
		t.Errorf("group not carried into the row: %+v", row.Group)
	}
	if row.ItemYear == nil || *row.ItemYear != 1997 {
		t.Errorf("item_year not carried into the row: %+v", row.ItemYear)
	}
}

func TestProcessResearchRequest_LowConfidenceSkipsCreate(t *testing.T) {
	repo := &fakeItemRepo{}
	service := newResearchService(repo,
		&llm.MockLLMClient{Available: false},
		&web.MockWebClient{Available: false},
	)

	response, err := service.ProcessResearchRequest(context.Background(), models.ItemResearchRequest{
		Name:        "Obscure Thing",
		Category:    models.CategoryOther,
		Subcategory: "misc",
		AutoCreate:  true,
	})
	if err != nil {
		t.Fatalf("ProcessResearchRequest: %v", err)
	}

	if response.ItemCreated || len(repo.inserted) != 0 {
		t.Error("zero-confidence research must not auto-create")
	}
	if !response.ResearchPerformed {
		t.Error("research itself still runs at low confidence")
	}
}

func TestProcessResearchRequest_PersistenceFailureDegrades(t *testing.T) {
	repo := &fakeItemRepo{insertErr: fmt.Errorf("connection reset")}
	service := successfulStack(repo)

	response, err := service.ProcessResearchRequest(context.Background(), models.ItemResearchRequest{
		Name:        "Final Fantasy VII",
		Category:    models.CategoryGames,
		Subcategory: "video_games",
		AutoCreate:  true,
	})
	if err != nil {
		t.Fatalf("persistence failure must not fail the request: %v", err)
	}

	if response.ItemCreated {
		t.Error("failed insert must not report item_created")
	}
	found := false
	for _, msg := range response.Research.ResearchErrors {
		if strings.Contains(msg, "Auto-creation failed") {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %v, want an auto-creation failure note", response.Research.ResearchErrors)
	}
	if response.Research.LLMConfidence != 90 {
		t.Error("research results must survive a persistence failure")
	}
}

func TestProcessResearchRequest_NearDuplicateNote(t *testing.T) {
	repo := &fakeItemRepo{rows: []models.Item{
		catalogItem("Final Fantasy VIII", models.CategoryGames, "video_games"),
	}}
	service := successfulStack(repo)

	response, err := service.ProcessResearchRequest(context.Background(), models.ItemResearchRequest{
		Name:           "Final Fantasy VII",
		Category:       models.CategoryGames,
		Subcategory:    "video_games",
		AllowDuplicate: true,
	})
	if err != nil {
		t.Fatalf("ProcessResearchRequest: %v", err)
	}

	found := false
	for _, msg := range response.Research.ResearchErrors {
		if strings.Contains(msg, "similar items already exist") {
			found = true
		}
	}
	if !found {
		t.Errorf("errors = %v, want a similar-items note", response.Research.ResearchErrors)
	}
}
