package app

import (
	"context"
	"testing"

	"toplist/adapters/llm"
	"toplist/adapters/web"
	"toplist/models"
	"toplist/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

const llmSuccessResponse = `{"status": "success", "item_year": 1997, "group": "RPG", "description": "A classic role-playing game.", "reference_url": "https://llm-invented.example/wiki", "image_url": "https://llm-invented.example/img.png"}`

func webResultFull() *ports.WebMetadataResult {
	return &ports.WebMetadataResult{
		Success: true,
		Metadata: models.CandidateMetadata{
			Description: strPtr("Wikipedia description."),
			Group:       strPtr("Club Team"),
			ItemYear:    intPtr(2004),
			ImageURL:    strPtr("https://upload.wikimedia.org/img.jpg"),
		},
		ReferenceURL: "https://en.wikipedia.org/wiki/Example",
		ParseMethod:  "infobox",
	}
}

func newTestService(llmClient ports.LLMClient, webClient ports.WebResearchClient) *MetadataService {
	return NewMetadataService(llmClient, webClient)
}

func TestResearch_LLMSucceedsAlone(t *testing.T) {
	service := newTestService(
		&llm.MockLLMClient{Available: true, Response: llmSuccessResponse},
		&web.MockWebClient{Available: false},
	)

	result := service.ResearchItemMetadata(context.Background(), models.ResearchRequest{
		Name: "Final Fantasy VII", Category: models.CategoryGames, Subcategory: "video_games",
	})

	assert.Equal(t, 90, result.LLMConfidence)
	assert.Equal(t, 0, result.WebSourcesFound)
	require.NotNil(t, result.Description)
	assert.Equal(t, "A classic role-playing game.", *result.Description)
	require.NotNil(t, result.Group)
	assert.Equal(t, "RPG", *result.Group)
	require.NotNil(t, result.ItemYear)
	assert.Equal(t, 1997, *result.ItemYear)

	// Web stage was unavailable: exactly one stage error, prefixed
	require.Len(t, result.ResearchErrors, 1)
	assert.Contains(t, result.ResearchErrors[0], "Web:")
}

func TestResearch_URLsNeverComeFromLLM(t *testing.T) {
	service := newTestService(
		&llm.MockLLMClient{Available: true, Response: llmSuccessResponse},
		&web.MockWebClient{Available: false},
	)

	result := service.ResearchItemMetadata(context.Background(), models.ResearchRequest{
		Name: "Final Fantasy VII", Category: models.CategoryGames, Subcategory: "video_games",
	})

	// The LLM response carried reference_url and image_url; both must be
	// discarded because URLs are sourced exclusively from the web stage
	assert.Nil(t, result.ReferenceURL)
	assert.Nil(t, result.ImageURL)
}

func TestResearch_WebEnhancementBumpsConfidence(t *testing.T) {
	service := newTestService(
		&llm.MockLLMClient{Available: true, Response: llmSuccessResponse},
		&web.MockWebClient{Available: true, Result: webResultFull()},
	)

	result := service.ResearchItemMetadata(context.Background(), models.ResearchRequest{
		Name: "Final Fantasy VII", Category: models.CategoryGames, Subcategory: "video_games",
	})

	assert.Equal(t, 95, result.LLMConfidence)
	assert.Equal(t, 1, result.WebSourcesFound)
	assert.Equal(t, "wikipedia", result.EnhancementSource)

	// LLM supplied the core fields, so the web stage must only have filled
	// the enhancement URLs
	assert.ElementsMatch(t, []string{"image_url", "reference_url"}, result.MissingAttributesFilled)

	require.NotNil(t, result.ReferenceURL)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Example", *result.ReferenceURL)
	require.NotNil(t, result.ImageURL)
	assert.Equal(t, "https://upload.wikimedia.org/img.jpg", *result.ImageURL)
}

func TestResearch_LLMDescriptionWinsOverWeb(t *testing.T) {
	service := newTestService(
		&llm.MockLLMClient{Available: true, Response: llmSuccessResponse},
		&web.MockWebClient{Available: true, Result: webResultFull()},
	)

	result := service.ResearchItemMetadata(context.Background(), models.ResearchRequest{
		Name: "Final Fantasy VII", Category: models.CategoryGames, Subcategory: "video_games",
	})

	require.NotNil(t, result.Description)
	assert.Equal(t, "A classic role-playing game.", *result.Description)
	require.NotNil(t, result.Group)
	assert.Equal(t, "RPG", *result.Group)
}

func TestResearch_LLMUnavailableWebFillsEverything(t *testing.T) {
	service := newTestService(
		&llm.MockLLMClient{Available: false},
		&web.MockWebClient{Available: true, Result: webResultFull()},
	)

	result := service.ResearchItemMetadata(context.Background(), models.ResearchRequest{
		Name: "Lionel Messi", Category: models.CategorySports, Subcategory: "football",
	})

	assert.Equal(t, 0, result.LLMConfidence)
	assert.Equal(t, 1, result.WebSourcesFound)

	require.NotNil(t, result.Description)
	assert.Equal(t, "Wikipedia description.", *result.Description)
	require.NotNil(t, result.Group)
	assert.Equal(t, "Club Team", *result.Group)
	require.NotNil(t, result.ItemYear)
	assert.Equal(t, 2004, *result.ItemYear)

	require.Len(t, result.ResearchErrors, 1)
	assert.Contains(t, result.ResearchErrors[0], "LLM:")
	assert.Contains(t, result.ResearchErrors[0], "not available")
}

func TestResearch_LLMReportsFailedStatus(t *testing.T) {
	service := newTestService(
		&llm.MockLLMClient{Available: true, Response: `{"status": "failed"}`},
		&web.MockWebClient{Available: false},
	)

	result := service.ResearchItemMetadata(context.Background(), models.ResearchRequest{
		Name: "Obscure Item", Category: models.CategoryOther, Subcategory: "misc",
	})

	assert.Equal(t, 0, result.LLMConfidence)
	assert.Nil(t, result.Description)
	require.Len(t, result.ResearchErrors, 2)
	assert.Contains(t, result.ResearchErrors[0], "LLM:")
}

func TestResearch_PartialFailureTolerated(t *testing.T) {
	// A broken LLM stage must not suppress the web attempt and vice versa
	service := newTestService(
		&llm.MockLLMClient{Available: true, Error: assert.AnError},
		&web.MockWebClient{Available: true, Result: webResultFull()},
	)

	result := service.ResearchItemMetadata(context.Background(), models.ResearchRequest{
		Name: "Lionel Messi", Category: models.CategorySports, Subcategory: "football",
	})

	assert.Equal(t, 0, result.LLMConfidence)
	assert.Equal(t, 1, result.WebSourcesFound)
	require.NotNil(t, result.Description)
}

func TestResearch_Idempotent(t *testing.T) {
	service := newTestService(
		&llm.MockLLMClient{Available: true, Response: llmSuccessResponse},
		&web.MockWebClient{Available: true, Result: webResultFull()},
	)

	req := models.ResearchRequest{
		Name: "Final Fantasy VII", Category: models.CategoryGames, Subcategory: "video_games",
	}

	first := service.ResearchItemMetadata(context.Background(), req)
	second := service.ResearchItemMetadata(context.Background(), req)

	assert.Equal(t, first, second)
}

func TestResearch_FatalCatchBoundary(t *testing.T) {
	// Nil collaborators make the first stage panic; the orchestrator's
	// top-level boundary must convert that into the degraded result
	service := NewMetadataService(nil, nil)

	result := service.ResearchItemMetadata(context.Background(), models.ResearchRequest{
		Name: "Anything", Category: models.CategoryOther, Subcategory: "misc",
	})

	require.NotNil(t, result)
	assert.Equal(t, 0, result.LLMConfidence)
	assert.Equal(t, "failed", result.ResearchMethod)
	assert.NotEmpty(t, result.ResearchErrors)
	assert.Nil(t, result.Description)
	assert.Nil(t, result.ReferenceURL)
}

func TestQuickValidate(t *testing.T) {
	available := newTestService(
		&llm.MockLLMClient{Available: true},
		&web.MockWebClient{Available: true},
	)
	assert.Equal(t, 95, available.QuickValidate("Lionel Messi", models.CategorySports, "football"))

	nothing := newTestService(
		&llm.MockLLMClient{Available: false},
		&web.MockWebClient{Available: false},
	)
	// 50 base + 10 name length + 10 known category
	assert.Equal(t, 70, nothing.QuickValidate("Lionel Messi", models.CategorySports, "football"))
	// Unknown category loses its bonus
	assert.Equal(t, 60, nothing.QuickValidate("Lionel Messi", models.Category("movies"), "misc"))
}
