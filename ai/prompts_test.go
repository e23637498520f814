package ai

import (
	"strings"
	"testing"

	"toplist/models"
)

func TestBuildMetadataPrompt_CategoryTemplates(t *testing.T) {
	builder := NewMetadataPromptBuilder()

	tests := []struct {
		category models.Category
		want     string
	}{
		{models.CategorySports, "sports historian"},
		{models.CategoryGames, "video game encyclopedia"},
		{models.CategoryMusic, "music archivist"},
		{models.CategoryOther, "summarize its key facts"},
	}

	for _, tt := range tests {
		prompt := builder.BuildMetadataPrompt("Example", tt.category, "sub", "")
		if !strings.Contains(prompt, tt.want) {
			t.Errorf("%s prompt missing %q", tt.category, tt.want)
		}
		// Every template must pin the two-shape response contract
		if !strings.Contains(prompt, `"status": "success"`) || !strings.Contains(prompt, `{"status": "failed"}`) {
			t.Errorf("%s prompt missing response shape instructions", tt.category)
		}
		if !strings.Contains(prompt, "Example") {
			t.Errorf("%s prompt missing item name", tt.category)
		}
	}
}

func TestBuildMetadataPrompt_UserDescription(t *testing.T) {
	builder := NewMetadataPromptBuilder()

	prompt := builder.BuildMetadataPrompt("Doom", models.CategoryGames, "video_games", "the 1993 original, not the reboot")
	if !strings.Contains(prompt, "the 1993 original, not the reboot") {
		t.Error("prompt must carry the user-provided description for disambiguation")
	}

	without := builder.BuildMetadataPrompt("Doom", models.CategoryGames, "video_games", "")
	if strings.Contains(without, "requester describes") {
		t.Error("prompt must omit the disambiguation section when no description was given")
	}
}
