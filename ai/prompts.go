package ai

import (
	"fmt"
	"strings"

	"toplist/models"
)

// MetadataPromptBuilder renders category-specific research prompts.
// Every template instructs the model to answer with exactly one of two JSON
// shapes so the recovery stages have a predictable target:
//
//	{"status":"success", "item_year":..., "item_year_to":..., "reference_url":..., "image_url":..., "group":..., "description":...}
//	{"status":"failed"}
type MetadataPromptBuilder struct{}

// NewMetadataPromptBuilder creates a prompt builder
func NewMetadataPromptBuilder() *MetadataPromptBuilder {
	return &MetadataPromptBuilder{}
}

const responseShapeInstructions = `Respond with EXACTLY ONE of these two JSON objects and nothing else:

If you know this item:
{"status": "success", "item_year": <int>, "item_year_to": <int or omit>, "reference_url": "<url or omit>", "image_url": "<url or omit>", "group": "<string>", "description": "<max 500 chars>"}

If you do not recognize this item or are unsure:
{"status": "failed"}

Do not wrap the JSON in markdown. Do not add commentary.`

// BuildMetadataPrompt renders the research prompt for one item
func (b *MetadataPromptBuilder) BuildMetadataPrompt(name string, category models.Category, subcategory, userDescription string) string {
	var sb strings.Builder

	switch category {
	case models.CategorySports:
		fmt.Fprintf(&sb, "You are a sports historian. Research the %s player/entity %q.\n", subcategory, name)
		sb.WriteString("item_year is the year their professional career started, item_year_to the year it ended (omit if still active).\n")
		sb.WriteString("group is the club, national team or league they are most associated with.\n")
		sb.WriteString("description is a factual career summary.\n")
	case models.CategoryGames:
		fmt.Fprintf(&sb, "You are a video game encyclopedia. Research the %s title %q.\n", subcategory, name)
		sb.WriteString("item_year is the original release year (omit item_year_to unless it is an episodic series).\n")
		sb.WriteString("group is the primary genre (e.g. Action, RPG, Strategy, Shooter).\n")
		sb.WriteString("description covers developer, gameplay and reception.\n")
	case models.CategoryMusic:
		fmt.Fprintf(&sb, "You are a music archivist. Research the %s %q.\n", subcategory, name)
		sb.WriteString("item_year is when the artist formed or the album released; item_year_to when they disbanded (omit if active).\n")
		sb.WriteString("group is the primary genre (e.g. Pop, Rock, Hip-Hop, Jazz).\n")
		sb.WriteString("description covers origin, style and notable work.\n")
	default:
		fmt.Fprintf(&sb, "Research the %s item %q and summarize its key facts.\n", subcategory, name)
		sb.WriteString("item_year is the year it originated; group is its most natural grouping label.\n")
	}

	if userDescription != "" {
		fmt.Fprintf(&sb, "\nThe requester describes it as: %q. Use this only to disambiguate, not as a fact source.\n", userDescription)
	}

	sb.WriteString("\n")
	sb.WriteString(responseShapeInstructions)
	return sb.String()
}
