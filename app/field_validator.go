package app

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"toplist/models"
)

// Category/subcategory-specific controlled vocabularies for the group
// field. Used for normalization only, never strict rejection: an unknown
// group passes through unchanged.
var categoryGroupVocabularies = map[models.Category]map[string][]string{
	models.CategoryGames: {
		"video_games": {
			"Action", "Adventure", "RPG", "Strategy", "Simulation",
			"Sports", "Racing", "Puzzle", "Platform", "Fighting",
			"Shooter", "Horror", "Indie", "MMO", "MOBA",
		},
	},
	models.CategorySports: {
		"soccer":     {"Club Team", "National Team", "League"},
		"basketball": {"NBA Team", "International Team", "College"},
		"hockey":     {"NHL Team", "International Team", "Junior League"},
	},
	models.CategoryMusic: {
		"artists": {"Pop", "Rock", "Hip-Hop", "Electronic", "Classical", "Jazz", "Country"},
		"albums":  {"Studio Album", "Live Album", "Compilation", "EP", "Soundtrack"},
	},
}

const (
	minItemYear        = 1800
	maxDescriptionLen  = 500
	yearFutureSlackMax = 2
)

// ValidateMetadata normalizes and bounds-checks a raw candidate mapping.
// Invalid values are dropped, not defaulted; the function is fail-open and
// degrades to an empty mapping on any internal fault.
func ValidateMetadata(raw map[string]interface{}, category models.Category, subcategory string) (validated models.CandidateMetadata) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[FieldValidator] Validation panicked, returning empty metadata: %v", r)
			validated = models.CandidateMetadata{}
		}
	}()

	if desc := stringValue(raw[models.FieldDescription]); desc != "" {
		// Bound is in characters, not bytes; slicing runes keeps
		// multibyte text valid UTF-8
		if runes := []rune(desc); len(runes) > maxDescriptionLen {
			desc = string(runes[:maxDescriptionLen])
		}
		validated.Description = &desc
	}

	if group := stringValue(raw[models.FieldGroup]); group != "" {
		normalized := NormalizeGroup(group, category, subcategory)
		validated.Group = &normalized
	}

	if year, ok := yearValue(raw[models.FieldItemYear]); ok {
		validated.ItemYear = &year
	}
	if year, ok := yearValue(raw[models.FieldItemYearTo]); ok {
		validated.ItemYearTo = &year
	}

	return validated
}

// NormalizeGroup maps a raw group string onto the controlled vocabulary for
// the category/subcategory when one exists: case-insensitive exact match
// first, then case-insensitive substring match in either direction. The
// first match wins and replaces the value with canonical casing. No match
// passes the raw value through unchanged.
func NormalizeGroup(group string, category models.Category, subcategory string) string {
	subcategories, ok := categoryGroupVocabularies[category]
	if !ok {
		return group
	}
	vocabulary, ok := subcategories[subcategory]
	if !ok {
		return group
	}

	lower := strings.ToLower(group)

	for _, canonical := range vocabulary {
		if lower == strings.ToLower(canonical) {
			return canonical
		}
	}
	for _, canonical := range vocabulary {
		canonicalLower := strings.ToLower(canonical)
		if strings.Contains(lower, canonicalLower) || strings.Contains(canonicalLower, lower) {
			return canonical
		}
	}

	return group
}

// stringValue casts a raw JSON value to a usable string; nil and
// unsupported types become ""
func stringValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// yearValue parses a raw JSON value as a year and bounds-checks it.
// Out-of-range or unparseable values are dropped silently.
func yearValue(v interface{}) (int, bool) {
	var year int
	switch t := v.(type) {
	case float64:
		year = int(t)
	case int:
		year = t
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		year = parsed
	default:
		return 0, false
	}

	if year < minItemYear || year > time.Now().Year()+yearFutureSlackMax {
		return 0, false
	}
	return year, true
}
