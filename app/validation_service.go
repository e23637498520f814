package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"toplist/internal/errors"
	"toplist/models"
	"toplist/ports"

	"github.com/agnivade/levenshtein"
	"github.com/montanaflynn/stats"
)

// Names at or above this similarity count as near-duplicates
const duplicateSimilarityThreshold = 0.85

const (
	minNameLen        = 2
	maxNameLen        = 255
	maxSubcategoryLen = 100
)

// ValidationService validates research requests and guards against
// duplicate catalog entries
type ValidationService struct {
	items ports.ItemRepository
}

// NewValidationService creates a validation service
func NewValidationService(items ports.ItemRepository) *ValidationService {
	return &ValidationService{items: items}
}

// ValidateItemRequest checks the raw request inputs before any network or
// database work. Failures come back as human-readable messages, not errors.
func (s *ValidationService) ValidateItemRequest(name string, category models.Category, subcategory string) models.ValidationResult {
	var msgs []string

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		msgs = append(msgs, "name is required")
	} else if len(trimmed) < minNameLen {
		msgs = append(msgs, fmt.Sprintf("name must be at least %d characters", minNameLen))
	} else if len(trimmed) > maxNameLen {
		msgs = append(msgs, fmt.Sprintf("name must be at most %d characters", maxNameLen))
	}

	if !category.IsKnown() {
		msgs = append(msgs, fmt.Sprintf("unknown category %q", category))
	}

	if strings.TrimSpace(subcategory) == "" {
		msgs = append(msgs, "subcategory is required")
	} else if len(subcategory) > maxSubcategoryLen {
		msgs = append(msgs, fmt.Sprintf("subcategory must be at most %d characters", maxSubcategoryLen))
	}

	return models.ValidationResult{IsValid: len(msgs) == 0, Errors: msgs}
}

// CheckDuplicates queries the catalog for exact and near-duplicate rows.
// Always reads the catalog state at call time; results are never cached
// because the catalog can change between requests.
func (s *ValidationService) CheckDuplicates(ctx context.Context, name string, category models.Category, subcategory string) (*models.DuplicateInfo, error) {
	rows, err := s.items.Find(ctx, category, subcategory, "")
	if err != nil {
		return nil, errors.Wrap(err, "duplicate check query failed")
	}

	info := &models.DuplicateInfo{
		ExistingItems:    []models.Item{},
		SimilarityScores: []float64{},
	}

	target := strings.ToLower(strings.TrimSpace(name))
	for _, row := range rows {
		similarity := nameSimilarity(target, strings.ToLower(row.Name))
		if similarity < duplicateSimilarityThreshold {
			continue
		}
		info.ExistingItems = append(info.ExistingItems, row)
		info.SimilarityScores = append(info.SimilarityScores, similarity)
		if similarity == 1.0 {
			info.ExactMatch = true
		}
	}

	info.DuplicateCount = len(info.ExistingItems)
	info.IsDuplicate = info.DuplicateCount > 0

	if info.IsDuplicate {
		maxScore, _ := stats.Max(info.SimilarityScores)
		meanScore, _ := stats.Mean(info.SimilarityScores)
		log.Printf("[ValidationService] Found %d duplicate candidates for %q (max=%.2f mean=%.2f exact=%v)",
			info.DuplicateCount, name, maxScore, meanScore, info.ExactMatch)
	}

	return info, nil
}

// nameSimilarity maps Levenshtein distance onto [0,1]; 1.0 is identical
func nameSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1.0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(longest)
}
