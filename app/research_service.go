package app

import (
	"context"
	"fmt"
	"log"

	"toplist/models"
	"toplist/ports"
)

// Auto-creation requires research confidence strictly above this value
const autoCreateConfidenceThreshold = 70

// ResearchService drives the full request pipeline: input validation, the
// duplicate gate, metadata research and the auto-create decision
type ResearchService struct {
	validation *ValidationService
	metadata   *MetadataService
	items      ports.ItemRepository
}

// NewResearchService creates the request-level research service
func NewResearchService(validation *ValidationService, metadata *MetadataService, items ports.ItemRepository) *ResearchService {
	return &ResearchService{
		validation: validation,
		metadata:   metadata,
		items:      items,
	}
}

// ProcessResearchRequest runs the whole pipeline for one request.
//
// Flow: validate inputs -> duplicate gate -> research -> auto-create
// policy. A duplicate-gate block skips research entirely; a persistence
// failure during auto-create degrades to a research error instead of
// failing the response, since the research results remain valid.
func (s *ResearchService) ProcessResearchRequest(ctx context.Context, req models.ItemResearchRequest) (*models.ItemResearchResponse, error) {
	log.Printf("[ResearchService] Starting item research for: %s (%s/%s)", req.Name, req.Category, req.Subcategory)

	response := &models.ItemResearchResponse{
		Name:        req.Name,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		IsValid:     true,
		DuplicateInfo: models.DuplicateInfo{
			ExistingItems:    []models.Item{},
			SimilarityScores: []float64{},
		},
	}

	// Step 1: basic validation, before any network or DB work
	validation := s.validation.ValidateItemRequest(req.Name, req.Category, req.Subcategory)
	if !validation.IsValid {
		response.IsValid = false
		response.ValidationErrors = validation.Errors
		return response, nil
	}

	// Step 2: duplicate gate
	duplicateInfo, err := s.validation.CheckDuplicates(ctx, req.Name, req.Category, req.Subcategory)
	if err != nil {
		return nil, err
	}
	response.DuplicateInfo = *duplicateInfo

	if duplicateInfo.IsDuplicate && !req.AllowDuplicate {
		log.Printf("[ResearchService] Duplicate found for %s, blocking research (allow_duplicate=false)", req.Name)
		response.Research = &models.ResearchResult{
			ResearchMethod: "blocked_by_duplicate",
			ResearchErrors: []string{fmt.Sprintf("Item already exists in database. %d similar items found.", duplicateInfo.DuplicateCount)},
		}
		return response, nil
	}

	// Step 3: research
	log.Printf("[ResearchService] Performing research for %s (duplicates: %d, allowed: %v)",
		req.Name, duplicateInfo.DuplicateCount, req.AllowDuplicate)

	research := s.metadata.ResearchItemMetadata(ctx, models.ResearchRequest{
		Name:            req.Name,
		Category:        req.Category,
		Subcategory:     req.Subcategory,
		UserDescription: req.UserDescription,
		ResearchDepth:   req.ResearchDepth,
	})
	response.ResearchPerformed = true
	response.Research = research

	if duplicateInfo.IsDuplicate {
		research.ResearchErrors = append(research.ResearchErrors,
			fmt.Sprintf("Note: %d similar items already exist in database", duplicateInfo.DuplicateCount))
	}

	// Step 4: auto-create policy
	shouldAutoCreate := req.AutoCreate &&
		research.LLMConfidence > autoCreateConfidenceThreshold &&
		(!duplicateInfo.ExactMatch || req.DuplicateAction == models.DuplicateAllow)

	if shouldAutoCreate {
		created, err := s.CreateItemFromResearch(ctx, req.Name, req.Category, req.Subcategory, research)
		if err != nil {
			log.Printf("[ResearchService] Auto-creation failed for %s: %v", req.Name, err)
			research.ResearchErrors = append(research.ResearchErrors, fmt.Sprintf("Auto-creation failed: %v", err))
		} else {
			response.ItemCreated = true
			response.ItemID = created.ID.String()
			log.Printf("[ResearchService] Auto-created item: %s (%s)", created.Name, created.ID)
		}
	} else if req.AutoCreate && duplicateInfo.ExactMatch {
		research.ResearchErrors = append(research.ResearchErrors, "Auto-creation blocked: exact duplicate found")
	}

	log.Printf("[ResearchService] Item research completed for %s (confidence: %d%%)", req.Name, research.LLMConfidence)
	return response, nil
}

// CreateItemFromResearch persists a catalog item from fused research data
func (s *ResearchService) CreateItemFromResearch(ctx context.Context, name string, category models.Category, subcategory string, research *models.ResearchResult) (*models.Item, error) {
	created, err := s.items.Insert(ctx, models.ItemCreate{
		Name:         name,
		Category:     category,
		Subcategory:  subcategory,
		Group:        research.Group,
		Description:  research.Description,
		ItemYear:     research.ItemYear,
		ItemYearTo:   research.ItemYearTo,
		ReferenceURL: research.ReferenceURL,
		ImageURL:     research.ImageURL,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[ResearchService] Created item from research: %s (%s)", created.Name, created.ID)
	return created, nil
}

// Research runs pure metadata research without the duplicate gate or any
// persistence
func (s *ResearchService) Research(ctx context.Context, req models.ResearchRequest) *models.ResearchResult {
	return s.metadata.ResearchItemMetadata(ctx, req)
}

// QuickValidate estimates research success confidence without network calls
func (s *ResearchService) QuickValidate(name string, category models.Category, subcategory string) int {
	return s.metadata.QuickValidate(name, category, subcategory)
}
