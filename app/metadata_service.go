package app

import (
	"context"
	"fmt"
	"log"

	"toplist/ai"
	"toplist/models"
	"toplist/ports"
)

// Fixed-confidence heuristics. Downstream auto-create thresholds depend on
// these exact values; do not tune them casually.
const (
	llmConfidence      = 90
	webConfidence      = 70
	webEnhancementBump = 5
	confidenceCap      = 95
)

const (
	methodLLMResearch    = "groq_metadata_research"
	methodWebEnhancement = "wikipedia_enhancement"
	methodCombined       = "llm_primary_web_enhancement"
	methodFailed         = "failed"
)

// MetadataService researches item metadata with the LLM as primary source
// and Wikipedia scraping for enhancement of missing fields
type MetadataService struct {
	llm     ports.LLMClient
	web     ports.WebResearchClient
	prompts *ai.MetadataPromptBuilder
}

// NewMetadataService creates a metadata research service
func NewMetadataService(llm ports.LLMClient, web ports.WebResearchClient) *MetadataService {
	return &MetadataService{
		llm:     llm,
		web:     web,
		prompts: ai.NewMetadataPromptBuilder(),
	}
}

// llmStageResult carries the LLM stage's outcome through the pipeline as
// data; stage failures live in errMsg, never as Go errors
type llmStageResult struct {
	confidence int
	data       models.CandidateMetadata
	method     string
	errMsg     string
}

// webStageResult carries the web enhancement stage's outcome
type webStageResult struct {
	confidence int
	data       models.CandidateMetadata
	method     string
	errMsg     string
	filled     []string
}

// ResearchItemMetadata runs the full two-stage research pipeline and fuses
// the results with the LLM as primary source. This is the single
// fatal-catch boundary: nothing below may escape as a panic.
func (s *MetadataService) ResearchItemMetadata(ctx context.Context, req models.ResearchRequest) (result *models.ResearchResult) {
	depth := req.ResearchDepth
	if depth == "" {
		depth = models.DepthStandard
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[MetadataService] Research pipeline failed for %s: %v", req.Name, r)
			result = &models.ResearchResult{
				LLMConfidence:  0,
				ResearchMethod: methodFailed,
				ResearchErrors: []string{fmt.Sprintf("%v", r)},
				ResearchDepth:  string(depth),
			}
		}
	}()

	log.Printf("[MetadataService] Researching metadata for: %s (%s/%s) - depth: %s",
		req.Name, req.Category, req.Subcategory, depth)

	// Stage 1: LLM research (primary). Its data feeds the missing-field
	// computation even when empty or errored.
	llmRes := s.researchWithLLM(ctx, req.Name, req.Category, req.Subcategory, req.UserDescription)

	// Stage 2: web research, only for what the LLM left open
	webRes := s.researchWithWeb(ctx, req.Name, req.Category, req.Subcategory, llmRes.data)

	result = fuseResults(llmRes, webRes)
	result.ResearchDepth = string(depth)

	log.Printf("[MetadataService] Research completed for %s with %d%% confidence", req.Name, result.LLMConfidence)
	return result
}

// researchWithLLM queries the LLM for metadata. Returns a fixed confidence
// of 90 on success: no per-answer scoring signal is available from the
// provider, so the constant stands in for one.
func (s *MetadataService) researchWithLLM(ctx context.Context, name string, category models.Category, subcategory, userDescription string) llmStageResult {
	if !s.llm.IsAvailable() {
		return llmStageResult{errMsg: "LLM client not available"}
	}

	prompt := s.prompts.BuildMetadataPrompt(name, category, subcategory, userDescription)

	log.Printf("[MetadataService] Using LLM as primary metadata source for: %s", name)

	raw, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[MetadataService] LLM research failed for %s: %v", name, err)
		return llmStageResult{errMsg: err.Error()}
	}

	parsed, ok := ai.ExtractJSON(raw)
	if !ok {
		return llmStageResult{errMsg: "no parseable JSON in LLM response"}
	}
	if status, _ := parsed[models.FieldStatus].(string); status == "failed" {
		return llmStageResult{errMsg: "LLM reported status failed"}
	}

	validated := ValidateMetadata(parsed, category, subcategory)

	return llmStageResult{
		confidence: llmConfidence,
		data:       validated,
		method:     methodLLMResearch,
	}
}

// researchWithWeb queries Wikipedia for attributes the LLM left missing.
// reference_url and image_url are always attempted from the web regardless
// of LLM output; LLM knowledge is treated as unreliable for exact URLs.
func (s *MetadataService) researchWithWeb(ctx context.Context, name string, category models.Category, subcategory string, llmData models.CandidateMetadata) webStageResult {
	if !s.web.IsAvailable() {
		return webStageResult{errMsg: "web research client not available"}
	}

	missing := llmData.MissingCoreFields()
	wantsCore := map[string]bool{}
	for _, field := range missing {
		wantsCore[field] = true
	}

	log.Printf("[MetadataService] Searching Wikipedia for missing attributes %v for %s", missing, name)

	webResult, err := s.web.SearchMetadata(ctx, name, category, subcategory)
	if err != nil {
		log.Printf("[MetadataService] Web research failed for %s: %v", name, err)
		return webStageResult{errMsg: err.Error()}
	}
	if !webResult.Success {
		errMsg := webResult.Error
		if errMsg == "" {
			errMsg = "Wikipedia search failed"
		}
		return webStageResult{errMsg: errMsg}
	}

	// Filter down to exactly the missing fields with values present
	var filtered models.CandidateMetadata
	var filled []string

	if wantsCore[models.FieldDescription] && webResult.Metadata.Description != nil {
		filtered.Description = webResult.Metadata.Description
		filled = append(filled, models.FieldDescription)
	}
	if wantsCore[models.FieldGroup] && webResult.Metadata.Group != nil {
		group := NormalizeGroup(*webResult.Metadata.Group, category, subcategory)
		filtered.Group = &group
		filled = append(filled, models.FieldGroup)
	}
	if wantsCore[models.FieldItemYear] && webResult.Metadata.ItemYear != nil {
		filtered.ItemYear = webResult.Metadata.ItemYear
		filled = append(filled, models.FieldItemYear)
		if webResult.Metadata.ItemYearTo != nil {
			filtered.ItemYearTo = webResult.Metadata.ItemYearTo
		}
	}
	if webResult.Metadata.ImageURL != nil {
		filtered.ImageURL = webResult.Metadata.ImageURL
		filled = append(filled, models.FieldImageURL)
	}
	if webResult.ReferenceURL != "" {
		ref := webResult.ReferenceURL
		filtered.ReferenceURL = &ref
		filled = append(filled, models.FieldReferenceURL)
	}

	return webStageResult{
		confidence: webConfidence,
		data:       filtered,
		method:     methodWebEnhancement,
		filled:     filled,
	}
}

// fuseResults merges the two stage outputs under the fixed precedence rule:
// LLM wins for description/group/item_year/item_year_to, the web stage is
// the only source for reference_url/image_url.
func fuseResults(llmRes llmStageResult, webRes webStageResult) *models.ResearchResult {
	result := &models.ResearchResult{
		ResearchMethod: methodCombined,
		ResearchErrors: []string{},
		PrimarySource:  "llm_training_data",
	}

	if llmRes.errMsg != "" {
		result.ResearchErrors = append(result.ResearchErrors, "LLM: "+llmRes.errMsg)
	}
	if webRes.errMsg != "" {
		result.ResearchErrors = append(result.ResearchErrors, "Web: "+webRes.errMsg)
	}

	// The bonus rewards successful enhancement of a successful LLM answer;
	// a failed LLM stage stays at zero regardless of what the web found.
	result.LLMConfidence = llmRes.confidence
	webContributed := webRes.confidence > 0 && !webRes.data.IsEmpty()
	if webContributed && llmRes.confidence > 0 {
		result.LLMConfidence = llmRes.confidence + webEnhancementBump
		if result.LLMConfidence > confidenceCap {
			result.LLMConfidence = confidenceCap
		}
	}

	if webRes.confidence > 0 {
		result.WebSourcesFound = 1
	}

	result.Description = pickString(llmRes.data.Description, webRes.data.Description)
	result.Group = pickString(llmRes.data.Group, webRes.data.Group)
	result.ItemYear = pickInt(llmRes.data.ItemYear, webRes.data.ItemYear)
	result.ItemYearTo = pickInt(llmRes.data.ItemYearTo, webRes.data.ItemYearTo)

	// Web-only attributes, never taken from the LLM
	result.ReferenceURL = webRes.data.ReferenceURL
	result.ImageURL = webRes.data.ImageURL

	if webContributed {
		result.EnhancementSource = "wikipedia"
	}
	result.MissingAttributesFilled = webRes.filled

	return result
}

func pickString(primary, fallback *string) *string {
	if primary != nil && *primary != "" {
		return primary
	}
	if fallback != nil && *fallback != "" {
		return fallback
	}
	return nil
}

func pickInt(primary, fallback *int) *int {
	if primary != nil && *primary != 0 {
		return primary
	}
	if fallback != nil && *fallback != 0 {
		return fallback
	}
	return nil
}

// QuickValidate estimates research success confidence without performing
// network research; only availability checks are consulted
func (s *MetadataService) QuickValidate(name string, category models.Category, subcategory string) (confidence int) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[MetadataService] Quick validation failed for %s: %v", name, r)
			confidence = 20
		}
	}()

	confidence = 50

	if len(name) > 2 && len(name) < 100 {
		confidence += 10
	}
	if s.llm.IsAvailable() {
		confidence += 30
	}
	if s.web.IsAvailable() {
		confidence += 10
	}
	switch category {
	case models.CategoryGames, models.CategorySports, models.CategoryMusic:
		confidence += 10
	}

	if confidence > confidenceCap {
		confidence = confidenceCap
	}

	log.Printf("[MetadataService] Quick validation for %s (%s/%s): %d%%", name, category, subcategory, confidence)
	return confidence
}
