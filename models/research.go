package models

// ResearchDepth controls how aggressively a research request is pursued
type ResearchDepth string

const (
	DepthQuick    ResearchDepth = "quick"
	DepthStandard ResearchDepth = "standard"
	DepthDeep     ResearchDepth = "deep"
)

// DuplicateAction tells the auto-create policy what to do with exact duplicates
type DuplicateAction string

const (
	DuplicateReject DuplicateAction = "reject"
	DuplicateAllow  DuplicateAction = "allow"
)

// Metadata field names shared between the research stages
const (
	FieldDescription  = "description"
	FieldGroup        = "group"
	FieldItemYear     = "item_year"
	FieldItemYearTo   = "item_year_to"
	FieldReferenceURL = "reference_url"
	FieldImageURL     = "image_url"
	FieldStatus       = "status"
)

// CandidateMetadata is one producer's partial view of an item's metadata.
// Nil pointers mean "unknown", never "empty". Each research stage emits its
// own CandidateMetadata and the fusion step merges them field by field.
type CandidateMetadata struct {
	Description  *string `json:"description,omitempty"`
	Group        *string `json:"group,omitempty"`
	ItemYear     *int    `json:"item_year,omitempty"`
	ItemYearTo   *int    `json:"item_year_to,omitempty"`
	ReferenceURL *string `json:"reference_url,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`
}

// IsEmpty reports whether no field carries a value
func (m CandidateMetadata) IsEmpty() bool {
	return m.Description == nil && m.Group == nil && m.ItemYear == nil &&
		m.ItemYearTo == nil && m.ReferenceURL == nil && m.ImageURL == nil
}

// MissingCoreFields returns the core attribute names this mapping lacks.
// Only description/group/item_year count as core; reference_url and
// image_url are enhancement fields that the web stage always attempts.
func (m CandidateMetadata) MissingCoreFields() []string {
	var missing []string
	if m.Description == nil || *m.Description == "" {
		missing = append(missing, FieldDescription)
	}
	if m.Group == nil || *m.Group == "" {
		missing = append(missing, FieldGroup)
	}
	if m.ItemYear == nil || *m.ItemYear == 0 {
		missing = append(missing, FieldItemYear)
	}
	return missing
}

// ResearchRequest is the immutable input to one research invocation
type ResearchRequest struct {
	Name            string        `json:"name"`
	Category        Category      `json:"category"`
	Subcategory     string        `json:"subcategory"`
	UserDescription string        `json:"user_provided_description,omitempty"`
	ResearchDepth   ResearchDepth `json:"research_depth"`
}

// ResearchResult is the fused output of the LLM and web research stages.
// Constructed once per request; callers may append informational messages
// to ResearchErrors but must not mutate researched field values.
type ResearchResult struct {
	Description  *string `json:"description"`
	Group        *string `json:"group"`
	ItemYear     *int    `json:"item_year"`
	ItemYearTo   *int    `json:"item_year_to"`
	ReferenceURL *string `json:"reference_url"`
	ImageURL     *string `json:"image_url"`

	LLMConfidence   int      `json:"llm_confidence"`
	WebSourcesFound int      `json:"web_sources_found"`
	ResearchMethod  string   `json:"research_method"`
	ResearchErrors  []string `json:"research_errors"`
	ResearchDepth   string   `json:"research_depth"`

	PrimarySource           string   `json:"primary_source,omitempty"`
	EnhancementSource       string   `json:"enhancement_source,omitempty"`
	MissingAttributesFilled []string `json:"missing_attributes_filled,omitempty"`
}

// Metadata collects the fused fields back into one CandidateMetadata view
func (r *ResearchResult) Metadata() CandidateMetadata {
	return CandidateMetadata{
		Description:  r.Description,
		Group:        r.Group,
		ItemYear:     r.ItemYear,
		ItemYearTo:   r.ItemYearTo,
		ReferenceURL: r.ReferenceURL,
		ImageURL:     r.ImageURL,
	}
}

// DuplicateInfo describes catalog collisions found for a research request.
// Computed fresh per request; the catalog can change between calls.
type DuplicateInfo struct {
	IsDuplicate      bool      `json:"is_duplicate"`
	DuplicateCount   int       `json:"duplicate_count"`
	ExistingItems    []Item    `json:"existing_items"`
	SimilarityScores []float64 `json:"similarity_scores"`
	ExactMatch       bool      `json:"exact_match"`
}

// ValidationResult is the outcome of pre-research input validation
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// ItemResearchRequest is the request-level input with policy flags
type ItemResearchRequest struct {
	Name            string          `json:"name"`
	Category        Category        `json:"category"`
	Subcategory     string          `json:"subcategory"`
	UserDescription string          `json:"user_provided_description,omitempty"`
	AutoCreate      bool            `json:"auto_create"`
	AllowDuplicate  bool            `json:"allow_duplicate"`
	ResearchDepth   ResearchDepth   `json:"research_depth"`
	DuplicateAction DuplicateAction `json:"duplicate_action"`
}

// ItemResearchResponse is the full pipeline output including the duplicate
// gate outcome and the auto-create result
type ItemResearchResponse struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Subcategory string   `json:"subcategory"`

	IsValid          bool     `json:"is_valid"`
	ValidationErrors []string `json:"validation_errors,omitempty"`

	DuplicateInfo DuplicateInfo `json:"duplicate_info"`

	ResearchPerformed bool            `json:"research_performed"`
	Research          *ResearchResult `json:"research,omitempty"`

	ItemCreated bool   `json:"item_created"`
	ItemID      string `json:"item_id,omitempty"`
}
