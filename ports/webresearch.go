package ports

import (
	"context"

	"toplist/models"
)

// WebMetadataResult is the web collaborator's best-effort answer for one item
type WebMetadataResult struct {
	Success      bool
	Metadata     models.CandidateMetadata
	ReferenceURL string
	ParseMethod  string
	Error        string
}

// WebResearchClient searches the web (Wikipedia in practice) for item
// metadata. Results are partial and best-effort; a failed search is
// reported through the result's Error field, not a Go error, unless the
// transport itself broke.
type WebResearchClient interface {
	IsAvailable() bool

	SearchMetadata(ctx context.Context, name string, category models.Category, subcategory string) (*WebMetadataResult, error)
}
