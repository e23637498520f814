package ports

import "context"

// LLMClient is the research pipeline's view of a text-generation provider.
// Implementations own their own timeout enforcement; the pipeline makes a
// single attempt per request and degrades on failure rather than retrying.
type LLMClient interface {
	// IsAvailable reports whether the client is configured and reachable
	// enough to attempt a call. Cheap; no network round trip required.
	IsAvailable() bool

	// Generate sends one prompt and returns the raw response text.
	Generate(ctx context.Context, prompt string) (string, error)
}
