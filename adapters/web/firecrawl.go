package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"toplist/internal/config"
	"toplist/internal/errors"
	"toplist/models"
	"toplist/ports"
)

// FirecrawlClient implements ports.WebResearchClient using the Firecrawl
// search + scrape API, restricted to Wikipedia
type FirecrawlClient struct {
	APIKey       string
	BaseURL      string
	SearchLimit  int
	Timeout      time.Duration
	ScrapeWaitMs int

	httpClient *http.Client
}

// NewFirecrawlClient creates a Firecrawl client from config
func NewFirecrawlClient(cfg config.WebConfig) *FirecrawlClient {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.firecrawl.dev/v1"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	limit := cfg.SearchLimit
	if limit <= 0 {
		limit = 5
	}
	return &FirecrawlClient{
		APIKey:       cfg.APIKey,
		BaseURL:      baseURL,
		SearchLimit:  limit,
		Timeout:      timeout,
		ScrapeWaitMs: cfg.ScrapeWaitMs,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// IsAvailable reports whether the client is configured with credentials
func (c *FirecrawlClient) IsAvailable() bool {
	return c.APIKey != ""
}

// SearchMetadata finds the item's Wikipedia article and parses its infobox
// into a partial metadata mapping. Search or parse problems are reported
// in the result's Error field; only transport construction failures return
// a Go error.
func (c *FirecrawlClient) SearchMetadata(ctx context.Context, name string, category models.Category, subcategory string) (*ports.WebMetadataResult, error) {
	if !c.IsAvailable() {
		return &ports.WebMetadataResult{Error: "firecrawl not configured"}, nil
	}

	pageURL, err := c.searchWikipedia(ctx, name, subcategory)
	if err != nil {
		return &ports.WebMetadataResult{Error: fmt.Sprintf("wikipedia search failed: %v", err)}, nil
	}
	if pageURL == "" {
		return &ports.WebMetadataResult{Error: "no wikipedia article found"}, nil
	}

	log.Printf("[Firecrawl] Scraping %s for %q", pageURL, name)

	html, err := c.scrape(ctx, pageURL)
	if err != nil {
		return &ports.WebMetadataResult{Error: fmt.Sprintf("scrape failed: %v", err)}, nil
	}

	parsed := ParseWikipediaHTML(html, category)

	return &ports.WebMetadataResult{
		Success:      true,
		Metadata:     parsed.Metadata,
		ReferenceURL: pageURL,
		ParseMethod:  parsed.Method,
	}, nil
}

func (c *FirecrawlClient) searchWikipedia(ctx context.Context, name, subcategory string) (string, error) {
	query := fmt.Sprintf("%s %s wikipedia", name, subcategory)

	reqBody := map[string]interface{}{
		"query": query,
		"limit": c.SearchLimit,
	}

	var resp struct {
		Success bool `json:"success"`
		Data    []struct {
			URL   string `json:"url"`
			Title string `json:"title"`
		} `json:"data"`
	}
	if err := c.post(ctx, "/search", reqBody, &resp); err != nil {
		return "", err
	}

	for _, hit := range resp.Data {
		if strings.Contains(hit.URL, "wikipedia.org") &&
			!strings.Contains(hit.URL, "wiktionary.org") &&
			!strings.Contains(hit.URL, "wikiquote.org") {
			return hit.URL, nil
		}
	}
	return "", nil
}

func (c *FirecrawlClient) scrape(ctx context.Context, pageURL string) (string, error) {
	reqBody := map[string]interface{}{
		"url":             pageURL,
		"formats":         []string{"html"},
		"onlyMainContent": true,
		"waitFor":         c.ScrapeWaitMs,
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			HTML string `json:"html"`
		} `json:"data"`
	}
	if err := c.post(ctx, "/scrape", reqBody, &resp); err != nil {
		return "", err
	}
	if !resp.Success || resp.Data.HTML == "" {
		return "", fmt.Errorf("empty scrape result")
	}
	return resp.Data.HTML, nil
}

func (c *FirecrawlClient) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("firecrawl request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return errors.ExternalServiceError("firecrawl", fmt.Errorf("status %d: %s", resp.StatusCode, string(respRaw)))
	}
	return json.Unmarshal(respRaw, out)
}

// MockWebClient is a deterministic web-research client for testing; safe
// for concurrent use
type MockWebClient struct {
	Available bool
	Result    *ports.WebMetadataResult
	Err       error

	// Queries records every (name, category, subcategory) triple searched
	Queries []string

	mu sync.Mutex
}

func (m *MockWebClient) IsAvailable() bool {
	return m.Available
}

func (m *MockWebClient) SearchMetadata(ctx context.Context, name string, category models.Category, subcategory string) (*ports.WebMetadataResult, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, fmt.Sprintf("%s/%s/%s", name, category, subcategory))
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result != nil {
		return m.Result, nil
	}
	return &ports.WebMetadataResult{Error: "no result configured"}, nil
}

var _ ports.WebResearchClient = (*FirecrawlClient)(nil)
var _ ports.WebResearchClient = (*MockWebClient)(nil)
