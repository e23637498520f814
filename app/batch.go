package app

import (
	"context"
	"log"
	"sync"

	"toplist/models"

	"golang.org/x/sync/semaphore"
)

// BatchItem is one row of a bulk research run
type BatchItem struct {
	Name        string
	Category    models.Category
	Subcategory string
}

// BatchOutcome pairs an input row with its pipeline result
type BatchOutcome struct {
	Item     BatchItem
	Response *models.ItemResearchResponse
	Err      error
}

// ProcessBatch runs the auto-creating research pipeline for every item with
// at most concurrency requests in flight. Outcomes come back in input
// order. The duplicate gate still applies per item; rows colliding with
// existing catalog entries are blocked, not errored.
func (s *ResearchService) ProcessBatch(ctx context.Context, items []BatchItem, concurrency int64) []BatchOutcome {
	if concurrency < 1 {
		concurrency = 1
	}

	log.Printf("[ResearchService] Batch researching %d items (max %d concurrent)", len(items), concurrency)

	sem := semaphore.NewWeighted(concurrency)
	outcomes := make([]BatchOutcome, len(items))
	var wg sync.WaitGroup

	for i, item := range items {
		if err := sem.Acquire(ctx, 1); err != nil {
			outcomes[i] = BatchOutcome{Item: item, Err: err}
			continue
		}

		wg.Add(1)
		go func(i int, item BatchItem) {
			defer wg.Done()
			defer sem.Release(1)

			response, err := s.ProcessResearchRequest(ctx, models.ItemResearchRequest{
				Name:            item.Name,
				Category:        item.Category,
				Subcategory:     item.Subcategory,
				AutoCreate:      true,
				ResearchDepth:   models.DepthStandard,
				DuplicateAction: models.DuplicateReject,
			})
			outcomes[i] = BatchOutcome{Item: item, Response: response, Err: err}
		}(i, item)
	}

	wg.Wait()
	return outcomes
}
