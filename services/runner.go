package services

import (
	"context"
	"log"
	"sync"

	"standvirtual-scraper/config"
	"standvirtual-scraper/models"
	"standvirtual-scraper/scraper"
)

// newSearcher builds the per-worker scraper. Swapped in tests to keep
// the pool exercisable without launching browsers.
var newSearcher = func(ctx context.Context, cfg config.Config) carSearcher {
	return scraper.New(ctx, cfg)
}

// RunAll processes queries through a bounded worker pool and returns
// results in original order. Each worker owns one Scraper instance (one
// browser process) for its whole lifetime — sessions are never shared
// across concurrent searches.
func RunAll(rootCtx context.Context, cfg config.Config) []models.QueryResult {
	ordered := make([]models.QueryResult, len(cfg.Queries))
	if len(cfg.Queries) == 0 {
		return ordered
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(cfg.Queries) {
		workers = len(cfg.Queries)
	}

	ai := NewGeminiClient(cfg)

	type queryJob struct {
		index int
		text  string
	}

	jobs := make(chan queryJob)
	results := make(chan models.QueryResult, len(cfg.Queries))

	var wg sync.WaitGroup
	for workerID := 0; workerID < workers; workerID++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			sc := newSearcher(rootCtx, cfg)
			defer sc.Close()

			for job := range jobs {
				log.Printf("[query %d] ▶ %q", job.index+1, job.text)
				result := ProcessQuery(rootCtx, sc, ai, job.text)
				result.Index = job.index
				if result.Err != nil {
					log.Printf("[query %d] ✗ %v", job.index+1, result.Err)
				} else {
					log.Printf("[query %d] ✓ %d listings", job.index+1, len(result.Cars))
				}
				results <- result
			}
		}()
	}

	go func() {
		for i, q := range cfg.Queries {
			jobs <- queryJob{index: i, text: q}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	for result := range results {
		ordered[result.Index] = result
	}

	return ordered
}
