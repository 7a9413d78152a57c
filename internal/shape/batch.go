package shape

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"
)

// Job is one image in a batch. Load is called from a worker goroutine and
// must not share mutable state with other jobs.
type Job struct {
	Name string
	Load func() (*Grid, error)
}

// BatchResult is the outcome of one Job: either Features or Err is set.
type BatchResult struct {
	Name     string      `json:"name"`
	Features *FeatureSet `json:"features,omitempty"`
	Err      error       `json:"-"`
}

// ExtractBatch loads and extracts every job using at most workers
// goroutines. Results are returned in job order.
//
// A failing job records its error on its own result and never stops the
// others. The returned error is only non-nil when ctx is cancelled; jobs not
// started by then carry ctx.Err().
func ExtractBatch(ctx context.Context, jobs []Job, workers int) ([]BatchResult, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]BatchResult, len(jobs))
	for i, job := range jobs {
		results[i].Name = job.Name
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for i, job := range jobs {
		i, job := i, job // per-iteration copies (go.mod targets Go 1.21)
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			fs, err := extractJob(job)
			if err != nil {
				log.Printf("Failed to extract %s: %v", job.Name, err)
				results[i].Err = err
				return nil
			}
			results[i].Features = fs
			return nil
		})
	}

	// workers never return errors; only cancellation surfaces here
	_ = g.Wait()
	return results, ctx.Err()
}

func extractJob(job Job) (*FeatureSet, error) {
	if job.Load == nil {
		return nil, fmt.Errorf("no loader for %s", job.Name)
	}
	grid, err := job.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", job.Name, err)
	}
	return Extract(grid)
}
