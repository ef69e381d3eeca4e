package provider

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"taskchat/model"
)

const maxConcurrentPings = 4

// PingResult is the outcome of checking one provider.
type PingResult struct {
	ProviderID string
	Model      string
	Latency    time.Duration
	Err        error
}

// PingAll checks every provider concurrently and returns the results sorted
// by provider id. A failing provider does not stop the others.
func PingAll(ctx context.Context, providers map[string]model.Provider, timeout time.Duration) []PingResult {
	var (
		mu      sync.Mutex
		results = make([]PingResult, 0, len(providers))
	)

	// Ping errors are results, not group failures, so no goroutine cancels
	// the others.
	var g errgroup.Group
	g.SetLimit(maxConcurrentPings)
	for id, p := range providers {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			start := time.Now()
			err := p.Ping(pctx)

			mu.Lock()
			results = append(results, PingResult{
				ProviderID: id,
				Model:      p.GetModel(),
				Latency:    time.Since(start),
				Err:        err,
			})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].ProviderID < results[j].ProviderID })
	return results
}
