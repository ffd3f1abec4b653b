// batch.go
// ---------
// The batch dispatcher fans many Add operations through the client with
// bounded concurrency. The bound is a counting semaphore: every item is
// scheduled immediately, but only the resolved limit may be in flight at
// once.
//
// Concurrency resolution: an explicit limit always wins. Otherwise, with
// adaptive concurrency enabled, the average size of a sample of up to the
// first ten items picks a tier: over 10 MiB → 5, over 1 MiB → 10, else 20.
// The tier is chosen once per batch and never re-evaluated mid-batch, even
// for heterogeneous batches.
package cognee

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	batchSampleSize = 10

	largeItemThreshold  = 10 << 20 // 10 MiB
	mediumItemThreshold = 1 << 20  // 1 MiB

	largeItemConcurrency    = 5
	mediumItemConcurrency   = 10
	smallItemConcurrency    = 20
	defaultBatchConcurrency = 10
)

// BatchOptions controls one AddBatch invocation.
type BatchOptions struct {
	// AddOptions addresses the target dataset, shared by every item.
	AddOptions

	// MaxConcurrent, when positive, is the exact concurrency bound and
	// disables adaptive sizing for this batch.
	MaxConcurrent int

	// ContinueOnError resolves every item even when some fail. When false,
	// the first failure is surfaced, in-flight items finish, and items not
	// yet started are never dispatched.
	ContinueOnError bool
}

// BatchItemResult is the resolved outcome of one batch item. Results are
// indexed by submission order, not completion order.
type BatchItemResult struct {
	Index  int
	Result *AddResult
	Err    error
}

// Succeeded reports whether the item resolved without error.
func (r BatchItemResult) Succeeded() bool { return r.Err == nil }

// BatchResult aggregates one batch invocation.
type BatchResult struct {
	// Items holds one resolved entry per submitted item, in submission
	// order.
	Items []BatchItemResult
	// Concurrency is the limit the dispatcher resolved for this batch.
	Concurrency int
}

// Errors returns the errors of failed items, in submission order.
func (r *BatchResult) Errors() []error {
	var errs []error
	for _, item := range r.Items {
		if item.Err != nil {
			errs = append(errs, item.Err)
		}
	}
	return errs
}

// AddBatch uploads many sources concurrently. Every submitted item is
// resolved exactly once. With ContinueOnError the full BatchResult is
// returned alongside a nil error even when items failed; without it the
// first failure is returned as the error and the partial BatchResult shows
// which items ran.
func (c *Client) AddBatch(ctx context.Context, sources []UploadSource, opts BatchOptions) (*BatchResult, error) {
	result := &BatchResult{Items: make([]BatchItemResult, len(sources))}
	for i := range result.Items {
		result.Items[i].Index = i
	}
	if len(sources) == 0 {
		return result, nil
	}
	if _, err := opts.AddOptions.form(); err != nil {
		return nil, err
	}

	limit := c.resolveConcurrency(sources, opts.MaxConcurrent)
	result.Concurrency = limit
	c.logger.Debug().
		Int("items", len(sources)).
		Int("concurrency", limit).
		Msg("dispatching batch")

	sem := semaphore.NewWeighted(int64(limit))

	if opts.ContinueOnError {
		g := new(errgroup.Group)
		for i, src := range sources {
			i, src := i, src
			g.Go(func() error {
				if err := sem.Acquire(ctx, 1); err != nil {
					result.Items[i].Err = err
					return nil
				}
				defer sem.Release(1)
				res, err := c.Add(ctx, []UploadSource{src}, opts.AddOptions)
				result.Items[i].Result = res
				result.Items[i].Err = err
				return nil
			})
		}
		_ = g.Wait()
		return result, nil
	}

	// Fail fast: the group context is canceled on the first failure, so
	// items still waiting on the semaphore never reach the network.
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				result.Items[i].Err = err
				return nil
			}
			defer sem.Release(1)
			res, err := c.Add(gctx, []UploadSource{src}, opts.AddOptions)
			result.Items[i].Result = res
			result.Items[i].Err = err
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

// resolveConcurrency picks the in-flight bound for one batch.
func (c *Client) resolveConcurrency(sources []UploadSource, explicit int) int {
	if explicit > 0 {
		return explicit
	}
	if !c.cfg.AdaptiveConcurrency {
		return defaultBatchConcurrency
	}

	sample := len(sources)
	if sample > batchSampleSize {
		sample = batchSampleSize
	}
	var total int64
	for _, src := range sources[:sample] {
		total += src.Size()
	}
	avg := total / int64(sample)

	switch {
	case avg > largeItemThreshold:
		return largeItemConcurrency
	case avg > mediumItemThreshold:
		return mediumItemConcurrency
	default:
		return smallItemConcurrency
	}
}
