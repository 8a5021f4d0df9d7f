package generate

import (
	"context"
	"sync"
)

// MaxParallel caps the number of concurrent generation attempts a single
// tool call may request.
const MaxParallel = 8

// DefaultParallel is the batch concurrency used when a request does not
// specify one.
const DefaultParallel = 2

// attemptFunc produces the artifact for one batch slot.
type attemptFunc func(ctx context.Context, index int) (*Artifact, *Error)

// runBatch runs n attempts with at most parallel in flight, gated by a
// channel semaphore. Every attempt runs to completion regardless of sibling
// failures; results come back in submission order, successes and failures
// partitioned separately.
func runBatch(ctx context.Context, n, parallel int, fn attemptFunc) ([]*Artifact, []*Error) {
	if parallel < 1 {
		parallel = 1
	}
	if parallel > MaxParallel {
		parallel = MaxParallel
	}

	type slot struct {
		artifact *Artifact
		err      *Error
	}
	results := make([]slot, n)

	sem := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			artifact, err := fn(ctx, i)
			results[i] = slot{artifact: artifact, err: err}
		}(i)
	}
	wg.Wait()

	var artifacts []*Artifact
	var errs []*Error
	for _, s := range results {
		if s.err != nil {
			errs = append(errs, s.err)
			continue
		}
		artifacts = append(artifacts, s.artifact)
	}
	return artifacts, errs
}
