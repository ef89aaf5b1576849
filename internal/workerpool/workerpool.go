// Package workerpool runs an indexed unit of work over a worker pool,
// generalising the teacher's LoadCellsParallel to the three independent
// parallelisation axes named in §5: per-day labelling, per-(track,
// variable) normalisation, and per-(r, θ, p, v) composite reduction. Each
// axis is just "index i in [0, n) produces result[i] independently", so
// one generic Map replaces three near-identical worker pools.
package workerpool

import (
	"fmt"
	"io"
	"runtime"
	"sync"
)

// Options controls parallel execution and error handling, mirroring the
// teacher's LoadOptions.
type Options struct {
	// Parallel enables concurrent execution across Workers goroutines.
	Parallel bool
	// Workers is the worker goroutine count. Zero defaults to
	// runtime.NumCPU().
	Workers int
	// SkipErrors continues past a failed index, collecting its error,
	// instead of aborting the whole Map.
	SkipErrors bool
	// Progress is called after each index completes (successfully or
	// not): (done, total).
	Progress func(done, total int)
	// ErrorLog, if set, receives one line per failed index.
	ErrorLog io.Writer
}

// DefaultOptions returns sensible parallel defaults: Parallel=true,
// Workers=runtime.NumCPU(), SkipErrors=true.
func DefaultOptions() Options {
	return Options{Parallel: true, Workers: runtime.NumCPU(), SkipErrors: true}
}

// Map runs fn(i) for i in [0, n), returning results indexed the same way
// as the input. A result index whose fn call errored holds R's zero
// value; its error is included in the returned slice (order
// unspecified). If SkipErrors is false, the first error aborts the run
// and Map returns immediately with a single-element error slice and a nil
// results slice.
func Map[R any](n int, opts Options, fn func(i int) (R, error)) ([]R, []error) {
	if n == 0 {
		return []R{}, nil
	}
	if !opts.Parallel {
		return mapSerial(n, opts, fn)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	type result struct {
		index int
		value R
		err   error
	}

	jobs := make(chan int, n)
	results := make(chan result, n)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				v, err := fn(i)
				results <- result{index: i, value: v, err: err}
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]R, n)
	var errs []error
	done := 0
	for r := range results {
		done++
		if opts.Progress != nil {
			opts.Progress(done, n)
		}
		if r.err != nil {
			err := fmt.Errorf("index %d: %w", r.index, r.err)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "workerpool: %v\n", err)
			}
			if !opts.SkipErrors {
				return nil, []error{err}
			}
			errs = append(errs, err)
			continue
		}
		out[r.index] = r.value
	}
	return out, errs
}

func mapSerial[R any](n int, opts Options, fn func(i int) (R, error)) ([]R, []error) {
	out := make([]R, n)
	var errs []error
	for i := 0; i < n; i++ {
		v, err := fn(i)
		if opts.Progress != nil {
			opts.Progress(i+1, n)
		}
		if err != nil {
			wrapped := fmt.Errorf("index %d: %w", i, err)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "workerpool: %v\n", wrapped)
			}
			if !opts.SkipErrors {
				return nil, []error{wrapped}
			}
			errs = append(errs, wrapped)
			continue
		}
		out[i] = v
	}
	return out, errs
}
