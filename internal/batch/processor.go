// Package batch runs background body loads on a worker pool and tracks
// which of them are still outstanding.
package batch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Config controls a batch run.
type Config struct {
	Workers int
	Log     *slog.Logger

	// Interval between progress log lines. Zero uses two seconds.
	Interval time.Duration
}

// Result holds the outcome of processing one name.
type Result struct {
	Name    string
	Success bool
	Error   string
}

// Run calls fn for every name using a worker pool and returns one result
// per name, in input order. A failing name does not stop the others.
// Names not yet started when ctx is cancelled fail with ctx's error.
func Run(ctx context.Context, cfg Config, names []string, fn func(ctx context.Context, name string) error) []Result {
	total := len(names)
	results := make([]Result, total)
	if total == 0 {
		return results
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	var processed atomic.Int64
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Info("background load", "done", p, "total", total, "per_sec", rate)
				}
			}
		}
	}()

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = process(ctx, names[idx], fn)
				processed.Add(1)
			}
		}()
	}

dispatch:
	for i := range names {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < total; j++ {
				results[j] = Result{Name: names[j], Error: ctx.Err().Error()}
			}
			break dispatch
		}
	}
	close(jobs)

	wg.Wait()
	close(done)

	log.Debug("background load finished", "total", total, "elapsed", time.Since(start))
	return results
}

func process(ctx context.Context, name string, fn func(context.Context, string) error) Result {
	if err := ctx.Err(); err != nil {
		return Result{Name: name, Error: err.Error()}
	}
	if err := fn(ctx, name); err != nil {
		return Result{Name: name, Error: err.Error()}
	}
	return Result{Name: name, Success: true}
}
