package scanner

import (
	"context"
	"sort"
	"sync"
	"time"

	"todoscan/internal/models"
)

// FileResult is the outcome of processing one file.
type FileResult struct {
	Path     string
	Entries  []*models.TodoEntry
	Warnings []models.Warning
	Err      error
	Duration time.Duration
}

// Pool runs per-file work with bounded concurrency. Files are independent
// units of work, so completion order is unspecified; Wait returns results
// sorted by path so reporting stays stable regardless of scheduling.
type Pool struct {
	maxWorkers int
	semaphore  chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	results    []FileResult
	ctx        context.Context
}

// NewPool creates a pool with at most maxWorkers concurrent tasks.
// maxWorkers < 1 is treated as 1.
func NewPool(ctx context.Context, maxWorkers int) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Pool{
		maxWorkers: maxWorkers,
		semaphore:  make(chan struct{}, maxWorkers),
		ctx:        ctx,
		results:    make([]FileResult, 0),
	}
}

// Submit schedules fn for path. Blocks until a worker slot is free or the
// context is cancelled.
func (p *Pool) Submit(path string, fn func(path string) FileResult) {
	select {
	case <-p.ctx.Done():
		return
	default:
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		select {
		case p.semaphore <- struct{}{}:
			defer func() { <-p.semaphore }()
		case <-p.ctx.Done():
			return
		}

		start := time.Now()
		result := fn(path)
		result.Path = path
		result.Duration = time.Since(start)

		p.mu.Lock()
		p.results = append(p.results, result)
		p.mu.Unlock()
	}()
}

// Wait waits for all submitted work and returns the results sorted by path.
func (p *Pool) Wait() []FileResult {
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()

	results := make([]FileResult, len(p.results))
	copy(results, p.results)
	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results
}
