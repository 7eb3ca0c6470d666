// Package search runs the type-ahead product search: queries are debounced,
// short queries clear the results, and only the newest query's results are
// ever delivered.
package search

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/felixgeelhaar/maison/internal/domain"
)

const (
	// MinQueryLength is the shortest query that triggers a request.
	MinQueryLength = 2

	// DefaultDelay is the idle pause after the last keystroke before a
	// request is sent.
	DefaultDelay = 300 * time.Millisecond

	// ResultLimit is the number of products a search returns.
	ResultLimit = 6
)

// Func performs one search. It must honor ctx cancellation.
type Func func(ctx context.Context, query string) ([]domain.Product, error)

// Result is the outcome of one query. A cleared result (query too short) has
// no products and no error.
type Result struct {
	Generation uint64
	Query      string
	Products   []domain.Product
	Err        error
	Cleared    bool
}

// Debouncer coalesces a burst of inputs into a single search.
//
// Every Input starts a new generation: the pending timer is stopped and any
// in-flight request is cancelled. Results of older generations are dropped,
// so Results only ever yields the answer to the latest query.
type Debouncer struct {
	fetch Func
	delay time.Duration

	mu      sync.Mutex
	gen     uint64
	timer   *time.Timer
	cancel  context.CancelFunc
	closed  bool
	results chan Result
	wg      sync.WaitGroup
}

// New creates a debouncer around fetch. A non-positive delay selects
// DefaultDelay.
func New(fetch Func, delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{
		fetch:   fetch,
		delay:   delay,
		results: make(chan Result, 1),
	}
}

// Results delivers the outcome of the latest query. It is closed by Close.
func (d *Debouncer) Results() <-chan Result {
	return d.results
}

// Input records the current query text and returns its generation.
func (d *Debouncer) Input(query string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return d.gen
	}

	d.gen++
	gen := d.gen
	d.stopLocked()
	select {
	case <-d.results:
	default:
	}

	if utf8.RuneCountInString(strings.TrimSpace(query)) < MinQueryLength {
		d.deliverLocked(Result{Generation: gen, Query: query, Cleared: true})
		return gen
	}

	d.wg.Add(1)
	d.timer = time.AfterFunc(d.delay, func() { d.run(gen, query) })
	return gen
}

// Close cancels pending work, waits for it to finish and closes Results.
func (d *Debouncer) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.stopLocked()
	d.mu.Unlock()

	d.wg.Wait()
	close(d.results)
}

// stopLocked stops the pending timer and cancels the in-flight request.
func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		if d.timer.Stop() {
			d.wg.Done()
		}
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Debouncer) run(gen uint64, query string) {
	defer d.wg.Done()

	d.mu.Lock()
	if d.closed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.timer = nil
	d.mu.Unlock()
	defer cancel()

	products, err := d.fetch(ctx, query)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || gen != d.gen {
		return
	}
	d.cancel = nil
	d.deliverLocked(Result{Generation: gen, Query: query, Products: products, Err: err})
}

// deliverLocked replaces any undelivered result with r.
func (d *Debouncer) deliverLocked(r Result) {
	select {
	case <-d.results:
	default:
	}
	d.results <- r
}
