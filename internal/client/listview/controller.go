// Package listview keeps a one-page window onto a remote collection in sync
// with the server: fetch a page, search with debouncing, and refetch after
// every mutation instead of patching locally. The same controller drives the
// user's own records, the admin all-records view, and the admin user list;
// each view is just a fetch function plus options.
package listview

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrPageOutOfRange rejects a page change below 1 or past the last page.
// No fetch is issued for a rejected change.
var ErrPageOutOfRange = errors.New("page out of range")

// Query is what a fetch request carries to the boundary.
type Query struct {
	Page     int
	PageSize int
	Search   string
}

// Page is one fetched window plus the server-reported total, which is
// authoritative regardless of how many items came back.
type Page[T any] struct {
	Items      []T
	TotalCount int
}

// FetchFunc retrieves one page from the boundary.
type FetchFunc[T any] func(ctx context.Context, q Query) (Page[T], error)

type options struct {
	pageSize          int
	debounce          time.Duration
	resetPageOnSearch bool
}

type Option func(*options)

func WithPageSize(n int) Option {
	return func(o *options) { o.pageSize = n }
}

// WithDebounce sets the quiet window that must follow the last SetSearch
// call before the query term is applied.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// WithResetPageOnSearch controls whether applying a new search term snaps
// back to page 1. On by default.
func WithResetPageOnSearch(reset bool) Option {
	return func(o *options) { o.resetPageOnSearch = reset }
}

// Controller owns the displayed page of one remote collection.
//
// Every successful fetch replaces items and total wholesale. A failed fetch
// keeps the previous items (stale but visible) and records the error; the
// rendering layer decides what to show. Each fetch carries a sequence number
// and a response is applied only if no newer fetch was issued meanwhile, so
// a slow stale response can never overwrite fresher data.
type Controller[T any] struct {
	mu    sync.Mutex
	fetch FetchFunc[T]
	opts  options

	items      []T
	totalCount int
	page       int
	search     string // as typed
	applied    string // as queried, updates after the debounce window
	loading    bool
	lastErr    error

	seq     uint64
	pending *time.Timer

	// schedule is swapped out in tests to drive the debounce by hand.
	schedule func(d time.Duration, fn func()) *time.Timer
}

func NewController[T any](fetch FetchFunc[T], opts ...Option) *Controller[T] {
	o := options{
		pageSize:          10,
		debounce:          500 * time.Millisecond,
		resetPageOnSearch: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T]{
		fetch:    fetch,
		opts:     o,
		page:     1,
		schedule: time.AfterFunc,
	}
}

// Refresh fetches the current page and replaces the controller state with
// the response, unless a newer fetch was issued while this one was in
// flight, in which case the response is discarded.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.loading = true
	q := Query{Page: c.page, PageSize: c.opts.pageSize, Search: c.applied}
	c.mu.Unlock()

	page, err := c.fetch(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		// Superseded while in flight. Whatever came back, newer state wins.
		return nil
	}
	c.loading = false
	if err != nil {
		c.lastErr = err
		return err
	}
	c.lastErr = nil
	c.items = page.Items
	c.totalCount = page.TotalCount
	return nil
}

// ChangePage moves to page n and refetches. Out-of-range pages are rejected
// without a fetch; the last page is ceil(totalCount/pageSize).
func (c *Controller[T]) ChangePage(ctx context.Context, n int) error {
	c.mu.Lock()
	if n < 1 || n > c.lastPageLocked() {
		c.mu.Unlock()
		return ErrPageOutOfRange
	}
	c.page = n
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetSearch records the term immediately but only applies it as the query
// after the debounce window passes with no further calls, collapsing a burst
// of keystrokes into one request. The refetch triggered by the timer runs on
// its own goroutine; ctx should outlive the window.
func (c *Controller[T]) SetSearch(ctx context.Context, term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
	if c.pending != nil {
		c.pending.Stop()
	}
	c.pending = c.schedule(c.opts.debounce, func() {
		c.applySearch(ctx, term)
	})
}

func (c *Controller[T]) applySearch(ctx context.Context, term string) {
	c.mu.Lock()
	if c.search != term {
		// A later SetSearch superseded this timer.
		c.mu.Unlock()
		return
	}
	c.pending = nil
	c.applyTermLocked(term)
	c.mu.Unlock()
	_ = c.Refresh(ctx)
}

// FlushSearch applies any pending search term right away and refetches.
// The REPL uses it because a submitted line already ends the keystroke burst.
func (c *Controller[T]) FlushSearch(ctx context.Context) error {
	c.mu.Lock()
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	c.applyTermLocked(c.search)
	c.mu.Unlock()
	return c.Refresh(ctx)
}

func (c *Controller[T]) applyTermLocked(term string) {
	if term != c.applied && c.opts.resetPageOnSearch {
		c.page = 1
	}
	c.applied = term
}

// Mutate runs a create/update/delete against the boundary and, on success,
// refetches exactly once so server-computed fields come back authoritative.
// On failure the error is returned and no refetch happens; the caller keeps
// its form open with the message.
func (c *Controller[T]) Mutate(ctx context.Context, op func(ctx context.Context) error) error {
	if err := op(ctx); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Reset drops the view back to its initial state: first page, no search
// term, no items. A pending debounce is cancelled and any in-flight fetch
// response is discarded.
func (c *Controller[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	c.items = nil
	c.totalCount = 0
	c.page = 1
	c.search = ""
	c.applied = ""
	c.loading = false
	c.lastErr = nil
}

func (c *Controller[T]) lastPageLocked() int {
	if c.totalCount <= 0 {
		return 1
	}
	last := (c.totalCount + c.opts.pageSize - 1) / c.opts.pageSize
	if last < 1 {
		return 1
	}
	return last
}

// Items returns the current window. The slice is the controller's own;
// callers must not mutate it.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items
}

func (c *Controller[T]) TotalCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalCount
}

func (c *Controller[T]) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller[T]) LastPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPageLocked()
}

func (c *Controller[T]) PageSize() int {
	return c.opts.pageSize
}

func (c *Controller[T]) SearchTerm() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err reports the error of the most recent completed fetch, nil after a
// successful one.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
