// Package catalogview drives the storefront listing: it owns the filter
// inputs and the fetch lifecycle, and tells presenters what to render.
package catalogview

import (
	"context"
	"fmt"
	"sync"

	"plant-store/internal/domain"

	"go.uber.org/zap"
)

// Status is the fetch lifecycle state
type Status int

const (
	Idle Status = iota
	Loading
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

const (
	MsgLoading = "Loading plants..."
	MsgEmpty   = "No plants found matching your criteria."
	MsgError   = "Failed to load plants. Please try again."
)

// Fetcher loads plants for a filter. *client.Client satisfies it.
type Fetcher interface {
	ListPlants(ctx context.Context, filter domain.PlantFilter) ([]domain.Plant, error)
}

// State is a snapshot of what the view should show
type State struct {
	Filter domain.PlantFilter
	Status Status
	Plants []domain.Plant
	Err    error
	// Seq identifies the fetch this state belongs to.
	Seq uint64
}

// Message is the status line for the state
func (s State) Message() string {
	switch s.Status {
	case Loading:
		return MsgLoading
	case Error:
		return MsgError
	case Success:
		switch n := len(s.Plants); n {
		case 0:
			return MsgEmpty
		case 1:
			return "Showing 1 plant"
		default:
			return fmt.Sprintf("Showing %d plants", n)
		}
	default:
		return ""
	}
}

// Controller holds the filter inputs and runs fetches. Every filter change
// starts a fetch tagged with a new sequence number; a response for an older
// sequence is dropped, so the view always reflects the latest inputs.
type Controller struct {
	fetcher Fetcher
	logger  *zap.Logger

	// notifyMu orders state changes with their notifications. Subscribers
	// run while it is held and must not call the filter setters.
	notifyMu sync.Mutex
	mu       sync.Mutex

	filter      domain.PlantFilter
	state       State
	seq         uint64
	cancel      context.CancelFunc
	subscribers map[int]func(State)
	nextSubID   int
	closed      bool

	ctx      context.Context
	shutdown context.CancelFunc
	wg       sync.WaitGroup
}

// NewController creates an idle controller showing all categories
func NewController(fetcher Fetcher, logger *zap.Logger) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	filter := domain.PlantFilter{Category: domain.AllCategories}
	return &Controller{
		fetcher:     fetcher,
		logger:      logger,
		filter:      filter,
		state:       State{Filter: filter, Status: Idle},
		subscribers: map[int]func(State){},
		ctx:         ctx,
		shutdown:    cancel,
	}
}

// Load fetches with the current filter
func (c *Controller) Load() {
	c.update(func(*domain.PlantFilter) {})
}

// Retry re-runs the fetch for the current filter
func (c *Controller) Retry() {
	c.Load()
}

// SetSearch changes the search term and refetches
func (c *Controller) SetSearch(search string) {
	c.update(func(f *domain.PlantFilter) { f.Search = search })
}

// SetCategory changes the category filter and refetches
func (c *Controller) SetCategory(category string) {
	c.update(func(f *domain.PlantFilter) { f.Category = category })
}

// SetInStockOnly toggles the in-stock filter and refetches
func (c *Controller) SetInStockOnly(inStockOnly bool) {
	c.update(func(f *domain.PlantFilter) { f.InStockOnly = inStockOnly })
}

// State returns the current snapshot
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn for every state change and returns a function
// that removes it.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Wait blocks until no fetch is in flight
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels in-flight fetches and waits for them to finish. Setters
// are no-ops afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.shutdown()
	c.wg.Wait()
}

func (c *Controller) update(change func(*domain.PlantFilter)) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	change(&c.filter)
	c.seq++
	seq, filter := c.seq, c.filter

	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancel = cancel

	c.state = State{Filter: filter, Status: Loading, Plants: c.state.Plants, Seq: seq}
	snapshot, subs := c.state, c.subscriberList()
	c.wg.Add(1)
	c.mu.Unlock()

	notify(subs, snapshot)

	go func() {
		defer c.wg.Done()
		defer cancel()

		plants, err := c.fetcher.ListPlants(ctx, filter)
		c.complete(seq, filter, plants, err)
	}()
}

func (c *Controller) complete(seq uint64, filter domain.PlantFilter, plants []domain.Plant, err error) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if seq != c.seq || c.closed {
		c.mu.Unlock()
		c.logger.Debug("Discarding stale catalog response", zap.Uint64("seq", seq))
		return
	}

	if err != nil {
		c.logger.Warn("Failed to load plants", zap.Error(err), zap.Uint64("seq", seq))
		c.state = State{Filter: filter, Status: Error, Err: err, Seq: seq}
	} else {
		if plants == nil {
			plants = []domain.Plant{}
		}
		c.state = State{Filter: filter, Status: Success, Plants: plants, Seq: seq}
	}
	snapshot, subs := c.state, c.subscriberList()
	c.mu.Unlock()

	notify(subs, snapshot)
}

func (c *Controller) subscriberList() []func(State) {
	subs := make([]func(State), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(State), state State) {
	for _, fn := range subs {
		fn(state)
	}
}
