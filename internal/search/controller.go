package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mahamusharaf/vastr-storefront/internal/catalog"
	"github.com/mahamusharaf/vastr-storefront/internal/domain"
)

// MinQueryLength is the minimum number of characters (after trimming)
// required before a query is sent to the catalog.
const MinQueryLength = 2

// DefaultDebounce is the pause after the last keystroke before a search fires.
const DefaultDebounce = 300 * time.Millisecond

// Phase describes where the controller is in the search lifecycle.
type Phase int

const (
	// PhaseIdle means no search has been performed yet.
	PhaseIdle Phase = iota
	// PhaseSearching means a request is in flight.
	PhaseSearching
	// PhaseResults means the last search returned at least one product.
	PhaseResults
	// PhaseEmpty means the last search returned nothing, or the query
	// was too short to send.
	PhaseEmpty
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSearching:
		return "searching"
	case PhaseResults:
		return "results"
	case PhaseEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// State is a point-in-time snapshot of the search screen's data.
type State struct {
	Query       string
	Phase       Phase
	Loading     bool
	HasSearched bool
	Results     []domain.Product
}

// Lister is the slice of the catalog client the controller depends on.
type Lister interface {
	ListProducts(ctx context.Context, query catalog.ProductQuery) []domain.Product
}

// Controller drives the search screen: it guards short queries, debounces
// keystrokes, and discards responses that arrive after a newer query has
// been issued.
type Controller struct {
	catalog  Lister
	limit    int
	logger   *slog.Logger
	debounce *Debouncer

	gen atomic.Uint64

	mu    sync.Mutex
	state State
}

// NewController creates a search controller backed by the given catalog
// lister. Results are capped at limit per search.
func NewController(lister Lister, limit int, logger *slog.Logger) *Controller {
	return &Controller{
		catalog:  lister,
		limit:    limit,
		logger:   logger,
		debounce: NewDebouncer(DefaultDebounce),
		state:    State{Phase: PhaseIdle, Results: []domain.Product{}},
	}
}

// SetDebounceInterval overrides the keystroke debounce interval and drops
// any pending search scheduled under the old interval. Safe to call while
// queries are arriving.
func (c *Controller) SetDebounceInterval(d time.Duration) {
	c.debounce.SetDuration(d)
}

// QueryChanged records a keystroke. The search itself fires only after the
// debounce interval passes without further changes. Queries shorter than
// MinQueryLength never reach the network.
func (c *Controller) QueryChanged(ctx context.Context, query string) {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < MinQueryLength {
		c.debounce.Cancel()
		c.settleShortQuery(query)
		return
	}

	gen := c.gen.Add(1)
	c.markSearching(query)
	c.debounce.Debounce(func() {
		c.run(ctx, gen, trimmed)
	})
}

// Search bypasses the debounce and runs the query synchronously, for
// explicit submissions such as pressing the search key.
func (c *Controller) Search(ctx context.Context, query string) {
	c.debounce.Cancel()

	trimmed := strings.TrimSpace(query)
	if len(trimmed) < MinQueryLength {
		c.settleShortQuery(query)
		return
	}

	gen := c.gen.Add(1)
	c.markSearching(query)
	c.run(ctx, gen, trimmed)
}

// Clear resets the controller to its initial idle state and drops any
// in-flight response.
func (c *Controller) Clear() {
	c.debounce.Cancel()
	c.gen.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{Phase: PhaseIdle, Results: []domain.Product{}}
}

// Snapshot returns a copy of the current search state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.state
	snap.Results = make([]domain.Product, len(c.state.Results))
	copy(snap.Results, c.state.Results)
	return snap
}

// Close cancels any pending debounced search. Responses already in flight
// are discarded when they land.
func (c *Controller) Close() {
	c.debounce.Cancel()
	c.gen.Add(1)
}

// settleShortQuery handles queries below the minimum length. Any pending
// response for an earlier query is invalidated so it cannot overwrite the
// empty state.
func (c *Controller) settleShortQuery(query string) {
	c.gen.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{
		Query:       query,
		Phase:       PhaseEmpty,
		HasSearched: true,
		Results:     []domain.Product{},
	}
}

func (c *Controller) markSearching(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Query = query
	c.state.Phase = PhaseSearching
	c.state.Loading = true
}

// run performs the catalog call for the given generation and commits the
// results only if no newer query has been issued since.
func (c *Controller) run(ctx context.Context, gen uint64, query string) {
	results := c.catalog.ListProducts(ctx, catalog.ProductQuery{
		Search: query,
		Limit:  c.limit,
	})

	if c.gen.Load() != gen {
		c.logger.DebugContext(ctx, "discarding stale search response",
			slog.String("query", query))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen.Load() != gen {
		return
	}

	c.state.Loading = false
	c.state.HasSearched = true
	c.state.Results = results
	if len(results) == 0 {
		c.state.Phase = PhaseEmpty
	} else {
		c.state.Phase = PhaseResults
	}
}
