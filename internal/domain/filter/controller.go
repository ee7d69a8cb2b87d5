// Package filter holds the user's filter state and gates free-text title
// changes behind a quiet-period timer before they become committed search
// terms. All other fields update immediately and take effect on the next
// explicit search.
package filter

import (
	"sync"
	"time"

	"github.com/honeycarbs/empleos/internal/domain"
	"github.com/honeycarbs/empleos/pkg/logging"
)

const (
	defaultDebounce = 500 * time.Millisecond
	defaultGrace    = 500 * time.Millisecond
)

// CommitFunc receives the filter spec whenever a search term or a full
// manual search is committed. The delivered Title is always the committed
// (debounced) value.
type CommitFunc func(domain.FilterSpec)

// Option configures Controller.
type Option func(*Controller)

// WithDebounce overrides the quiet period before a title change commits.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithGrace overrides the fixed period the local-search flag stays
// asserted after a commit propagates.
func WithGrace(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.grace = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// Controller owns the FilterSpec and the debounce/grace timers. Pending
// commits are superseded by newer title changes: only the most recent
// value after a full quiet period ever propagates.
type Controller struct {
	debounce time.Duration
	grace    time.Duration
	log      *logging.Logger
	onCommit CommitFunc

	mu             sync.Mutex
	spec           domain.FilterSpec
	committedTitle string
	gen            uint64
	timer          *time.Timer
	graceTimer     *time.Timer
	searching      bool
	closed         bool
}

// NewController builds a controller with default filters. onCommit may be
// nil, in which case commits only update internal state.
func NewController(onCommit CommitFunc, opts ...Option) *Controller {
	c := &Controller{
		debounce: defaultDebounce,
		grace:    defaultGrace,
		log:      logging.Nop(),
		onCommit: onCommit,
		spec:     domain.DefaultFilters(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTitle updates the free-text title and starts (or restarts) the quiet
// timer. The value only becomes the committed search term once no further
// change arrives within the debounce window.
func (c *Controller) SetTitle(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.spec.Title = title
	c.searching = true
	c.gen++
	gen := c.gen

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.fire(gen)
	})
}

// fire commits the title if no newer change superseded this timer.
func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}

	c.committedTitle = c.spec.Title
	spec := c.spec
	cb := c.onCommit
	c.startGraceLocked()
	c.mu.Unlock()

	c.log.Debug("title committed", "title", spec.Title)
	if cb != nil {
		cb(spec)
	}
}

// startGraceLocked arms the timer that clears the local-search flag once
// the grace period after a commit elapses. Callers must hold c.mu.
func (c *Controller) startGraceLocked() {
	if c.graceTimer != nil {
		c.graceTimer.Stop()
	}
	c.graceTimer = time.AfterFunc(c.grace, func() {
		c.mu.Lock()
		c.searching = false
		c.mu.Unlock()
	})
}

// SetCompanyID constrains results to one company; zero clears it.
func (c *Controller) SetCompanyID(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spec.CompanyID = id
}

// SetSalaryMin sets the lower salary bound; zero means no constraint.
func (c *Controller) SetSalaryMin(min float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spec.SalaryMin = min
}

// SetSalaryMax sets the upper salary bound; zero means no constraint.
func (c *Controller) SetSalaryMax(max float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spec.SalaryMax = max
}

// SetSort sets the sort key and direction.
func (c *Controller) SetSort(key domain.SortKey, order domain.SortDirection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.spec.SortBy = key
	c.spec.Order = order
}

// Search commits the current state immediately, bypassing any pending
// debounce.
func (c *Controller) Search() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.gen++ // supersede any pending debounce commit
	if c.timer != nil {
		c.timer.Stop()
	}
	c.committedTitle = c.spec.Title
	spec := c.spec
	cb := c.onCommit
	// A superseded debounce never fires, so the flag it raised is handed
	// to the grace timer here.
	if c.searching {
		c.startGraceLocked()
	}
	c.mu.Unlock()

	c.log.Debug("manual search", "filters", spec)
	if cb != nil {
		cb(spec)
	}
}

// Clear resets to the default filters and propagates immediately.
func (c *Controller) Clear() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
	}
	if c.graceTimer != nil {
		c.graceTimer.Stop()
	}
	c.spec = domain.DefaultFilters()
	c.committedTitle = ""
	c.searching = false
	spec := c.spec
	cb := c.onCommit
	c.mu.Unlock()

	if cb != nil {
		cb(spec)
	}
}

// Filters returns the live filter state (title as typed, not committed).
func (c *Controller) Filters() domain.FilterSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spec
}

// Committed returns the filter state with the committed title, i.e. what
// the resolver last saw (or will see on the pending commit's behalf).
func (c *Controller) Committed() domain.FilterSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	spec := c.spec
	spec.Title = c.committedTitle
	return spec
}

// IsSearchingLocally reports whether a title commit is pending or within
// its post-commit grace period; callers show a lightweight affordance
// instead of the full loading state.
func (c *Controller) IsSearchingLocally() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searching
}

// Close stops all timers; further title changes are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	if c.graceTimer != nil {
		c.graceTimer.Stop()
	}
}
