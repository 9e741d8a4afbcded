package selectbox

import (
	"context"
	"time"

	"github.com/Solvosoft/fletbatteries/pkg/cli/tk"
	"github.com/Solvosoft/fletbatteries/pkg/logutil"
)

var logger = logutil.GetLogger("[selectbox] ")

// Default timings.
const (
	DefaultSearchDelay = 300 * time.Millisecond
	DefaultBlurGrace   = 150 * time.Millisecond
	DefaultLimit       = 10
)

// SearchSpec specifies the configuration of a SearchController.
type SearchSpec struct {
	// Dispatcher used for the debounce timer and for delivering remote
	// results. Required.
	Dispatcher tk.Dispatcher
	// Context passed to Search. Defaults to context.Background().
	Context context.Context
	// Time without input after which a search runs. Defaults to
	// DefaultSearchDelay.
	Delay time.Duration
	// Limit passed to Search. Defaults to DefaultLimit.
	Limit int
	// Remote search. When nil, the options of State are filtered locally.
	Search LoadFunc
	// The canonical options.
	State State
	// Called on the UI goroutine with the options to show for a filter text.
	// remote tells whether they come from Search.
	OnResults func(filter string, results []Option, remote bool)
	// Called on the UI goroutine when Search fails.
	OnError func(error)
}

// SearchController debounces the filter text typed by the user and turns it
// into a list of options to show, either by filtering the canonical options
// or by calling a remote search.
//
// All methods must be called on the UI goroutine.
type SearchController struct {
	SearchSpec

	text  string
	timer tk.Timer
	// Number of remote searches in flight.
	inFlight int
}

// NewSearchController creates a new SearchController from the given spec.
func NewSearchController(spec SearchSpec) *SearchController {
	if spec.Context == nil {
		spec.Context = context.Background()
	}
	if spec.Delay <= 0 {
		spec.Delay = DefaultSearchDelay
	}
	if spec.Limit <= 0 {
		spec.Limit = DefaultLimit
	}
	if spec.OnResults == nil {
		spec.OnResults = func(string, []Option, bool) {}
	}
	if spec.OnError == nil {
		spec.OnError = func(error) {}
	}
	return &SearchController{SearchSpec: spec}
}

// OnInput records the filter text and restarts the debounce timer. Only the
// text of the last call in a pause longer than Delay gets searched.
func (c *SearchController) OnInput(text string) {
	c.text = text
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = c.Dispatcher.AfterFunc(c.Delay, func() {
		c.timer = nil
		c.run(text)
	})
}

// Reset cancels any pending search, clears the filter text and shows the
// canonical options.
func (c *SearchController) Reset() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.text = ""
	c.OnResults("", c.State.Options(), false)
}

// Text returns the last filter text.
func (c *SearchController) Text() string { return c.text }

// Searching returns whether a remote search is in flight.
func (c *SearchController) Searching() bool { return c.inFlight > 0 }

// Pending returns whether a search is waiting for the debounce timer.
func (c *SearchController) Pending() bool { return c.timer != nil }

func (c *SearchController) run(text string) {
	if c.Search == nil || Normalize(text) == "" {
		c.OnResults(text, FilterOptions(c.State.Options(), text), false)
		return
	}
	c.inFlight++
	q := Query{Skip: 0, Limit: c.Limit, Filter: text}
	ctx := c.Context
	go func() {
		page, err := c.Search(ctx, q)
		c.Dispatcher.Do(func() {
			c.inFlight--
			c.deliver(q, page, err)
		})
	}()
}

func (c *SearchController) deliver(q Query, page Page, err error) {
	if q.Filter != c.text {
		if err != nil {
			logger.Printf("dropping stale error for %q: %v", q.Filter, err)
		} else {
			logger.Printf("dropping stale results for %q, filter is now %q", q.Filter, c.text)
		}
		return
	}
	if err != nil {
		logger.Printf("search %q failed: %v", q.Filter, err)
		c.OnError(err)
		return
	}
	c.OnResults(q.Filter, page.Results, true)
}
