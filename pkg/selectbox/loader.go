package selectbox

import (
	"context"

	"github.com/Solvosoft/fletbatteries/pkg/cli/tk"
)

// LoaderSpec specifies the configuration of a PageLoader.
type LoaderSpec struct {
	// Dispatcher used for delivering pages. Required.
	Dispatcher tk.Dispatcher
	// Context passed to LoadMore. Defaults to context.Background().
	Context context.Context
	// Page size. Defaults to DefaultLimit.
	Limit int
	// Source of further pages. When nil, the PageLoader never loads.
	LoadMore LoadFunc
	// The canonical options the pages are appended to.
	State State
	// Returns the current filter text, passed along to LoadMore.
	Filter func() string
	// Called on the UI goroutine after a page has been merged into State.
	OnLoaded func(Page)
	// Called on the UI goroutine when LoadMore fails.
	OnError func(error)
}

// PageLoader appends pages to a State when the user scrolls near the bottom
// of the list. At most one page is requested at a time.
//
// All methods must be called on the UI goroutine.
type PageLoader struct {
	LoaderSpec

	inFlight bool
	// Incremented by Reset, so that pages requested for replaced options are
	// dropped.
	generation int
}

// NewPageLoader creates a new PageLoader from the given spec.
func NewPageLoader(spec LoaderSpec) *PageLoader {
	if spec.Context == nil {
		spec.Context = context.Background()
	}
	if spec.Limit <= 0 {
		spec.Limit = DefaultLimit
	}
	if spec.Filter == nil {
		spec.Filter = func() string { return "" }
	}
	if spec.OnLoaded == nil {
		spec.OnLoaded = func(Page) {}
	}
	if spec.OnError == nil {
		spec.OnError = func(error) {}
	}
	return &PageLoader{LoaderSpec: spec}
}

// OnScrollNearBottom requests the next page, unless State has no more
// options or a request is already in flight. It returns whether a request
// was started.
func (l *PageLoader) OnScrollNearBottom() bool {
	if l.LoadMore == nil || l.inFlight || !l.State.More() {
		return false
	}
	l.inFlight = true
	q := Query{Skip: l.State.Cursor(), Limit: l.Limit, Filter: l.Filter()}
	gen, ctx := l.generation, l.Context
	go func() {
		page, err := l.LoadMore(ctx, q)
		l.Dispatcher.Do(func() { l.deliver(gen, q, page, err) })
	}()
	return true
}

// Loading returns whether a request is in flight.
func (l *PageLoader) Loading() bool { return l.inFlight }

// Reset makes the PageLoader drop the page in flight, if any, and accept new
// requests. It is called when the options of State are replaced.
func (l *PageLoader) Reset() {
	l.generation++
	l.inFlight = false
}

func (l *PageLoader) deliver(gen int, q Query, page Page, err error) {
	if gen != l.generation {
		logger.Printf("dropping page at %d for replaced options", q.Skip)
		return
	}
	l.inFlight = false
	if err != nil {
		logger.Printf("loading page at %d failed: %v", q.Skip, err)
		l.OnError(err)
		return
	}
	if len(page.Results) == 0 {
		l.State.SetMore(false)
	} else {
		l.State.Append(page.Results, page.More)
	}
	l.OnLoaded(page)
}
