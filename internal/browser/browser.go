package browser

import "time"

// Page is the minimal browser surface the crawl engine depends on. The
// traversal and pagination logic are written against this interface, not
// against any particular driver.
type Page interface {
	// Navigate loads the given URL and waits for the DOM to be ready.
	Navigate(url string) error

	// URL returns the page's current URL, after any redirects.
	URL() string

	// Content returns the full HTML of the current page state.
	Content() (string, error)

	// Count returns the number of elements currently matching selector.
	Count(selector string) (int, error)

	// ClickNth activates the element matching childSelector inside the
	// index-th match of selector. It re-queries the live list, so the
	// index refers to the page state at call time. Returns false when the
	// index is out of range or no activatable child exists.
	ClickNth(selector, childSelector string, index int) (bool, error)

	// ClickFirst activates the first match of selector if present,
	// reporting whether a click happened.
	ClickFirst(selector string) (bool, error)

	// Evaluate runs a JavaScript expression in page context.
	Evaluate(expression string) (interface{}, error)

	// WaitIdle blocks until network activity settles or timeout elapses.
	WaitIdle(timeout time.Duration) error

	// WaitFor blocks for a fixed duration, absorbing animation and
	// render latency the page gives no signal for.
	WaitFor(d time.Duration)

	// Close releases the page and its browser context.
	Close() error
}

// Driver hands out isolated pages. One page is acquired per site session
// and must be closed when the session ends, on every exit path.
type Driver interface {
	NewPage() (Page, error)
	Close() error
}
