package scraper

import (
	"time"

	"careertrack/jobworker/internal/browser"
	"careertrack/jobworker/logger"
)

// Paginator moves a results page forward through its page sequence, up to
// a fixed bound. The bound guards against pagination controls that never
// disappear.
type Paginator struct {
	page     browser.Page
	selector string
	maxPages int
	visited  int
	settle   time.Duration
	log      *logger.Logger
}

func NewPaginator(page browser.Page, selector string, maxPages int, settle time.Duration, log *logger.Logger) *Paginator {
	return &Paginator{
		page:     page,
		selector: selector,
		maxPages: maxPages,
		visited:  1,
		settle:   settle,
		log:      log,
	}
}

// Page returns the 1-based number of the page currently shown.
func (p *Paginator) Page() int {
	return p.visited
}

// Advance clicks through to the next results page. It returns false when
// the page bound is reached or no next-page control exists, and an error
// only when the control exists but cannot be activated.
func (p *Paginator) Advance() (bool, error) {
	if p.visited >= p.maxPages {
		p.log.Debug().Int("max_pages", p.maxPages).Msg("Page bound reached")
		return false, nil
	}

	clicked, err := p.page.ClickFirst(p.selector)
	if err != nil {
		return false, err
	}
	if !clicked {
		p.log.Debug().Int("page", p.visited).Msg("No further pages")
		return false, nil
	}

	if err := p.page.WaitIdle(p.settle); err != nil {
		// networkidle never fires on pages with long-polling traffic
		p.page.WaitFor(p.settle / 2)
	}
	p.visited++
	p.log.Debug().Int("page", p.visited).Msg("Advanced to next page")
	return true, nil
}
