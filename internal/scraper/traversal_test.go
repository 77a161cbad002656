package scraper

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"careertrack/jobworker/logger"
)

// fakePage simulates a results page for traversal and pagination tests.
type fakePage struct {
	countQueue   []int
	lastCount    int
	countErr     error
	detailHTML   map[int]string
	clickErrs    map[int]error
	lastClicked  int
	nextPages    int
	expandable   bool
	expandClicks int
	evaluations  []string
	url          string
	closed       bool
}

func newFakePage(details ...string) *fakePage {
	p := &fakePage{
		lastCount:   len(details),
		detailHTML:  map[int]string{},
		clickErrs:   map[int]error{},
		lastClicked: -1,
		url:         "https://example.com/jobs/results",
	}
	for i, html := range details {
		p.detailHTML[i] = html
	}
	return p
}

func (p *fakePage) Navigate(string) error { return nil }
func (p *fakePage) URL() string           { return p.url }

func (p *fakePage) Content() (string, error) {
	if html, ok := p.detailHTML[p.lastClicked]; ok {
		return html, nil
	}
	return "<html><body>listing</body></html>", nil
}

func (p *fakePage) Count(string) (int, error) {
	if p.countErr != nil {
		return 0, p.countErr
	}
	if len(p.countQueue) > 0 {
		p.lastCount = p.countQueue[0]
		p.countQueue = p.countQueue[1:]
	}
	return p.lastCount, nil
}

func (p *fakePage) ClickNth(_, _ string, index int) (bool, error) {
	if err := p.clickErrs[index]; err != nil {
		return false, err
	}
	if index >= p.lastCount {
		return false, nil
	}
	p.lastClicked = index
	p.url = fmt.Sprintf("https://example.com/jobs/results/%d00000", index+1)
	return true, nil
}

func (p *fakePage) ClickFirst(selector string) (bool, error) {
	if selector == testSiteConfig().Selectors.NextPage {
		if p.nextPages == 0 {
			return false, nil
		}
		p.nextPages--
		return true, nil
	}
	// The expand control belongs to the first result; clicking it flips
	// the detail pane back to card 0, like the live page does
	if p.expandable {
		p.expandClicks++
		if p.lastCount > 0 {
			p.lastClicked = 0
		}
		return true, nil
	}
	return false, nil
}

func (p *fakePage) Evaluate(expr string) (interface{}, error) {
	p.evaluations = append(p.evaluations, expr)
	return 0, nil
}

func (p *fakePage) WaitIdle(time.Duration) error { return nil }
func (p *fakePage) WaitFor(time.Duration)        {}
func (p *fakePage) Close() error                 { p.closed = true; return nil }

func detailFor(title string) string {
	return fmt.Sprintf(`<html><body><h2 class="p1N2lc">%s</h2><span class="r0wTof">Remote</span></body></html>`, title)
}

func testTraversal(page *fakePage) *CardTraversal {
	log := logger.NewWithWriter(io.Discard, "debug", "")
	return NewCardTraversal(page, testSiteConfig(), rate.NewLimiter(rate.Inf, 1), time.Millisecond, time.Millisecond, log)
}

func TestTraversalExtractsEveryCard(t *testing.T) {
	page := newFakePage(detailFor("Engineer"), detailFor("Designer"), detailFor("Recruiter"))

	records, err := testTraversal(page).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "Engineer", records[0].Title)
	assert.Equal(t, "Designer", records[1].Title)
	assert.Equal(t, "Recruiter", records[2].Title)

	// Each record carries the URL the pane was open at
	assert.Equal(t, "https://example.com/jobs/results/100000", records[0].URL)
	assert.Equal(t, "100000", records[0].JobID)
}

func TestTraversalSkipsFailingCard(t *testing.T) {
	page := newFakePage(detailFor("First"), detailFor("Broken"), detailFor("Third"))
	page.clickErrs[1] = fmt.Errorf("element detached")

	records, err := testTraversal(page).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "First", records[0].Title)
	assert.Equal(t, "Third", records[1].Title)
}

func TestTraversalSkipsCardWithoutPane(t *testing.T) {
	page := newFakePage(detailFor("Real"), "<html><body>no pane opened</body></html>")

	records, err := testTraversal(page).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "Real", records[0].Title)
}

func TestTraversalRecoversFromSlowRender(t *testing.T) {
	page := newFakePage(detailFor("Late"))
	page.expandable = true
	// First two scans see an empty list, the third sees the card
	page.countQueue = []int{0, 0, 1}

	records, err := testTraversal(page).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Late", records[0].Title)

	// Recovery re-triggered the expand control
	assert.Positive(t, page.expandClicks)
}

func TestTraversalNeverReopensFirstCardDuringWalk(t *testing.T) {
	page := newFakePage(detailFor("Engineer"), detailFor("Designer"), detailFor("Recruiter"))
	// The first result's expand control stays clickable the whole walk
	page.expandable = true

	records, err := testTraversal(page).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "Engineer", records[0].Title)
	assert.Equal(t, "Designer", records[1].Title)
	assert.Equal(t, "Recruiter", records[2].Title)

	// The control was never activated between card clicks
	assert.Zero(t, page.expandClicks)
}

func TestTraversalGivesUpAfterRecoveryAttempts(t *testing.T) {
	page := newFakePage()

	records, err := testTraversal(page).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)

	// Diagnostic page state was captured before giving up
	assert.NotEmpty(t, page.evaluations)
}

func TestTraversalHonorsLiveCardCount(t *testing.T) {
	page := newFakePage(detailFor("A"), detailFor("B"), detailFor("C"))
	// Initial scan sees 3 cards, but the list shrinks to 2 after the
	// first pane opens
	page.countQueue = []int{3, 3, 2, 2}

	records, err := testTraversal(page).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestTraversalStopsOnCancelledContext(t *testing.T) {
	page := newFakePage(detailFor("A"), detailFor("B"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testTraversal(page).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
