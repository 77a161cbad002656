package scraper

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"careertrack/jobworker/internal/browser"
	"careertrack/jobworker/internal/record"
	"careertrack/jobworker/logger"
	scraperrors "careertrack/jobworker/pkg/errors"
)

// traversalState drives the card walk over one results page.
type traversalState int

const (
	stateScanning traversalState = iota
	stateExtracting
	stateRecovering
	stateDone
)

const (
	recoveryAttempts = 3
	recoveryBackoff  = 2 * time.Second
)

// CardTraversal walks the job cards of a single results page, opening the
// detail pane of each card and extracting a record from it. The card list
// is re-counted on every step because opening a pane re-renders the list;
// a stale count would click the wrong card.
type CardTraversal struct {
	page      browser.Page
	extractor *DetailExtractor
	cfg       SiteConfig
	limiter   *rate.Limiter
	cardDelay time.Duration
	settle    time.Duration
	log       *logger.Logger
}

func NewCardTraversal(page browser.Page, cfg SiteConfig, limiter *rate.Limiter, cardDelay, settle time.Duration, log *logger.Logger) *CardTraversal {
	return &CardTraversal{
		page:      page,
		extractor: NewDetailExtractor(cfg),
		cfg:       cfg,
		limiter:   limiter,
		cardDelay: cardDelay,
		settle:    settle,
		log:       log,
	}
}

// Run executes the traversal until every card on the page has been
// visited or recovery gives up. A card that fails to open or extract is
// logged and skipped; only page-level failures abort the walk.
func (t *CardTraversal) Run(ctx context.Context) ([]record.JobRecord, error) {
	var (
		records  []record.JobRecord
		index    int
		attempts int
		state    = stateScanning
	)

	for state != stateDone {
		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		switch state {
		case stateScanning:
			count, err := t.page.Count(t.cfg.Selectors.Card)
			if err != nil {
				return records, scraperrors.NewDOM(t.cfg.Name, "counting job cards", err)
			}
			if count == 0 {
				state = stateRecovering
				break
			}
			t.log.Debug().Int("cards", count).Msg("Job cards located")
			state = stateExtracting

		case stateExtracting:
			// The list re-renders as panes open, so the count is live
			count, err := t.page.Count(t.cfg.Selectors.Card)
			if err != nil {
				return records, scraperrors.NewDOM(t.cfg.Name, "re-counting job cards", err)
			}
			if index >= count {
				state = stateDone
				break
			}

			if err := t.limiter.Wait(ctx); err != nil {
				return records, err
			}

			rec, err := t.visitCard(index)
			switch {
			case err != nil:
				t.log.Warn().Err(err).Int("card", index+1).Int("total", count).
					Msg("Skipping card after extraction failure")
			case rec == nil:
				t.log.Debug().Int("card", index+1).Int("total", count).
					Msg("Card produced no detail pane")
			default:
				records = append(records, *rec)
				t.log.Debug().Int("card", index+1).Int("total", count).
					Str("title", rec.Title).Msg("Extracted job")
			}
			index++

		case stateRecovering:
			if attempts >= recoveryAttempts {
				t.logEmptyPage()
				state = stateDone
				break
			}
			attempts++
			t.log.Warn().Int("attempt", attempts).Int("max", recoveryAttempts).
				Msg("No job cards found, re-triggering expand")
			if t.cfg.Selectors.ExpandFirst != "" {
				if _, err := t.page.ClickFirst(t.cfg.Selectors.ExpandFirst); err != nil {
					t.log.Debug().Err(err).Msg("Expand control not clickable")
				}
			}
			t.page.WaitFor(time.Duration(attempts) * recoveryBackoff)
			state = stateScanning
		}
	}

	return records, nil
}

// visitCard opens the index-th card and parses the resulting detail pane.
// Clicking the card is the only activation per step; the expand control
// belongs to the first result and re-opening it here would flip the pane
// back to job 1.
func (t *CardTraversal) visitCard(index int) (*record.JobRecord, error) {
	clicked, err := t.page.ClickNth(t.cfg.Selectors.Card, t.cfg.Selectors.CardLink, index)
	if err != nil {
		return nil, fmt.Errorf("failed to open card %d: %w", index, err)
	}
	if !clicked {
		return nil, nil
	}

	t.page.WaitFor(t.cardDelay)
	if err := t.page.WaitIdle(t.settle); err != nil {
		t.log.Debug().Err(err).Int("card", index).Msg("Detail pane did not reach network idle")
	}

	html, err := t.page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}

	return t.extractor.Extract(html, t.page.URL())
}

// logEmptyPage records diagnostic page state after recovery gives up.
func (t *CardTraversal) logEmptyPage() {
	liCount, err := t.page.Evaluate(`document.querySelectorAll('li').length`)
	if err != nil {
		t.log.Error().Err(err).Msg("No job cards after recovery, page state unreadable")
		return
	}
	t.log.Error().Interface("li_elements", liCount).Str("url", t.page.URL()).
		Msg("No job cards after recovery")
}
