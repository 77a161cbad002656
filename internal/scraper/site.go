package scraper

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"careertrack/jobworker/internal/browser"
	"careertrack/jobworker/internal/record"
	"careertrack/jobworker/logger"
	scraperrors "careertrack/jobworker/pkg/errors"
)

// SiteScraper runs a full crawl session for one site: a fresh page, the
// listing URL, then a card traversal per results page until pagination
// ends. One page is acquired per session and closed when it ends.
type SiteScraper struct {
	cfg       SiteConfig
	driver    browser.Driver
	limiter   *rate.Limiter
	cardDelay time.Duration
	settle    time.Duration
	log       *logger.Logger
}

var _ Scraper = (*SiteScraper)(nil)

func NewSiteScraper(cfg SiteConfig, driver browser.Driver, limiter *rate.Limiter, cardDelay, settle time.Duration, log *logger.Logger) *SiteScraper {
	return &SiteScraper{
		cfg:       cfg,
		driver:    driver,
		limiter:   limiter,
		cardDelay: cardDelay,
		settle:    settle,
		log:       log.WithSite(cfg.Name),
	}
}

// GetName returns the site identifier.
func (s *SiteScraper) GetName() string {
	return s.cfg.Name
}

// GetSource returns the source tag stamped on records.
func (s *SiteScraper) GetSource() string {
	return s.cfg.Source
}

// GetURL returns the listing URL.
func (s *SiteScraper) GetURL() string {
	return s.cfg.URL
}

// GetBlockTime returns the cooldown applied after a rate-limit response.
func (s *SiteScraper) GetBlockTime() time.Duration {
	return time.Duration(s.cfg.BlockSeconds) * time.Second
}

// ScrapeJobs crawls the site's listing pages and returns every record the
// detail panes yielded. Records already collected are returned alongside
// any page-level error so partial progress survives a mid-crawl failure.
func (s *SiteScraper) ScrapeJobs(ctx context.Context) ([]record.JobRecord, error) {
	page, err := s.driver.NewPage()
	if err != nil {
		return nil, scraperrors.NewNavigation(s.cfg.Name, "acquiring browser page", err)
	}
	defer page.Close()

	s.log.Info().Str("url", s.cfg.URL).Msg("Starting crawl session")

	if err := page.Navigate(s.cfg.URL); err != nil {
		return nil, scraperrors.NewNavigation(s.cfg.Name, "loading listing page", err)
	}
	if err := page.WaitIdle(s.settle); err != nil {
		s.log.Debug().Err(err).Msg("Listing page did not reach network idle")
	}

	// Open the first detail pane so the results list renders fully
	if s.cfg.Selectors.ExpandFirst != "" {
		if expanded, err := page.ClickFirst(s.cfg.Selectors.ExpandFirst); err != nil {
			s.log.Debug().Err(err).Msg("Initial expand control not clickable")
		} else if expanded {
			page.WaitFor(s.cardDelay)
		}
	}

	traversal := NewCardTraversal(page, s.cfg, s.limiter, s.cardDelay, s.settle, s.log)
	paginator := NewPaginator(page, s.cfg.Selectors.NextPage, s.cfg.MaxPages, s.settle, s.log)

	var all []record.JobRecord
	for {
		records, err := traversal.Run(ctx)
		all = append(all, records...)
		if err != nil {
			return all, err
		}
		s.log.Info().Int("page", paginator.Page()).Int("jobs", len(records)).
			Msg("Results page traversed")

		moved, err := paginator.Advance()
		if err != nil {
			s.log.Warn().Err(err).Msg("Pagination failed, keeping partial results")
			break
		}
		if !moved {
			break
		}
	}

	s.log.Info().Int("total_jobs", len(all)).Int("pages", paginator.Page()).
		Msg("Crawl session finished")
	return all, nil
}
