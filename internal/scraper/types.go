package scraper

import (
	"context"
	"time"

	"careertrack/jobworker/internal/record"
)

// Scraper crawls one job site and returns the records it observed.
type Scraper interface {
	// ScrapeJobs runs a full crawl session against the site.
	ScrapeJobs(ctx context.Context) ([]record.JobRecord, error)

	// GetName returns the site identifier used for logging and cooldowns.
	GetName() string

	// GetSource returns the source tag stamped on every record.
	GetSource() string

	// GetURL returns the listing URL, used for preflight probing.
	GetURL() string

	// GetBlockTime returns how long the site is skipped after a
	// rate-limit response.
	GetBlockTime() time.Duration
}

// Selectors holds the CSS selectors a site's listing pages are read with.
type Selectors struct {
	// Card matches one job card in the results list.
	Card string `yaml:"card"`
	// CardLink matches the activatable link inside a card.
	CardLink string `yaml:"card_link"`
	// ExpandFirst matches the control that opens the detail pane,
	// scoped inside a card.
	ExpandFirst string `yaml:"expand_first"`
	// NextPage matches the pagination link to the following page.
	NextPage string `yaml:"next_page"`
	// Title matches the job title inside the detail pane.
	Title string `yaml:"title"`
	// Location matches each location entry inside the detail pane.
	Location string `yaml:"location"`
	// Level matches the experience level inside the detail pane.
	Level string `yaml:"level"`
}

// SiteConfig describes one crawl target. The built-in registry provides
// defaults; a YAML sites file can override or disable entries.
type SiteConfig struct {
	Name          string    `yaml:"name"`
	Enabled       bool      `yaml:"enabled"`
	URL           string    `yaml:"url"`
	Employer      string    `yaml:"employer"`
	Source        string    `yaml:"source"`
	MaxPages      int       `yaml:"max_pages"`
	CacheKey      string    `yaml:"cache_key"`
	BlockSeconds  int32     `yaml:"block_seconds"`
	Selectors     Selectors `yaml:"selectors"`
	SectionLabels []string  `yaml:"section_labels"`
}
