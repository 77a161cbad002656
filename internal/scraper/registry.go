package scraper

import (
	"os"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"careertrack/jobworker/config"
	"careertrack/jobworker/internal/browser"
	"careertrack/jobworker/logger"
	scraperrors "careertrack/jobworker/pkg/errors"
)

// builtinSites is the static registry of crawl targets. A sites file can
// override entries by name or add new ones; code changes are only needed
// for sites whose page structure differs from the existing selectors.
func builtinSites() []SiteConfig {
	return []SiteConfig{
		{
			Name:         "google_careers",
			Enabled:      true,
			URL:          "https://www.google.com/about/careers/applications/jobs/results",
			Employer:     "Google",
			Source:       "google_careers",
			MaxPages:     5,
			CacheKey:     "google_careers_rate_limited",
			BlockSeconds: 1800,
			Selectors: Selectors{
				Card:        "li.zE6MFb",
				CardLink:    "a",
				ExpandFirst: `li.lLd3Je a[aria-label^="Learn more about"]`,
				NextPage:    `div[jsname="ViaHrd"] a`,
				Title:       "h2.p1N2lc",
				Location:    ".r0wTof",
				Level:       ".wVSTAb",
			},
			SectionLabels: []string{
				"Minimum qualifications",
				"Preferred qualifications",
				"About the job",
				"Responsibilities",
			},
		},
	}
}

type sitesFile struct {
	Sites []SiteConfig `yaml:"sites"`
}

// LoadSites returns the registry with any overrides from the given YAML
// file applied. Overrides replace builtin entries by name; unknown names
// are appended. An empty path or absent file yields the builtins as-is.
func LoadSites(path string) ([]SiteConfig, error) {
	sites := builtinSites()
	if path == "" {
		return sites, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return sites, nil
		}
		return nil, scraperrors.NewConfiguration("reading sites file", err)
	}

	var overlay sitesFile
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, scraperrors.NewConfiguration("parsing sites file", err)
	}

	byName := make(map[string]int, len(sites))
	for i, s := range sites {
		byName[s.Name] = i
	}
	for _, o := range overlay.Sites {
		if i, ok := byName[o.Name]; ok {
			sites[i] = o
		} else {
			sites = append(sites, o)
		}
	}
	return sites, nil
}

// NewScrapers builds one scraper per enabled registry entry. Each scraper
// gets its own click limiter so a slow site cannot starve the others.
func NewScrapers(cfg *config.Config, driver browser.Driver, log *logger.Logger) ([]Scraper, error) {
	sites, err := LoadSites(cfg.SitesFile)
	if err != nil {
		return nil, err
	}

	var scrapers []Scraper
	for _, site := range sites {
		if !site.Enabled {
			log.Info().Str("site", site.Name).Msg("Site disabled, skipping")
			continue
		}
		if site.MaxPages <= 0 {
			site.MaxPages = cfg.MaxPages
		}

		limiter := rate.NewLimiter(rate.Limit(cfg.ClicksPerSec), 1)
		settle := time.Duration(cfg.PageTimeoutMs) * time.Millisecond

		scrapers = append(scrapers, NewSiteScraper(site, driver, limiter, cfg.CardDelay, settle, log))
	}
	return scrapers, nil
}

// EnabledSiteNames lists the names crawls will cover, for run status
// reporting.
func EnabledSiteNames(sites []SiteConfig) []string {
	names := make([]string, 0, len(sites))
	for _, s := range sites {
		if s.Enabled {
			names = append(names, s.Name)
		}
	}
	return names
}
