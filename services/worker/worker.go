package worker

import (
	"context"
	"encoding/json"
	"time"

	"careertrack/jobworker/config"
	"careertrack/jobworker/helpers"
	"careertrack/jobworker/internal/record"
	"careertrack/jobworker/internal/scraper"
	"careertrack/jobworker/logger"
	scraperrors "careertrack/jobworker/pkg/errors"
	"careertrack/jobworker/services/cache"
	"careertrack/jobworker/services/publisher"
)

// Worker drives the crawl cycle: every interval it runs each enabled
// site scraper in sequence, merges the observed records into the corpus,
// persists the result and publishes the records that were new.
type Worker struct {
	scrapers  []scraper.Scraper
	publisher publisher.Publisher
	cache     cache.CacheService
	store     *record.Store
	merger    *record.Merger
	cfg       *config.Config
	log       *logger.Logger

	// probe is swapped out in tests
	probe func(url string) error
	now   func() time.Time
}

// NewWorker creates a new worker
func NewWorker(
	scrapers []scraper.Scraper,
	pub publisher.Publisher,
	cacheSvc cache.CacheService,
	store *record.Store,
	cfg *config.Config,
	log *logger.Logger,
) *Worker {
	return &Worker{
		scrapers:  scrapers,
		publisher: pub,
		cache:     cacheSvc,
		store:     store,
		merger:    record.NewMerger(),
		cfg:       cfg,
		log:       log.WithComponent("worker"),
		probe:     helpers.Probe,
		now:       time.Now,
	}
}

// Start runs crawl cycles until the context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	for {
		start := w.now()
		if err := w.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.log.Error().Err(err).Msg("Crawl cycle failed")
		}
		w.log.Info().Dur("elapsed", time.Since(start)).Msg("Crawl cycle finished")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.cfg.CrawlInterval):
		}
	}
}

// RunOnce executes a single crawl cycle over all sites. Site failures are
// isolated: a site that cannot be crawled is logged and skipped, and the
// cycle continues with the records the other sites produced. Only a
// corpus that cannot be read or written fails the cycle.
func (w *Worker) RunOnce(ctx context.Context) error {
	batch := w.crawlSites(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return w.mergeAndPublish(batch)
}

// crawlSites runs each scraper in sequence with a politeness delay
// between sites.
func (w *Worker) crawlSites(ctx context.Context) []record.JobRecord {
	var batch []record.JobRecord

	for i, s := range w.scrapers {
		if ctx.Err() != nil {
			return batch
		}
		name := s.GetName()

		if cache.InCooldown(w.cache, name) {
			w.log.Info().Str("site", name).Msg("Site in rate-limit cooldown, skipping")
			continue
		}

		if err := w.probe(s.GetURL()); err != nil {
			if helpers.IsRateLimited(err) {
				w.log.Warn().Str("site", name).Dur("cooldown", s.GetBlockTime()).
					Msg("Site is rate limiting, entering cooldown")
				if cerr := cache.MarkCooldown(w.cache, name, s.GetBlockTime()); cerr != nil {
					w.log.Error().
						Err(scraperrors.NewCache(name, "setting cooldown marker", cerr)).
						Msg("Failed to set cooldown marker")
				}
			} else {
				w.log.Warn().Err(err).Str("site", name).Msg("Preflight probe failed, skipping site")
			}
			continue
		}

		records, err := s.ScrapeJobs(ctx)
		// Partial results are kept even when the session failed midway
		batch = append(batch, records...)
		if err != nil {
			if ctx.Err() != nil {
				return batch
			}
			w.log.Error().Err(err).Str("site", name).Msg("Crawl session failed")
			continue
		}

		if i < len(w.scrapers)-1 {
			select {
			case <-ctx.Done():
				return batch
			case <-time.After(w.cfg.InterSiteDelay):
			}
		}
	}
	return batch
}

// mergeAndPublish folds the batch into the persisted corpus and pushes
// every newly observed record downstream.
func (w *Worker) mergeAndPublish(batch []record.JobRecord) error {
	corpus, err := w.store.Load()
	if err != nil {
		return err
	}

	now := w.now()
	merged, added := w.merger.Merge(corpus.Jobs, batch)

	if w.cfg.PruneAfterDays > 0 {
		maxAge := time.Duration(w.cfg.PruneAfterDays) * 24 * time.Hour
		merged = record.FilterStale(merged, maxAge, now)
	}

	corpus.Jobs = merged
	corpus.Metadata = record.Metadata{
		TotalJobs:      len(merged),
		NewJobsThisRun: len(added),
		LastUpdated:    helpers.Timestamp(now),
	}

	if err := w.store.Save(corpus); err != nil {
		return err
	}

	w.publishAdded(added)

	status := record.RunStatus{
		LastRunTime:     helpers.Timestamp(now),
		NewJobsFound:    len(added),
		EnabledWebsites: w.siteNames(),
	}
	if err := w.store.WriteStatus(status); err != nil {
		w.log.Error().Err(err).Msg("Failed to write run status")
	}

	w.log.Info().
		Int("total_jobs", len(merged)).
		Int("new_jobs", len(added)).
		Interface("by_source", record.SourceCounts(merged)).
		Msg("Corpus updated")
	return nil
}

// publishAdded pushes each new record to the stream, keyed by its source.
// Publish failures are logged per record; the corpus is already saved, so
// a missed publish never loses data.
func (w *Worker) publishAdded(added []record.JobRecord) {
	for _, rec := range added {
		data, err := json.Marshal(rec)
		if err != nil {
			w.log.Error().Err(err).Str("title", rec.Title).Msg("Failed to encode record")
			continue
		}

		key := rec.Source
		if key == "" {
			key = "unknown"
		}
		if err := w.publisher.Publish(key, data); err != nil {
			w.log.Error().
				Err(scraperrors.NewPublisher(key, "publishing record", err)).
				Str("title", rec.Title).
				Msg("Failed to publish record")
		}
	}

	if len(added) > 0 {
		if err := w.publisher.TrimStreams(); err != nil {
			w.log.Error().Err(err).Msg("Failed to trim streams")
		}
	}
}

func (w *Worker) siteNames() []string {
	names := make([]string, 0, len(w.scrapers))
	for _, s := range w.scrapers {
		names = append(names, s.GetName())
	}
	return names
}
