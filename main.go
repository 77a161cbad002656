package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"careertrack/jobworker/config"
	"careertrack/jobworker/internal/browser"
	"careertrack/jobworker/internal/record"
	"careertrack/jobworker/internal/scraper"
	"careertrack/jobworker/logger"
	"careertrack/jobworker/services/cache"
	"careertrack/jobworker/services/publisher"
	"careertrack/jobworker/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Load and validate configuration
	cfg := config.LoadConfig()

	log := logger.New(cfg.LogLevel, cfg.Environment)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Dur("crawl_interval", cfg.CrawlInterval).
		Str("output_file", cfg.OutputFile).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, &cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup(log)

	// Create site scrapers from the registry
	scrapers, err := scraper.NewScrapers(&cfg, services.Browser, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load site registry")
	}
	if len(scrapers) == 0 {
		log.Fatal().Msg("No sites are enabled")
	}

	log.Info().
		Int("site_count", len(scrapers)).
		Msg("Created site scrapers")

	store := record.NewStore(cfg.OutputFile, cfg.StatusFile)

	// Create and start worker
	w := worker.NewWorker(
		scrapers,
		services.Publisher,
		services.Cache,
		store,
		&cfg,
		log,
	)

	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting job posting worker")
		workerDone <- w.Start(ctx)
	}()

	// Wait for shutdown signal or worker error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case err := <-workerDone:
		if err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
	Browser   *browser.Manager
}

// Cleanup cleans up all services
func (s *Services) Cleanup(log *logger.Logger) {
	if s.Browser != nil {
		if err := s.Browser.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close browser")
		}
	}
	if s.Publisher != nil {
		if err := s.Publisher.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close publisher")
		}
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Services, error) {
	services := &Services{}

	// Cache holds the per-site rate-limit cooldowns
	services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
	log.Info().Str("addr", cfg.MemcacheAddr).Msg("Connected to Memcache")

	services.Publisher = publisher.NewRedisPublisher(
		ctx,
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)
	log.Info().
		Str("addr", cfg.RedisAddr).
		Int("db", cfg.RedisDB).
		Str("stream", cfg.RedisStream).
		Msg("Connected to Redis")

	manager, err := browser.NewManager(browser.Options{
		Headless:  cfg.Headless,
		UserAgent: cfg.UserAgent,
		TimeoutMs: cfg.PageTimeoutMs,
	})
	if err != nil {
		services.Cleanup(log)
		return nil, err
	}
	services.Browser = manager
	log.Info().Bool("headless", cfg.Headless).Msg("Browser launched")

	return services, nil
}
