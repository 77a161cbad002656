package config

import (
	"os"
	"strconv"
	"time"

	"careertrack/jobworker/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration
	MemcacheAddr string

	// Browser configuration
	Headless      bool
	PageTimeoutMs float64
	UserAgent     string

	// Crawl configuration
	CrawlInterval  time.Duration
	InterSiteDelay time.Duration
	CardDelay      time.Duration
	MaxPages       int
	ClicksPerSec   float64

	// Persistence
	OutputFile     string
	StatusFile     string
	SitesFile      string
	PruneAfterDays int

	// Environment
	Environment string
	LogLevel    string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	crawlInterval, _ := strconv.Atoi(getEnv("CRAWL_INTERVAL_SECONDS", "3600"))
	interSiteDelay, _ := strconv.Atoi(getEnv("INTER_SITE_DELAY_SECONDS", "5"))
	cardDelayMs, _ := strconv.Atoi(getEnv("CARD_DELAY_MS", "500"))
	pageTimeoutMs, _ := strconv.Atoi(getEnv("PAGE_TIMEOUT_MS", "30000"))
	maxPages, _ := strconv.Atoi(getEnv("MAX_PAGES", "5"))
	clicksPerSec, _ := strconv.ParseFloat(getEnv("CLICKS_PER_SECOND", "2"), 64)
	pruneAfterDays, _ := strconv.Atoi(getEnv("PRUNE_AFTER_DAYS", "0"))

	return Config{
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "jobpostings"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		Headless:             getEnv("HEADLESS", "true") == "true",
		PageTimeoutMs:        float64(pageTimeoutMs),
		UserAgent:            getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		CrawlInterval:        time.Duration(crawlInterval) * time.Second,
		InterSiteDelay:       time.Duration(interSiteDelay) * time.Second,
		CardDelay:            time.Duration(cardDelayMs) * time.Millisecond,
		MaxPages:             maxPages,
		ClicksPerSec:         clicksPerSec,
		OutputFile:           getEnv("OUTPUT_FILE", "data/jobs.json"),
		StatusFile:           getEnv("STATUS_FILE", "data/last_run.json"),
		SitesFile:            getEnv("SITES_FILE", ""),
		PruneAfterDays:       pruneAfterDays,
		Environment:          getEnv("JOBWORKER_ENVIRONMENT", "development"),
		LogLevel:             getEnv("LOG_LEVEL", ""),
	}
}

// Validate checks the configuration for values the worker cannot run with
func (c *Config) Validate() error {
	if c.OutputFile == "" {
		return errors.NewConfiguration("OUTPUT_FILE must not be empty", nil)
	}
	if c.MaxPages <= 0 {
		return errors.NewConfiguration("MAX_PAGES must be positive", nil)
	}
	if c.PageTimeoutMs <= 0 {
		return errors.NewConfiguration("PAGE_TIMEOUT_MS must be positive", nil)
	}
	if c.CrawlInterval <= 0 {
		return errors.NewConfiguration("CRAWL_INTERVAL_SECONDS must be positive", nil)
	}
	if c.ClicksPerSec <= 0 {
		return errors.NewConfiguration("CLICKS_PER_SECOND must be positive", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
