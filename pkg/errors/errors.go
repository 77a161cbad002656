package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeNavigation represents browser navigation errors
	ErrorTypeNavigation ErrorType = "navigation"
	// ErrorTypeDOM represents missing-element and page-query errors
	ErrorTypeDOM ErrorType = "dom"
	// ErrorTypeExtraction represents detail extraction errors
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypePersistence represents corpus read/write errors
	ErrorTypePersistence ErrorType = "persistence"
)

// ScrapeError represents a scraper-specific error
type ScrapeError struct {
	Type    ErrorType
	Site    string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Site, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Site, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *ScrapeError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNavigation, ErrorTypeDOM:
		return true
	default:
		return false
	}
}

// New creates a new ScrapeError
func New(errType ErrorType, site, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Site:    site,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNavigation creates a new navigation error
func NewNavigation(site, message string, err error) *ScrapeError {
	return New(ErrorTypeNavigation, site, message, err)
}

// NewDOM creates a new DOM error
func NewDOM(site, message string, err error) *ScrapeError {
	return New(ErrorTypeDOM, site, message, err)
}

// NewExtraction creates a new extraction error
func NewExtraction(site, message string, err error) *ScrapeError {
	return New(ErrorTypeExtraction, site, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(site string, duration time.Duration) *ScrapeError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, site, message, nil)
}

// NewCache creates a new cache error
func NewCache(site, message string, err error) *ScrapeError {
	return New(ErrorTypeCache, site, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(site, message string, err error) *ScrapeError {
	return New(ErrorTypePublisher, site, message, err)
}

// NewPersistence creates a new persistence error
func NewPersistence(message string, err error) *ScrapeError {
	return New(ErrorTypePersistence, "", message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "", message, err)
}
