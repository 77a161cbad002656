package cache

import (
	"time"
)

// CacheService represents a generic cache service
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}

// cooldownSuffix marks per-site rate-limit cooldown keys.
const cooldownSuffix = "_rate_limited"

// MarkCooldown records that a site answered with a rate-limit response.
// Crawls of that site are skipped until the marker expires.
func MarkCooldown(c CacheService, site string, d time.Duration) error {
	return c.Set(site+cooldownSuffix, []byte("1"), d)
}

// InCooldown reports whether a site still has an active cooldown marker.
// Cache errors count as no cooldown; an unreachable cache must not stop
// crawling.
func InCooldown(c CacheService, site string) bool {
	val, err := c.Get(site + cooldownSuffix)
	return err == nil && len(val) > 0
}

// ClearCooldown removes a site's cooldown marker.
func ClearCooldown(c CacheService, site string) error {
	return c.Delete(site + cooldownSuffix)
}
