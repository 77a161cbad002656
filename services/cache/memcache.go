package cache

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcacheService implements CacheService on a memcached instance. The
// worker keeps its per-site cooldown markers here rather than in process
// memory, so a restart does not forget an active rate-limit block.
type MemcacheService struct {
	client *memcache.Client
}

// NewMemcacheService connects to the memcached server at serverAddr.
func NewMemcacheService(serverAddr string) *MemcacheService {
	return &MemcacheService{
		client: memcache.New(serverAddr),
	}
}

// Get retrieves a value. A missing key returns memcache.ErrCacheMiss,
// which cooldown checks treat as "no marker".
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

// Set stores a value that memcached expires after the given duration.
// Sub-second durations truncate to zero, which memcached treats as
// no expiry, so cooldowns are always whole seconds.
func (m *MemcacheService) Set(key string, value []byte, expiration time.Duration) error {
	return m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(expiration.Seconds()),
	})
}

// Delete removes a value, ending a cooldown early.
func (m *MemcacheService) Delete(key string) error {
	return m.client.Delete(key)
}
