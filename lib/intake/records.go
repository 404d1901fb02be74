package intake

import (
	"context"
	"sync"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"

	"github.com/umputun/tg-moderator/lib/spamcheck"
)

// MemoryRecords is an in-memory dedup store with ttl and max keys limit.
// Records are lost on restart, use storage.Moderations to survive it.
type MemoryRecords struct {
	ttl   time.Duration
	lock  sync.Mutex // serializes check-and-set of Reserve
	cache cache.Cache[spamcheck.Key, spamcheck.Record]
}

// NewMemoryRecords makes a store keeping records for ttl. The oldest records are evicted after maxKeys.
func NewMemoryRecords(ttl time.Duration, maxKeys int) *MemoryRecords {
	return &MemoryRecords{
		ttl:   ttl,
		cache: cache.NewCache[spamcheck.Key, spamcheck.Record]().WithMaxKeys(maxKeys).WithTTL(ttl),
	}
}

// Reserve puts a pending record if the key is not known
func (m *MemoryRecords) Reserve(_ context.Context, key spamcheck.Key) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if _, ok := m.cache.Get(key); ok {
		return false, nil
	}
	m.cache.Set(key, spamcheck.Record{Key: key, Status: spamcheck.StatusPending, Updated: time.Now()}, m.ttl)
	return true, nil
}

// Finish stores the final state of the record, the retention window restarts
func (m *MemoryRecords) Finish(_ context.Context, rec spamcheck.Record) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.cache.Set(rec.Key, rec, m.ttl)
	return nil
}

// Get returns the record by key
func (m *MemoryRecords) Get(key spamcheck.Key) (spamcheck.Record, bool) {
	return m.cache.Get(key)
}

// Len returns number of kept records
func (m *MemoryRecords) Len() int {
	return m.cache.Len()
}
