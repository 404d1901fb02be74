package spamcheck

import (
	"container/ring"
	"sync"
)

// LastRecords keeps track of last N moderation records, thread-safe.
type LastRecords struct {
	records *ring.Ring
	size    int
	lock    sync.RWMutex
}

// NewLastRecords creates new records tracker
func NewLastRecords(size int) *LastRecords {
	// minimum size is 1
	if size < 1 {
		size = 1
	}
	return &LastRecords{
		records: ring.New(size),
		size:    size,
	}
}

// Push adds new record to the history
func (h *LastRecords) Push(rec Record) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.records.Value = rec
	h.records = h.records.Next()
}

// Last returns up to n last records, newest first
func (h *LastRecords) Last(n int) []Record {
	if n < 1 {
		return []Record{}
	}

	h.lock.RLock()
	defer h.lock.RUnlock()

	if n > h.size {
		n = h.size
	}

	result := make([]Record, 0, n)
	// current position is the oldest slot, walk backwards from the newest one
	for r := h.records.Prev(); len(result) < n; r = r.Prev() {
		rec, ok := r.Value.(Record)
		if !ok {
			break // empty slot, nothing older
		}
		result = append(result, rec)
		if r == h.records {
			break
		}
	}
	return result
}

// Size returns the size of records history
func (h *LastRecords) Size() int {
	return h.size
}
