package spamcheck

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastRecordsBasicOps(t *testing.T) {
	h := NewLastRecords(5)
	rec1 := Record{Key: Key{ChatID: 1, MessageID: 1}, Text: "msg1"}
	rec2 := Record{Key: Key{ChatID: 1, MessageID: 2}, Text: "msg2"}
	rec3 := Record{Key: Key{ChatID: 1, MessageID: 3}, Text: "msg3"}

	h.Push(rec1)
	h.Push(rec2)
	h.Push(rec3)

	res := h.Last(3)
	require.Equal(t, 3, len(res))
	assert.Equal(t, rec3, res[0])
	assert.Equal(t, rec2, res[1])
	assert.Equal(t, rec1, res[2])

	res = h.Last(1)
	require.Equal(t, 1, len(res))
	assert.Equal(t, rec3, res[0])
}

func TestLastRecordsOverflow(t *testing.T) {
	h := NewLastRecords(2)
	rec1 := Record{Text: "msg1"}
	rec2 := Record{Text: "msg2"}
	rec3 := Record{Text: "msg3"}

	h.Push(rec1)
	h.Push(rec2)
	h.Push(rec3)

	res := h.Last(3)
	require.Equal(t, 2, len(res))
	assert.Equal(t, rec3, res[0])
	assert.Equal(t, rec2, res[1])
}

func TestLastRecordsEmpty(t *testing.T) {
	h := NewLastRecords(5)
	assert.Empty(t, h.Last(1))
	assert.Empty(t, h.Last(0))
	assert.Equal(t, 5, h.Size())
	assert.Equal(t, 1, NewLastRecords(0).Size())
}

func TestLastRecordsConcurrent(t *testing.T) {
	h := NewLastRecords(5)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			h.Push(Record{Key: Key{ChatID: 1, MessageID: i}})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			h.Last(5)
		}
	}()
	wg.Wait()

	res := h.Last(5)
	require.Equal(t, 5, len(res))
	assert.Equal(t, 99, res[0].Key.MessageID)
}
