package scheduler

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue_NewestWins(t *testing.T) {
	q := NewQueue()

	q.Push(Request{Gen: 1})
	q.Push(Request{Gen: 2})
	q.Push(Request{Gen: 3})

	got := <-q.C()
	assert.Equal(t, uint64(3), got.Gen)
	assert.Empty(t, q.C())
}

func TestQueue_ConcurrentPushNeverBlocks(t *testing.T) {
	q := NewQueue()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(gen uint64) {
			defer wg.Done()
			q.Push(Request{Gen: gen})
		}(uint64(i + 1))
	}
	wg.Wait()

	assert.Len(t, q.C(), 1)
}
