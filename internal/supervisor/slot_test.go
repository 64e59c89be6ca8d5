package supervisor

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlot_TakeOnce(t *testing.T) {
	s := NewSlot("child")

	v, ok := s.Take()
	assert.True(t, ok)
	assert.Equal(t, "child", v)

	v, ok = s.Take()
	assert.False(t, ok)
	assert.Equal(t, "", v)
	assert.False(t, s.Occupied())
}

func TestSlot_TakeIf(t *testing.T) {
	s := NewSlot(3)

	_, ok := s.TakeIf(func(v int) bool { return v == 4 })
	assert.False(t, ok)
	assert.True(t, s.Occupied(), "rejected take leaves the value in place")

	v, ok := s.TakeIf(func(v int) bool { return v == 3 })
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestSlot_PeekDoesNotRemove(t *testing.T) {
	s := NewSlot(1)
	v, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.True(t, s.Occupied())
}

func TestSlot_ConcurrentTakers(t *testing.T) {
	s := NewSlot(&fakeChild{})
	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, ok := s.Take(); ok {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.False(t, s.Occupied())
}
