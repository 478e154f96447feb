package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLock_SerializesPerKey(t *testing.T) {
	l := New()

	const goroutines = 100
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Lock("item:1")
			defer l.Unlock("item:1")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, counter)
}

func TestKeyLock_ReusesMutexPerKey(t *testing.T) {
	l := New()

	assert.Same(t, l.get("a"), l.get("a"))
	assert.NotSame(t, l.get("a"), l.get("b"))
}

func TestKeyLock_IndependentKeysDoNotBlock(t *testing.T) {
	l := New()

	l.Lock("a")
	defer l.Unlock("a")

	done := make(chan struct{})
	go func() {
		l.Lock("b")
		l.Unlock("b")
		close(done)
	}()

	<-done
}
