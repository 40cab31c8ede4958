package core

import (
	"sync"
	"testing"
)

func TestKeyLock_SerializesSameKey(t *testing.T) {
	kl := NewKeyLock()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		running int
		peak    int
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kl.Lock("conv-1")
			defer kl.Unlock("conv-1")

			mu.Lock()
			running++
			if running > peak {
				peak = running
			}
			mu.Unlock()

			mu.Lock()
			running--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if peak != 1 {
		t.Errorf("holders of the same key must never overlap, peak %d", peak)
	}
}

func TestKeyLock_DifferentKeysIndependent(t *testing.T) {
	kl := NewKeyLock()

	kl.Lock("a")
	done := make(chan struct{})
	go func() {
		kl.Lock("b")
		kl.Unlock("b")
		close(done)
	}()
	<-done
	kl.Unlock("a")
}
