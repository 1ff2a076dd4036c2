package keymutex

import (
	"sync"
	"testing"
)

func TestKeyMutex_SerializesSameKey(t *testing.T) {
	m := New(16)

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Lock(7)
			counter++
			m.Unlock(7)
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("counter = %d, want 100", counter)
	}
}

func TestKeyMutex_StableStripeIndex(t *testing.T) {
	m := New(8)
	for _, id := range []int64{1, 42, 1 << 40} {
		if m.index(id) != m.index(id) {
			t.Errorf("index for id %d is not deterministic", id)
		}
	}
}

func TestKeyMutex_DefaultStripes(t *testing.T) {
	m := New(0)
	if len(m.stripes) != defaultStripes {
		t.Errorf("stripes = %d, want %d", len(m.stripes), defaultStripes)
	}
}
