package loadgen

import (
	"sync"
	"testing"
	"time"
)

func TestBurnRunsAtLeastRequestedDuration(t *testing.T) {
	for _, d := range []time.Duration{50 * time.Millisecond, 200 * time.Millisecond} {
		res := Burn(d)
		if res.Elapsed < d {
			t.Errorf("Burn(%v) elapsed %v, want >= %v", d, res.Elapsed, d)
		}
		if res.Iterations < 1 {
			t.Errorf("Burn(%v) completed %d iterations, want >= 1", d, res.Iterations)
		}
	}
}

func TestBurnConcurrent(t *testing.T) {
	// one burn per request goroutine; burns must share no state
	const workers = 16

	var wg sync.WaitGroup
	results := make([]Result, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Burn(10 * time.Millisecond)
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		if res.Elapsed < 10*time.Millisecond {
			t.Errorf("burn %d elapsed %v, want >= 10ms", i, res.Elapsed)
		}
		if res.Iterations < 1 {
			t.Errorf("burn %d completed %d iterations, want >= 1", i, res.Iterations)
		}
	}
}

func TestBurnCountsBatches(t *testing.T) {
	short := Burn(20 * time.Millisecond)
	long := Burn(200 * time.Millisecond)
	if long.Iterations < short.Iterations {
		t.Errorf("longer burn did fewer batches: %d < %d", long.Iterations, short.Iterations)
	}
}
