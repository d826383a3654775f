// Package loadgen produces sustained CPU pressure so an external
// autoscaler has something to react to. The math is throwaway; only
// the burned CPU time and the elapsed wall clock matter.
package loadgen

import (
	"math"
	"math/rand"
	"runtime"
	"time"
)

// batchSize is how many float operations run between deadline checks.
// The deadline is only tested at batch boundaries, so the loop always
// overshoots the requested duration slightly.
const batchSize = 100000

// Result describes one completed burn.
type Result struct {
	// Iterations is the number of full batches completed.
	Iterations int
	// Elapsed is measured wall clock, always >= the requested duration.
	Elapsed time.Duration
}

// Burn runs square-root and power operations on the calling goroutine
// until at least d has elapsed. It cannot be cancelled; callers who
// cannot wait must impose their own timeout upstream. Burns run
// concurrently, one per /load request, and share no state.
func Burn(d time.Duration) Result {
	start := time.Now()
	deadline := start.Add(d)
	rng := rand.New(rand.NewSource(start.UnixNano()))

	var acc float64
	iterations := 0
	for time.Now().Before(deadline) {
		for i := 0; i < batchSize; i++ {
			acc += math.Sqrt(rng.Float64()) * math.Pow(rng.Float64()+1, 2)
		}
		iterations++
	}
	// keep the accumulator live so the loop isn't eliminated
	runtime.KeepAlive(acc)

	return Result{
		Iterations: iterations,
		Elapsed:    time.Since(start),
	}
}
