// Package parallel spreads index-based loops across CPUs.
package parallel

import (
	"runtime"
	"sync"
)

// Config bounds how a loop is split across goroutines.
type Config struct {
	Workers  int // goroutine count; 1 forces inline execution
	MinItems int // below this many items the loop runs inline
}

// DefaultConfig sizes the worker count to the available CPUs.
func DefaultConfig() Config {
	return Config{Workers: runtime.NumCPU(), MinItems: 64}
}

// For runs f(i) for every i in [0, n), splitting the range into
// contiguous chunks across workers when the config allows. f must be
// safe to call concurrently for distinct i.
func For(n int, cfg Config, f func(i int)) {
	if n <= 0 {
		return
	}
	if cfg.Workers <= 1 || n < cfg.MinItems {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	chunk := (n + cfg.Workers - 1) / cfg.Workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForBatch runs f(b, i) for every pair in [0, batch) x [0, per),
// parallelizing across the flattened index space so small batches of
// large items still spread out.
func ForBatch(batch, per int, cfg Config, f func(b, i int)) {
	For(batch*per, cfg, func(k int) {
		f(k/per, k%per)
	})
}
