// Package parallel runs independent units of work on a bounded set of
// goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 1,
	}
}

// Sequential returns a Config that runs everything on the calling goroutine.
func Sequential() Config {
	return Config{}
}

// Each executes f(i) for i in [0, n) and returns the error of the lowest
// index that failed. Every index runs even when some fail.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func Each(n int, f func(i int) error, cfg Config) error {
	errs := make([]error, n)
	workers := cfg.NumWorkers
	if workers < 1 {
		workers = 1
	}
	chunk := max(cfg.MinChunkSize, 1)

	if !cfg.Enabled || workers == 1 || n <= chunk {
		for i := 0; i < n; i++ {
			errs[i] = f(i)
		}
		return first(errs)
	}

	chunkSize := max((n+workers-1)/workers, chunk)
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				errs[i] = f(i)
			}
		}(start, end)
	}
	wg.Wait()
	return first(errs)
}

func first(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
