package parallel

import (
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
)

func TestEach(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}

	var counter int64
	n := 1000

	err := Each(n, func(_ int) error {
		atomic.AddInt64(&counter, 1)
		return nil
	}, cfg)

	if err != nil {
		t.Fatalf("Each: %v", err)
	}
	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestEach_Sequential(t *testing.T) {
	var order []int
	err := Each(5, func(i int) error {
		order = append(order, i)
		return nil
	}, Sequential())

	if err != nil {
		t.Fatalf("Each: %v", err)
	}
	if len(order) != 5 {
		t.Fatalf("Expected 5 calls, got %d", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("Expected in-order execution, got %v", order)
		}
	}
}

func TestEach_LowestIndexError(t *testing.T) {
	errLow := errors.New("low")
	errHigh := errors.New("high")
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 1}

	var calls int64
	err := Each(10, func(i int) error {
		atomic.AddInt64(&calls, 1)
		switch i {
		case 2:
			return errLow
		case 7:
			return errHigh
		}
		return nil
	}, cfg)

	if !errors.Is(err, errLow) {
		t.Errorf("Expected %v, got %v", errLow, err)
	}
	if calls != 10 {
		t.Errorf("Expected every index to run, got %d calls", calls)
	}
}

func TestEach_Empty(t *testing.T) {
	if err := Each(0, func(int) error { return errors.New("never") }, DefaultConfig()); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.NumWorkers != runtime.NumCPU() {
		t.Errorf("Expected %d workers, got %d", runtime.NumCPU(), cfg.NumWorkers)
	}
	if cfg.Enabled != (runtime.NumCPU() > 1) {
		t.Errorf("Expected Enabled=%v, got %v", runtime.NumCPU() > 1, cfg.Enabled)
	}
}

func BenchmarkEach(b *testing.B) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 64}
	n := 10000
	add := func(sum *int64) func(int) error {
		return func(i int) error {
			atomic.AddInt64(sum, int64(i))
			return nil
		}
	}

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			_ = Each(n, add(&sum), cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			_ = Each(n, add(&sum), Sequential())
		}
	})
}
