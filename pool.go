package novelconv

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps workers; each PDF worker owns a browser (~200MB).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for browser child processes.
	cpuDivisor = 2
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("pool closed")

// Pool hands out up to size values of T to concurrent workers.
// Values are created lazily on first acquire.
type Pool[T any] struct {
	size    int
	items   []T
	sem     chan T
	mu      sync.Mutex
	created int
	closed  bool
	newFn   func() (T, error)
	closeFn func(T) error
}

// ConverterPool is a pool of converters, one per worker.
type ConverterPool = Pool[*Converter]

// NewPool creates a pool with capacity n. newFn builds a value on demand;
// closeFn, when non-nil, releases a value on Close.
func NewPool[T any](n int, newFn func() (T, error), closeFn func(T) error) *Pool[T] {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	return &Pool[T]{
		size:    n,
		items:   make([]T, 0, n),
		sem:     make(chan T, n),
		newFn:   newFn,
		closeFn: closeFn,
	}
}

// NewConverterPool creates a pool of converters built by newFn.
func NewConverterPool(n int, newFn func() (*Converter, error)) *ConverterPool {
	return NewPool(n, newFn, nil)
}

// Acquire gets a value from the pool, creating one if capacity allows.
// Blocks while all values are in use.
func (p *Pool[T]) Acquire() (T, error) {
	var zero T

	select {
	case v, ok := <-p.sem:
		if !ok {
			return zero, ErrPoolClosed
		}
		return v, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return zero, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		v, err := p.newFn()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return zero, err
		}

		p.mu.Lock()
		p.items = append(p.items, v)
		p.mu.Unlock()
		return v, nil
	}
	p.mu.Unlock()

	v, ok := <-p.sem
	if !ok {
		return zero, ErrPoolClosed
	}
	return v, nil
}

// Release returns a value to the pool.
// The lock is released before sending to avoid deadlock when the channel is full.
func (p *Pool[T]) Release(v T) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.sem <- v
}

// Close releases every created value.
// Returns an aggregated error if several values fail to close.
func (p *Pool[T]) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	items := p.items
	p.mu.Unlock()

	if p.closeFn == nil {
		return nil
	}
	var errs []error
	for _, v := range items {
		if err := p.closeFn(v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *Pool[T]) Size() int {
	return p.size
}

// ResolvePoolSize determines the worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
