package client

import "sync"

// Lifecycle manages the process-wide generation capability: constructed
// exactly once, reused by every request, read-only after initialization.
// Requests arriving before initialization trigger it lazily and block until
// it completes.
type Lifecycle struct {
	construct func() (Generator, error)

	mu    sync.Mutex
	gen   Generator
	ready bool
}

// NewLifecycle wraps a constructor. The constructor is not called until
// Init or Get.
func NewLifecycle(construct func() (Generator, error)) *Lifecycle {
	return &Lifecycle{construct: construct}
}

// Init constructs the generator if it has not been constructed yet.
// A failed attempt is not cached: the next call retries.
func (l *Lifecycle) Init() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.initLocked()
}

// IsReady reports whether the generator has been successfully initialized.
func (l *Lifecycle) IsReady() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}

// Get returns the generator, initializing it first if needed. Concurrent
// callers block until initialization finishes.
func (l *Lifecycle) Get() (Generator, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.initLocked(); err != nil {
		return nil, err
	}
	return l.gen, nil
}

func (l *Lifecycle) initLocked() error {
	if l.ready {
		return nil
	}
	gen, err := l.construct()
	if err != nil {
		return err
	}
	l.gen = gen
	l.ready = true
	return nil
}
