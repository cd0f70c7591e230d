// internal/request/lifetime.go
package request

import "sync"

// Lifetime tracks whether the owner of a background fetch still exists.
// Writes made through guard never race with End.
type Lifetime struct {
	mu    sync.Mutex
	ended bool
}

func NewLifetime() *Lifetime { return &Lifetime{} }

// Alive reports whether End has not been called yet.
func (l *Lifetime) Alive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.ended
}

// End marks the owner as gone. Results arriving afterwards are discarded.
func (l *Lifetime) End() {
	l.mu.Lock()
	l.ended = true
	l.mu.Unlock()
}

// guard runs fn only if the lifetime is still alive, holding the lock so End
// cannot interleave.
func (l *Lifetime) guard(fn func()) bool {
	if l == nil {
		fn()
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ended {
		return false
	}
	fn()
	return true
}
