// Package request is the single async-request abstraction shared by every
// view: one fetch, with loading, error and data exposed as derived state.
package request

import (
	"context"
	"errors"
	"sync"
)

// ErrInFlight is returned when Execute is called while a fetch is outstanding.
var ErrInFlight = errors.New("request already in flight")

type Fetcher[T any] func(ctx context.Context) (T, error)

// Result is the outcome of one fetch.
type Result[T any] struct {
	Data T
	Err  error
}

func (r Result[T]) OK() bool { return r.Err == nil }

// Panel says which of the mutually exclusive view panels to show.
type Panel int

const (
	PanelLoading Panel = iota
	PanelError
	PanelReady
)

func (p Panel) String() string {
	switch p {
	case PanelLoading:
		return "loading"
	case PanelError:
		return "error"
	}
	return "ready"
}

// Request runs a Fetcher and keeps its latest outcome. A zero Request is not
// usable; build one with New.
type Request[T any] struct {
	fetch   Fetcher[T]
	failure func(error) error

	mu      sync.Mutex
	loading bool
	done    bool
	result  Result[T]
}

// New builds a Request. failure maps any fetch error to the error kept in the
// result (typically appErrors.NewFetchFailed with the view's message); nil
// keeps errors as they are.
func New[T any](fetch Fetcher[T], failure func(error) error) *Request[T] {
	if failure == nil {
		failure = func(err error) error { return err }
	}
	return &Request[T]{fetch: fetch, failure: failure}
}

// Execute runs the fetch once and records the result.
func (r *Request[T]) Execute(ctx context.Context) Result[T] {
	if !r.begin() {
		return Result[T]{Err: ErrInFlight}
	}
	res := r.run(ctx)
	r.finish(res)
	return res
}

// Go runs the fetch in the background. The fetch ignores ctx cancellation, as
// in-flight requests are not cancellable. The result is recorded and sent on
// the returned channel only while life is alive; otherwise it is dropped and
// the channel is closed empty.
func (r *Request[T]) Go(ctx context.Context, life *Lifetime) <-chan Result[T] {
	out := make(chan Result[T], 1)
	if !r.begin() {
		out <- Result[T]{Err: ErrInFlight}
		close(out)
		return out
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		defer close(out)
		res := r.run(detached)
		if !life.guard(func() { r.finish(res) }) {
			r.abandon()
			return
		}
		out <- res
	}()
	return out
}

func (r *Request[T]) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

func (r *Request[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result.Err
}

func (r *Request[T]) Data() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result.Data
}

// Panel is loading until the first result arrives, then error or ready.
func (r *Request[T]) Panel() Panel {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.loading || !r.done:
		return PanelLoading
	case r.result.Err != nil:
		return PanelError
	}
	return PanelReady
}

func (r *Request[T]) begin() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loading {
		return false
	}
	r.loading = true
	return true
}

func (r *Request[T]) run(ctx context.Context) Result[T] {
	data, err := r.fetch(ctx)
	if err != nil {
		var zero T
		return Result[T]{Data: zero, Err: r.failure(err)}
	}
	return Result[T]{Data: data}
}

func (r *Request[T]) finish(res Result[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = false
	r.done = true
	r.result = res
}

func (r *Request[T]) abandon() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = false
}
