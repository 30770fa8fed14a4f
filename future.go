package tily

import "sync/atomic"

// Future is a completion handle returned by MoveOffset, Zoom, the animate
// methods and ActivateBuffer. It resolves when the underlying transition
// finishes during some later frame, never during the call that created it.
//
// A Future may never resolve: repeating animations do not finish, and a
// transition superseded by a newer call to the same mutator is abandoned.
type Future struct {
	done      chan struct{}
	resolved  atomic.Bool
	callbacks []func()
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Done returns a channel that is closed when the future resolves.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Resolved reports whether the future has resolved. It is safe to call
// from any goroutine.
func (f *Future) Resolved() bool {
	return f.resolved.Load()
}

// OnResolve registers fn to run when the future resolves. If it already
// has, fn runs immediately. Call it from the frame goroutine.
func (f *Future) OnResolve(fn func()) {
	if f.resolved.Load() {
		fn()
		return
	}
	f.callbacks = append(f.callbacks, fn)
}

func (f *Future) resolve() {
	if !f.resolved.CompareAndSwap(false, true) {
		return
	}
	close(f.done)
	for _, fn := range f.callbacks {
		fn()
	}
	f.callbacks = nil
}
