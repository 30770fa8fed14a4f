package tily

import "github.com/tanema/gween/ease"

// EaseFunc interpolates from a to b by amount in [0, 1].
type EaseFunc func(a, b, amount float64) float64

// Lerp is the default linear EaseFunc.
func Lerp(a, b, amount float64) float64 {
	return a*(1-amount) + b*amount
}

// Ease adapts a gween easing curve (ease.OutQuad, ease.InOutSine, ...) to
// an EaseFunc.
func Ease(fn ease.TweenFunc) EaseFunc {
	if fn == nil {
		return Lerp
	}
	return func(a, b, amount float64) float64 {
		return float64(fn(float32(amount), float32(a), float32(b-a), 1))
	}
}

// TransitionOptions configures a Transition.
type TransitionOptions struct {
	// Time is the duration in seconds. Zero completes on the first update.
	Time float64
	// Ease defaults to Lerp.
	Ease EaseFunc
	// OnFinish is called exactly once when the transition completes.
	OnFinish func()
}

// timer is the shared clock of transitions and animations.
type timer struct {
	totalTime   float64
	currentTime float64
	ease        EaseFunc
	onFinish    func()
	finished    bool
	future      *Future
}

func newTimer(total float64, easeFn EaseFunc, onFinish func()) timer {
	if easeFn == nil {
		easeFn = Lerp
	}
	return timer{totalTime: total, ease: easeFn, onFinish: onFinish, future: newFuture()}
}

// amount returns currentTime/totalTime clamped into [0, 1].
func (t *timer) amount() float64 {
	if t.totalTime <= 0 {
		return 1
	}
	return clamp(t.currentTime/t.totalTime, 0, 1)
}

func (t *timer) finish() {
	if t.finished {
		return
	}
	t.finished = true
	if t.onFinish != nil {
		t.onFinish()
	}
	t.future.resolve()
}

// Transition interpolates between two fixed values of type T over time.
// Once finished it keeps returning the finish value.
type Transition[T any] struct {
	timer
	Start  T
	Finish T
	mix    func(a, b T, amount float64, e EaseFunc) T
}

// NewTransition creates a scalar transition.
func NewTransition(start, finish float64, opts TransitionOptions) *Transition[float64] {
	return &Transition[float64]{
		timer:  newTimer(opts.Time, opts.Ease, opts.OnFinish),
		Start:  start,
		Finish: finish,
		mix:    mixFloat,
	}
}

// NewOffsetTransition creates a transition between two camera offsets,
// easing each axis independently.
func NewOffsetTransition(start, finish Vec2, opts TransitionOptions) *Transition[Vec2] {
	return &Transition[Vec2]{
		timer:  newTimer(opts.Time, opts.Ease, opts.OnFinish),
		Start:  start,
		Finish: finish,
		mix:    mixVec2,
	}
}

// NewScaleTransition creates a camera scale transition.
func NewScaleTransition(start, finish float64, opts TransitionOptions) *Transition[float64] {
	return NewTransition(start, finish, opts)
}

func mixFloat(a, b, amount float64, e EaseFunc) float64 {
	return e(a, b, amount)
}

func mixVec2(a, b Vec2, amount float64, e EaseFunc) Vec2 {
	return Vec2{e(a.X, b.X, amount), e(a.Y, b.Y, amount)}
}

// Update advances the transition by dt seconds and returns the current
// value. The call that reaches the total time returns Finish exactly and
// fires OnFinish; later calls return Finish without firing it again.
func (t *Transition[T]) Update(dt float64) T {
	t.currentTime += dt
	if t.currentTime < t.totalTime {
		return t.mix(t.Start, t.Finish, t.amount(), t.ease)
	}
	t.finish()
	return t.Finish
}

// Amount returns the progress in [0, 1].
func (t *Transition[T]) Amount() float64 { return t.amount() }

// Finished reports whether the transition has completed.
func (t *Transition[T]) Finished() bool { return t.finished }

// Future returns the completion handle.
func (t *Transition[T]) Future() *Future { return t.future }

// BufferTransition cross-fades from one buffer to another. Update returns
// the incoming buffer's alpha.
type BufferTransition struct {
	timer
	From Drawable
	To   Drawable
}

// NewBufferTransition creates a cross-fade between two buffers. Either may
// be nil.
func NewBufferTransition(from, to Drawable, opts TransitionOptions) *BufferTransition {
	return &BufferTransition{
		timer: newTimer(opts.Time, opts.Ease, opts.OnFinish),
		From:  from,
		To:    to,
	}
}

// Update advances the fade and returns the eased alpha, or 1 once finished.
func (t *BufferTransition) Update(dt float64) float64 {
	t.currentTime += dt
	if t.currentTime < t.totalTime {
		return t.ease(0, 1, t.amount())
	}
	t.finish()
	return 1
}

// Finished reports whether the fade has completed.
func (t *BufferTransition) Finished() bool { return t.finished }

// Future returns the completion handle.
func (t *BufferTransition) Future() *Future { return t.future }
