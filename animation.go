package tily

import (
	"math"
)

// AnimationOptions configures an Animation. The zero value plays once,
// forwards, with linear easing.
type AnimationOptions struct {
	// Time is the duration of one cycle in seconds.
	Time float64
	// Ease defaults to Lerp.
	Ease EaseFunc
	// OnFinish is called once when a non-repeating animation completes.
	OnFinish func()
	// OnRepeat is called at the end of every cycle, including the last one
	// of a non-repeating animation.
	OnRepeat func()
	// Repeat restarts the animation at the end of each cycle. A repeating
	// animation never finishes.
	Repeat bool
	// Reverse plays from finish to start.
	Reverse bool
	// Alternate flips Reverse at the end of each cycle. Only meaningful with
	// Repeat.
	Alternate bool
	// Relative treats the finish value as a delta from the current value.
	// Used by offset and rotation animations.
	Relative bool
	// Direction is "cw", "ccw" or empty for the shortest path. Used by
	// rotation animations.
	Direction string
}

// Animation is a Transition bound to one visual property of an active tile
// or active tile layer. Each Update writes the new property value through
// the setter the animation was built with.
//
// There is no global animation manager: an ActiveTile updates its own
// animations when it draws and drops the finished ones.
type Animation struct {
	timer
	kind      string
	repeat    bool
	reverse   bool
	alternate bool
	running   bool
	onRepeat  func()
	apply     func(amount float64)
}

func newAnimation(kind string, opts AnimationOptions, apply func(float64)) *Animation {
	return &Animation{
		timer:     newTimer(opts.Time, opts.Ease, opts.OnFinish),
		kind:      kind,
		repeat:    opts.Repeat,
		reverse:   opts.Reverse,
		alternate: opts.Alternate,
		running:   true,
		onRepeat:  opts.OnRepeat,
		apply:     apply,
	}
}

// Kind names the animated property ("offset", "rotation", ...).
func (a *Animation) Kind() string { return a.kind }

// Pause stops time from advancing. Update may still be called.
func (a *Animation) Pause() { a.running = false }

// Run resumes a paused animation.
func (a *Animation) Run() { a.running = true }

// Running reports whether the animation is not paused.
func (a *Animation) Running() bool { return a.running }

// Reset rewinds the current cycle to the beginning.
func (a *Animation) Reset() { a.currentTime = 0 }

// Reverse reports the current play direction.
func (a *Animation) Reverse() bool { return a.reverse }

// Finished reports whether a non-repeating animation has completed.
func (a *Animation) Finished() bool { return a.finished }

// Future returns the completion handle. It never resolves for repeating
// animations.
func (a *Animation) Future() *Future { return a.future }

// Update advances the animation by dt seconds, applies the property value
// and returns the interpolation amount in [0, 1] after accounting for
// direction. Repeat and finish callbacks run after the value is applied.
func (a *Animation) Update(dt float64) float64 {
	amount, ended := a.step(dt)
	if a.apply != nil {
		a.apply(amount)
	}
	if !ended || a.finished {
		return amount
	}
	if a.onRepeat != nil {
		a.onRepeat()
	}
	if !a.repeat {
		a.finish()
	}
	return amount
}

// step advances the clock and reports whether a cycle ended.
func (a *Animation) step(dt float64) (float64, bool) {
	if a.running {
		a.currentTime += dt
	}
	if a.currentTime < a.totalTime {
		if a.reverse {
			return 1 - a.amount(), false
		}
		return a.amount(), false
	}

	if a.repeat {
		if a.alternate {
			a.reverse = !a.reverse
		}
		a.currentTime = 0
		if a.reverse {
			return 1, true
		}
		return 0, true
	}

	if a.reverse {
		return 0, true
	}
	return 1, true
}

// NewOffsetAnimation animates a tile offset, easing each axis.
func NewOffsetAnimation(start, finish Vec2, set func(Vec2), opts AnimationOptions) *Animation {
	a := newAnimation("offset", opts, nil)
	a.apply = func(amount float64) { set(mixVec2(start, finish, amount, a.ease)) }
	return a
}

// NewScaleAnimation animates a tile scale, easing each axis.
func NewScaleAnimation(start, finish Vec2, set func(Vec2), opts AnimationOptions) *Animation {
	a := newAnimation("scale", opts, nil)
	a.apply = func(amount float64) { set(mixVec2(start, finish, amount, a.ease)) }
	return a
}

// NewOpacityAnimation animates opacity.
func NewOpacityAnimation(start, finish float64, set func(float64), opts AnimationOptions) *Animation {
	a := newAnimation("opacity", opts, nil)
	a.apply = func(amount float64) { set(a.ease(start, finish, amount)) }
	return a
}

// NewRotationAnimation animates an angle in radians. opts.Direction picks
// the way round: "cw" always increases the angle, "ccw" always decreases
// it, anything else takes the shortest path.
func NewRotationAnimation(start, finish float64, set func(float64), opts AnimationOptions) *Animation {
	start, finish = rotationRange(start, finish, opts.Direction)
	a := newAnimation("rotation", opts, nil)
	a.apply = func(amount float64) { set(a.ease(start, finish, amount)) }
	return a
}

// rotationRange rewrites start and finish so that linear interpolation
// between them turns in the requested direction.
func rotationRange(start, finish float64, direction string) (float64, float64) {
	const tau = 2 * math.Pi
	if math.IsNaN(start) || math.IsNaN(finish) || math.IsInf(start, 0) || math.IsInf(finish, 0) {
		return start, finish
	}
	switch direction {
	case "cw":
		// finish ends in (start, start+tau]
		if start >= finish {
			if d := math.Mod(finish-start, tau); !math.IsNaN(d) {
				finish = start + d + tau
			}
		}
	case "ccw":
		if start <= finish {
			if d := math.Mod(start-finish, tau); !math.IsNaN(d) {
				start = finish + d + tau
			}
		}
	default:
		mod := func(a, b float64) float64 { return a - math.Floor(a/b)*b }
		delta := mod(finish-start+math.Pi, tau) - math.Pi
		start = mod(start, tau)
		finish = start + delta
	}
	return start, finish
}

// NewForegroundAnimation animates a colour string. Both ends are parsed
// with ParseColor and the result is written back as "rgba(r, g, b, a)".
func NewForegroundAnimation(start, finish string, set func(string), opts AnimationOptions) *Animation {
	from, to := MustParseColor(start), MustParseColor(finish)
	a := newAnimation("foreground", opts, nil)
	a.apply = func(amount float64) { set(from.Lerp(to, amount, a.ease).CSS()) }
	return a
}

// NewOutlineAnimation animates an outline style string "width colour".
func NewOutlineAnimation(start, finish string, set func(string), opts AnimationOptions) *Animation {
	from, to := ParseOutline(start), ParseOutline(finish)
	fromC, toC := MustParseColor(from.Colour), MustParseColor(to.Colour)
	a := newAnimation("outline", opts, nil)
	a.apply = func(amount float64) {
		set(Outline{
			Width:  a.ease(from.Width, to.Width, amount),
			Colour: fromC.Lerp(toC, amount, a.ease).CSS(),
		}.String())
	}
	return a
}

// NewShadowAnimation animates a shadow style string "blur x y colour".
func NewShadowAnimation(start, finish string, set func(string), opts AnimationOptions) *Animation {
	from, to := ParseShadow(start), ParseShadow(finish)
	fromC, toC := MustParseColor(from.Colour), MustParseColor(to.Colour)
	a := newAnimation("shadow", opts, nil)
	a.apply = func(amount float64) {
		set(Shadow{
			Blur:    a.ease(from.Blur, to.Blur, amount),
			XOffset: a.ease(from.XOffset, to.XOffset, amount),
			YOffset: a.ease(from.YOffset, to.YOffset, amount),
			Colour:  fromC.Lerp(toC, amount, a.ease).CSS(),
		}.String())
	}
	return a
}

// TextFrames describes how a text animation produces its frames. Build one
// with CharSequence, FrameList or TextGenerator.
type TextFrames struct {
	frames    []string
	generator func(start string, amount float64) string
}

// CharSequence uses each character of s as one frame.
func CharSequence(s string) TextFrames {
	runes := []rune(s)
	frames := make([]string, len(runes))
	for i, r := range runes {
		frames[i] = string(r)
	}
	return TextFrames{frames: frames}
}

// FrameList uses each string as one frame.
func FrameList(frames ...string) TextFrames {
	return TextFrames{frames: append([]string(nil), frames...)}
}

// TextGenerator computes the text for each frame from the starting text and
// the current amount.
func TextGenerator(fn func(start string, amount float64) string) TextFrames {
	return TextFrames{generator: fn}
}

// frame returns the text to show at amount.
func (f TextFrames) frame(start string, amount float64) string {
	if f.generator != nil {
		return f.generator(start, amount)
	}
	if len(f.frames) == 0 {
		return start
	}
	i := int(math.Ceil(amount*float64(len(f.frames)))) - 1
	return f.frames[clampInt(i, 0, len(f.frames)-1)]
}

// NewTextAnimation steps an active tile layer's text through frames.
func NewTextAnimation(start string, frames TextFrames, set func(string), opts AnimationOptions) *Animation {
	a := newAnimation("text", opts, nil)
	a.apply = func(amount float64) { set(frames.frame(start, amount)) }
	return a
}
