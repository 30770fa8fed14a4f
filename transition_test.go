package tily

import (
	"math"
	"runtime"
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

func TestTransitionReachesFinish(t *testing.T) {
	calls := 0
	tr := NewTransition(0, 10, TransitionOptions{Time: 1, OnFinish: func() { calls++ }})

	if got := tr.Update(0.25); !approxEqual(got, 2.5, 1e-9) {
		t.Errorf("quarter = %f, want 2.5", got)
	}
	if tr.Finished() {
		t.Fatal("finished early")
	}
	if got := tr.Update(0.8); got != 10 {
		t.Errorf("end = %f, want exactly 10", got)
	}
	if !tr.Finished() || !tr.Future().Resolved() {
		t.Error("expected finished and resolved")
	}
	tr.Update(1)
	if calls != 1 {
		t.Errorf("OnFinish calls = %d, want 1", calls)
	}
}

func TestTransitionZeroTime(t *testing.T) {
	tr := NewOffsetTransition(V(0, 0), V(3, 4), TransitionOptions{})
	if got := tr.Update(0); !got.Eq(V(3, 4)) {
		t.Errorf("zero-time transition = %v, want 3,4", got)
	}
	if tr.Amount() != 1 {
		t.Errorf("Amount = %f, want 1", tr.Amount())
	}
}

func TestTransitionEase(t *testing.T) {
	tr := NewScaleTransition(0, 1, TransitionOptions{Time: 1, Ease: Ease(ease.InQuad)})
	if got := tr.Update(0.5); !approxEqual(got, 0.25, 1e-6) {
		t.Errorf("InQuad at half = %f, want 0.25", got)
	}
	lin := Ease(ease.Linear)
	if got := lin(2, 4, 0.5); !approxEqual(got, 3, 1e-6) {
		t.Errorf("Linear = %f, want 3", got)
	}
}

func TestBufferTransitionAlpha(t *testing.T) {
	bt := NewBufferTransition(nil, nil, TransitionOptions{Time: 2})
	if got := bt.Update(1); !approxEqual(got, 0.5, 1e-9) {
		t.Errorf("alpha = %f, want 0.5", got)
	}
	if got := bt.Update(1); got != 1 || !bt.Finished() {
		t.Errorf("alpha = %f finished=%v, want 1 true", got, bt.Finished())
	}
}

func TestFutureCallbacks(t *testing.T) {
	f := newFuture()
	var order []int
	f.OnResolve(func() { order = append(order, 1) })
	f.resolve()
	f.resolve()
	f.OnResolve(func() { order = append(order, 2) })
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("order = %v, want [1 2]", order)
	}
	select {
	case <-f.Done():
	default:
		t.Error("Done channel not closed")
	}
}

func TestFutureResolvedAcrossGoroutines(t *testing.T) {
	f := newFuture()
	seen := make(chan bool)
	go func() {
		for !f.Resolved() {
			runtime.Gosched()
		}
		<-f.Done()
		seen <- f.Resolved()
	}()
	go func() {
		<-f.Done()
		seen <- f.Resolved()
	}()
	f.resolve()
	for i := 0; i < 2; i++ {
		select {
		case ok := <-seen:
			if !ok {
				t.Error("Resolved false after Done closed")
			}
		case <-time.After(5 * time.Second):
			t.Fatal("waiter never saw the future resolve")
		}
	}
}

func TestAnimationFinishesOnce(t *testing.T) {
	var value float64
	finished, repeats := 0, 0
	a := NewOpacityAnimation(0, 1, func(v float64) { value = v }, AnimationOptions{
		Time:     1,
		OnFinish: func() { finished++ },
		OnRepeat: func() { repeats++ },
	})
	a.Update(0.5)
	if !approxEqual(value, 0.5, 1e-9) {
		t.Errorf("value = %f, want 0.5", value)
	}
	a.Update(0.6)
	a.Update(0.6)
	if value != 1 || !a.Finished() {
		t.Errorf("value = %f finished=%v", value, a.Finished())
	}
	if finished != 1 || repeats != 1 {
		t.Errorf("finished=%d repeats=%d, want 1 1", finished, repeats)
	}
}

func TestAnimationReverseEndsAtStart(t *testing.T) {
	var value float64
	a := NewOpacityAnimation(0, 1, func(v float64) { value = v }, AnimationOptions{Time: 1, Reverse: true})
	a.Update(0.25)
	if !approxEqual(value, 0.75, 1e-9) {
		t.Errorf("value = %f, want 0.75", value)
	}
	a.Update(1)
	if value != 0 {
		t.Errorf("value = %f, want 0", value)
	}
}

func TestAnimationRepeatAlternate(t *testing.T) {
	var value float64
	repeats := 0
	a := NewOpacityAnimation(0, 1, func(v float64) { value = v }, AnimationOptions{
		Time: 1, Repeat: true, Alternate: true, OnRepeat: func() { repeats++ },
	})
	a.Update(1)
	if value != 1 || !a.Reverse() {
		t.Errorf("after first cycle value=%f reverse=%v, want 1 true", value, a.Reverse())
	}
	a.Update(0.25)
	if !approxEqual(value, 0.75, 1e-9) {
		t.Errorf("value = %f, want 0.75", value)
	}
	a.Update(1)
	if value != 0 || a.Reverse() {
		t.Errorf("after second cycle value=%f reverse=%v, want 0 false", value, a.Reverse())
	}
	if a.Finished() || repeats != 2 {
		t.Errorf("finished=%v repeats=%d", a.Finished(), repeats)
	}
}

func TestAnimationPauseReset(t *testing.T) {
	var value float64
	a := NewOpacityAnimation(0, 1, func(v float64) { value = v }, AnimationOptions{Time: 1})
	a.Update(0.5)
	a.Pause()
	a.Update(0.4)
	if !approxEqual(value, 0.5, 1e-9) {
		t.Errorf("paused value = %f, want 0.5", value)
	}
	a.Reset()
	a.Run()
	a.Update(0.1)
	if !approxEqual(value, 0.1, 1e-9) {
		t.Errorf("after reset value = %f, want 0.1", value)
	}
}

func TestRotationDirection(t *testing.T) {
	tests := []struct {
		dir           string
		start, finish float64
		wantDelta     float64
	}{
		{"cw", 0, -math.Pi / 2, 3 * math.Pi / 2},
		{"ccw", 0, math.Pi / 2, -3 * math.Pi / 2},
		{"", 0, 3 * math.Pi / 2, -math.Pi / 2},
		{"", 0, math.Pi / 2, math.Pi / 2},
	}
	for _, tt := range tests {
		s, f := rotationRange(tt.start, tt.finish, tt.dir)
		if !approxEqual(f-s, tt.wantDelta, 1e-9) {
			t.Errorf("%q %f->%f: delta = %f, want %f", tt.dir, tt.start, tt.finish, f-s, tt.wantDelta)
		}
	}
}

func TestRotationDirectionExtremes(t *testing.T) {
	for _, tt := range []struct {
		dir           string
		start, finish float64
	}{
		{"cw", 0, -1e12},
		{"cw", 0, -1e17},
		{"cw", 1, 1},
		{"ccw", -1e12, 0},
		{"ccw", 3e15, 3e15 + 10},
	} {
		s, f := rotationRange(tt.start, tt.finish, tt.dir)
		turn := f - s
		if tt.dir == "ccw" {
			turn = s - f
		}
		if turn <= 0 || turn > 2*math.Pi+1e-6 {
			t.Errorf("%q %g->%g: got %g->%g, want at most one turn", tt.dir, tt.start, tt.finish, s, f)
		}
	}

	for _, dir := range []string{"cw", "ccw", ""} {
		for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			s, f := rotationRange(0, v, dir)
			if s != 0 || !(f == v || math.IsNaN(v) && math.IsNaN(f)) {
				t.Errorf("%q 0->%g: got %g->%g, want unchanged", dir, v, s, f)
			}
		}
	}
}

func TestTextAnimationFrames(t *testing.T) {
	var text string
	a := NewTextAnimation("x", CharSequence("abcd"), func(s string) { text = s }, AnimationOptions{Time: 1})
	a.Update(0)
	if text != "a" {
		t.Errorf("frame at 0 = %q, want a", text)
	}
	a.Update(0.3)
	if text != "b" {
		t.Errorf("frame at 0.3 = %q, want b", text)
	}
	a.Update(0.7)
	if text != "d" {
		t.Errorf("final frame = %q, want d", text)
	}

	gen := NewTextAnimation("go", TextGenerator(func(s string, amount float64) string {
		return s[:int(amount*float64(len(s)))]
	}), func(s string) { text = s }, AnimationOptions{Time: 1})
	gen.Update(0.5)
	if text != "g" {
		t.Errorf("generated = %q, want g", text)
	}
}

func TestForegroundAnimationCSS(t *testing.T) {
	var got string
	a := NewForegroundAnimation("black", "white", func(s string) { got = s }, AnimationOptions{Time: 1})
	a.Update(0.5)
	if got != "rgba(128, 128, 128, 1)" {
		t.Errorf("mid colour = %q", got)
	}
}
