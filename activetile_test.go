package tily

import (
	"math"
	"strings"
	"testing"
)

func TestStyleInheritance(t *testing.T) {
	tile := NewActiveTile(0, 0, 0)
	tile.Foreground = Ptr("red")
	outer := tile.AddLayer(nil, ZTop)
	inner := outer.AddLayer(NewActiveTileLayer("x"), ZTop)

	if got := inner.InheritedForeground(); got != "red" {
		t.Errorf("inner foreground = %q, want red from the tile", got)
	}
	outer.Foreground = Ptr("blue")
	if got := inner.InheritedForeground(); got != "blue" {
		t.Errorf("inner foreground = %q, want blue from the outer layer", got)
	}
	if got := tile.InheritedForeground(); got != "red" {
		t.Errorf("tile foreground = %q, want red", got)
	}

	if inner.ActiveTile() != tile || inner.ParentLayer() != outer || outer.ParentLayer() != nil {
		t.Error("tree links not set")
	}

	detached := NewActiveTileLayer("y")
	if got := detached.InheritedForeground(); got != DefaultForeground {
		t.Errorf("detached foreground = %q, want default", got)
	}
	if _, ok := detached.InheritedFontSize(); ok {
		t.Error("font size should be unset by default")
	}
}

func TestActiveTileRemoveLayerDetaches(t *testing.T) {
	tile := NewActiveTile(0, 0, 0)
	l := tile.AddLayer(NewActiveTileLayer("a"), ZTop)
	tile.AddLayer(NewActiveTileLayer("b"), ZBottom)

	if tile.Layers()[0].Text != "b" {
		t.Errorf("bottom insert = %q", tile.Layers()[0].Text)
	}
	got := tile.RemoveLayer(ZTop)
	if got != l || l.Attached() || l.ActiveTile() != nil {
		t.Error("removed layer still attached")
	}
	if tile.RemoveLayer(4) != nil {
		t.Error("out of range remove returned a layer")
	}
	tile.RemoveAllLayers()
	if len(tile.Layers()) != 0 {
		t.Error("layers remain after RemoveAllLayers")
	}
}

func TestActiveTileMove(t *testing.T) {
	tile := NewActiveTile(2, 2, 0)
	f := tile.Move(Right, AnimationOptions{Time: 1})
	if !tile.Position.Eq(V(3, 2)) {
		t.Errorf("position = %v, want 3,2", tile.Position)
	}
	if got := tile.InheritedOffset(); !got.Eq(V(-1, 0)) {
		t.Errorf("offset = %v, want -1,0", got)
	}
	tile.updateAnimations(0.5)
	if got := tile.InheritedOffset(); !approxEqual(got.X, -0.5, 1e-9) {
		t.Errorf("offset = %v, want -0.5,0", got)
	}
	tile.updateAnimations(0.5)
	if got := tile.InheritedOffset(); !got.Eq(V(0, 0)) || !f.Resolved() {
		t.Errorf("offset = %v resolved=%v", got, f.Resolved())
	}
	if len(tile.Animations()) != 0 {
		t.Error("finished animation not dropped")
	}
}

func TestActiveTileMoveEndsAtZeroOffset(t *testing.T) {
	tile := NewActiveTile(0, 0, 0)
	tile.Offset = &Vec2{0.25, 0.5}
	tile.Move(Up, AnimationOptions{Time: 1})
	if got := tile.InheritedOffset(); !got.Eq(V(0, 1)) {
		t.Errorf("start offset = %v, want 0,1", got)
	}
	tile.updateAnimations(1)
	if got := tile.InheritedOffset(); !got.Eq(V(0, 0)) {
		t.Errorf("end offset = %v, want 0,0", got)
	}
	if !tile.Position.Eq(V(0, -1)) {
		t.Errorf("position = %v, want 0,-1", tile.Position)
	}
}

func TestActiveTileChainedMove(t *testing.T) {
	tile := NewActiveTile(0, 0, 0)
	moves := 0
	var next func()
	next = func() {
		moves++
		if moves < 3 {
			tile.Move(Down, AnimationOptions{Time: 1, OnFinish: next})
		}
	}
	tile.Move(Down, AnimationOptions{Time: 1, OnFinish: next})
	tile.updateAnimations(1)
	if got := tile.InheritedOffset(); !got.Eq(V(0, -1)) {
		t.Errorf("offset after chained move = %v, want 0,-1", got)
	}
	tile.updateAnimations(1)
	tile.updateAnimations(1)
	if !tile.Position.Eq(V(0, 3)) || moves != 3 {
		t.Errorf("position = %v moves = %d", tile.Position, moves)
	}
}

func TestAnimateRelativeOffsetAndRotation(t *testing.T) {
	tile := NewActiveTile(0, 0, 0)
	tile.Offset = &Vec2{1, 1}
	tile.AnimateOffset(1, 0, AnimationOptions{Relative: true})
	tile.Rotation = Ptr(math.Pi / 2)
	tile.AnimateRotation(math.Pi, AnimationOptions{Relative: true, Direction: "cw"})
	tile.updateAnimations(0)
	if got := tile.InheritedOffset(); !got.Eq(V(2, 1)) {
		t.Errorf("offset = %v, want 2,1", got)
	}
	if got := tile.InheritedRotation(); !approxEqual(got, 3*math.Pi/2, 1e-9) {
		t.Errorf("rotation = %f, want 3pi/2", got)
	}
}

func TestStopAnimationsRecurses(t *testing.T) {
	tile := NewActiveTile(0, 0, 0)
	l := tile.AddLayer(NewActiveTileLayer("a"), ZTop)
	tile.AnimateOpacity(0, AnimationOptions{Time: 1, Repeat: true})
	l.AnimateOpacity(0, AnimationOptions{Time: 1, Repeat: true})

	tile.PauseAnimations(true)
	if tile.Animations()[0].Running() || l.Animations()[0].Running() {
		t.Error("animations still running after PauseAnimations(true)")
	}
	tile.RunAnimations(false)
	if !tile.Animations()[0].Running() || l.Animations()[0].Running() {
		t.Error("RunAnimations(false) should only resume the tile")
	}

	tile.StopAnimations(false)
	if len(tile.Animations()) != 0 || len(l.Animations()) != 1 {
		t.Error("StopAnimations(false) touched the layer")
	}
	tile.StopAnimations(true)
	if len(l.Animations()) != 0 {
		t.Error("StopAnimations(true) left layer animations")
	}
}

func TestActiveTileDrawStyles(t *testing.T) {
	tile := NewActiveTile(1, 1, 0)
	tile.Foreground = Ptr("red")
	tile.FontSize = Ptr(20.0)
	tile.Outline = Ptr("0.1 black")
	tile.AddLayer(NewActiveTileLayer("a"), ZTop)
	blue := tile.AddLayer(NewActiveTileLayer("b"), ZTop)
	blue.Foreground = Ptr("blue")
	blue.Opacity = Ptr(0.5)

	s := NewRecordingSurface(100, 100)
	tile.Draw(s, 0, 10)

	fills := s.OpsOfKind("fillText")
	if len(fills) != 2 {
		t.Fatalf("fillText ops = %d, want 2", len(fills))
	}
	if fills[0].Fill != (Color{1, 0, 0, 1}) || fills[1].Fill != (Color{0, 0, 1, 1}) {
		t.Errorf("fills = %+v, %+v", fills[0].Fill, fills[1].Fill)
	}
	if fills[0].Font.Size != 20 {
		t.Errorf("font size = %f, want 20", fills[0].Font.Size)
	}
	if fills[1].Alpha != 0.5 {
		t.Errorf("layer alpha = %f, want 0.5", fills[1].Alpha)
	}
	if len(s.OpsOfKind("strokeText")) != 2 {
		t.Error("outlined layers should be stroked")
	}
	// Tile (1, 1) at tile size 10: the cell origin sits at (9.5, 9.5).
	if !approxEqual(fills[0].X, 9.5, 1e-9) || !approxEqual(fills[0].Y, 9.5, 1e-9) {
		t.Errorf("anchor = %f,%f, want 9.5,9.5", fills[0].X, fills[0].Y)
	}
}

func TestActiveTileWrap(t *testing.T) {
	tile := NewActiveTile(0, 0, 0)
	tile.Clip, tile.Wrap = true, true
	tile.Offset = &Vec2{0.5, 0}
	tile.AddLayer(NewActiveTileLayer("w"), ZTop)
	var amounts []float64
	tile.Layers()[0].AnimateText(TextGenerator(func(_ string, amount float64) string {
		amounts = append(amounts, amount)
		return "w"
	}), AnimationOptions{Time: 10})

	s := NewRecordingSurface(100, 100)
	tile.Draw(s, 0.1, 10)
	if got := len(s.Texts()); got != 2 {
		t.Errorf("draws = %d, want original plus one horizontal wrap", got)
	}
	for _, a := range amounts {
		if !approxEqual(a, 0.01, 1e-9) {
			t.Errorf("wrapped copy advanced the animation: amounts = %v", amounts)
			break
		}
	}
	for _, op := range s.OpsOfKind("fillText") {
		if !op.Clipped {
			t.Error("wrapped tile not clipped")
		}
	}
}

func TestActiveTileSerialize(t *testing.T) {
	tile := NewActiveTile(3, 4, 2)
	tile.Flip = true
	outer := tile.AddLayer(NewActiveTileLayer("o"), ZTop)
	outer.Shadow = Ptr("1 0 0 black")
	outer.AddLayer(NewActiveTileLayer("i"), ZTop)

	got := ActiveTileFromData(tile.Data())
	if got.ID != tile.ID || !got.Position.Eq(V(3, 4)) || got.ZIndex != 2 || !got.Flip {
		t.Errorf("tile = %+v", got.Data())
	}
	inner := got.Layers()[0].Layers()[0]
	if inner.Text != "i" || inner.InheritedShadow() != "1 0 0 black" || inner.ActiveTile() != got {
		t.Error("nested layer not restored")
	}

	bad := tile.Data()
	bad.ID = "not-a-uuid"
	if ActiveTileFromData(bad).ID == tile.ID {
		t.Error("malformed id should be replaced")
	}
	if !strings.Contains(tile.ID.String(), "-") {
		t.Error("id is not a uuid")
	}
}
