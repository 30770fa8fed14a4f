package tily

import (
	"github.com/google/uuid"
)

// Animatable is the behaviour shared by ActiveTile and ActiveTileLayer: a
// z-ordered list of child layers, a set of running animations, and style
// properties resolved through the layer tree.
type Animatable interface {
	Layers() []*ActiveTileLayer
	AddLayer(layer *ActiveTileLayer, z int) *ActiveTileLayer
	RemoveLayer(z int) *ActiveTileLayer
	RemoveAllLayers()
	MoveLayer(from, to int, relative bool) bool

	Animations() []*Animation
	PauseAnimations(inherit bool)
	RunAnimations(inherit bool)
	ResetAnimations(inherit bool)
	StopAnimations(inherit bool)

	AnimateForeground(foreground string, opts AnimationOptions) *Future
	AnimateOutline(outline string, opts AnimationOptions) *Future
	AnimateShadow(shadow string, opts AnimationOptions) *Future
	AnimateOpacity(opacity float64, opts AnimationOptions) *Future
	AnimateScale(x, y float64, opts AnimationOptions) *Future
	AnimateOffset(x, y float64, opts AnimationOptions) *Future
	AnimateRotation(angle float64, opts AnimationOptions) *Future

	InheritedFont() string
	InheritedFontStyle() string
	InheritedFontSize() (float64, bool)
	InheritedForeground() string
	InheritedOutline() string
	InheritedShadow() string
	InheritedOpacity() float64
	InheritedCompositeMode() string
	InheritedOffset() Vec2
	InheritedScale() Vec2
	InheritedRotation() float64
	InheritedCentered() bool
}

var (
	_ Animatable = (*ActiveTile)(nil)
	_ Animatable = (*ActiveTileLayer)(nil)
)

// tileBase is the node state shared by the root tile and its layers.
type tileBase struct {
	Style
	layers     []*ActiveTileLayer
	animations []*Animation

	// parent is the enclosing node, nil for the root and detached layers.
	parent *tileBase
	// tile is the root of the tree this node belongs to.
	tile *ActiveTile
	// owner is the layer that embeds this base, nil for the root.
	owner *ActiveTileLayer
	root  bool
}

// Layers returns the child layers bottom to top. The slice must not be
// modified.
func (b *tileBase) Layers() []*ActiveTileLayer { return b.layers }

// AddLayer attaches layer at z (ZTop, ZBottom or an index) and returns it.
// A nil layer creates an empty one.
func (b *tileBase) AddLayer(layer *ActiveTileLayer, z int) *ActiveTileLayer {
	if layer == nil {
		layer = NewActiveTileLayer("")
	}
	layer.attach(b)
	b.layers = insertAt(b.layers, layer, z)
	return layer
}

// RemoveLayer detaches and returns the layer at z, or nil when there is
// none.
func (b *tileBase) RemoveLayer(z int) *ActiveTileLayer {
	var layer *ActiveTileLayer
	var ok bool
	b.layers, layer, ok = removeAt(b.layers, z)
	if !ok {
		return nil
	}
	layer.detach()
	return layer
}

// RemoveAllLayers detaches every child layer.
func (b *tileBase) RemoveAllLayers() {
	for _, l := range b.layers {
		l.detach()
	}
	b.layers = nil
}

// MoveLayer moves the layer at from to index to, or by to places when
// relative. Returns false when there are fewer than two layers or from is
// out of range.
func (b *tileBase) MoveLayer(from, to int, relative bool) bool {
	return moveWithin(b.layers, from, to, relative)
}

// Animations returns the running animations of this node only.
func (b *tileBase) Animations() []*Animation { return b.animations }

// PauseAnimations pauses this node's animations, and its descendants' when
// inherit is set.
func (b *tileBase) PauseAnimations(inherit bool) {
	b.eachAnimation(inherit, (*Animation).Pause)
}

// RunAnimations resumes paused animations.
func (b *tileBase) RunAnimations(inherit bool) {
	b.eachAnimation(inherit, (*Animation).Run)
}

// ResetAnimations rewinds animations to the start of their cycle.
func (b *tileBase) ResetAnimations(inherit bool) {
	b.eachAnimation(inherit, (*Animation).Reset)
}

// StopAnimations discards animations. Their futures never resolve.
func (b *tileBase) StopAnimations(inherit bool) {
	b.animations = nil
	if inherit {
		for _, l := range b.layers {
			l.StopAnimations(true)
		}
	}
}

func (b *tileBase) eachAnimation(inherit bool, fn func(*Animation)) {
	for _, a := range b.animations {
		fn(a)
	}
	if inherit {
		for _, l := range b.layers {
			l.eachAnimation(true, fn)
		}
	}
}

func (b *tileBase) addAnimation(a *Animation) *Future {
	b.animations = append(b.animations, a)
	return a.Future()
}

// updateAnimations advances every animation and drops the finished ones.
func (b *tileBase) updateAnimations(dt float64) {
	if len(b.animations) == 0 {
		return
	}
	for _, a := range b.animations {
		a.Update(dt)
	}
	kept := b.animations[:0]
	for _, a := range b.animations {
		if !a.Finished() {
			kept = append(kept, a)
		}
	}
	for i := len(kept); i < len(b.animations); i++ {
		b.animations[i] = nil
	}
	b.animations = kept
}

// AnimateForeground fades the foreground from its current inherited
// colour to foreground.
func (b *tileBase) AnimateForeground(foreground string, opts AnimationOptions) *Future {
	return b.addAnimation(NewForegroundAnimation(b.InheritedForeground(), foreground,
		func(v string) { b.Foreground = &v }, opts))
}

// AnimateOutline animates the outline width and colour.
func (b *tileBase) AnimateOutline(outline string, opts AnimationOptions) *Future {
	return b.addAnimation(NewOutlineAnimation(b.InheritedOutline(), outline,
		func(v string) { b.Outline = &v }, opts))
}

// AnimateShadow animates the shadow blur, offset and colour.
func (b *tileBase) AnimateShadow(shadow string, opts AnimationOptions) *Future {
	return b.addAnimation(NewShadowAnimation(b.InheritedShadow(), shadow,
		func(v string) { b.Shadow = &v }, opts))
}

// AnimateOpacity animates opacity.
func (b *tileBase) AnimateOpacity(opacity float64, opts AnimationOptions) *Future {
	return b.addAnimation(NewOpacityAnimation(b.InheritedOpacity(), opacity,
		func(v float64) { b.Opacity = &v }, opts))
}

// AnimateScale animates the scale to (x, y).
func (b *tileBase) AnimateScale(x, y float64, opts AnimationOptions) *Future {
	return b.addAnimation(NewScaleAnimation(b.InheritedScale(), V(x, y),
		func(v Vec2) { b.Scale = &v }, opts))
}

// AnimateOffset animates the offset to (x, y) tiles, or by (x, y) when
// opts.Relative is set.
func (b *tileBase) AnimateOffset(x, y float64, opts AnimationOptions) *Future {
	current := b.InheritedOffset()
	target := V(x, y)
	if opts.Relative {
		target = current.Add(target)
	}
	return b.addAnimation(NewOffsetAnimation(current, target,
		func(v Vec2) { b.Offset = &v }, opts))
}

// AnimateRotation animates the rotation to angle radians, or by angle when
// opts.Relative is set. opts.Direction selects "cw", "ccw" or the shortest
// path.
func (b *tileBase) AnimateRotation(angle float64, opts AnimationOptions) *Future {
	current := b.InheritedRotation()
	if opts.Relative {
		angle += current
	}
	return b.addAnimation(NewRotationAnimation(current, angle,
		func(v float64) { b.Rotation = &v }, opts))
}

func (b *tileBase) InheritedFont() string {
	return inherited(b, func(s *Style) *string { return s.Font }, DefaultFont)
}

func (b *tileBase) InheritedFontStyle() string {
	return inherited(b, func(s *Style) *string { return s.FontStyle }, DefaultFontStyle)
}

// InheritedFontSize returns the font size in pixels, or false when the
// size follows the tile size.
func (b *tileBase) InheritedFontSize() (float64, bool) {
	p := inherited(b, func(s *Style) **float64 { return ptrField(s.FontSize) }, nil)
	if p == nil {
		return 0, false
	}
	return *p, true
}

func (b *tileBase) InheritedForeground() string {
	return inherited(b, func(s *Style) *string { return s.Foreground }, DefaultForeground)
}

// InheritedOutline returns the outline string, or "" for none.
func (b *tileBase) InheritedOutline() string {
	return inherited(b, func(s *Style) *string { return s.Outline }, "")
}

// InheritedShadow returns the shadow string, or "" for none.
func (b *tileBase) InheritedShadow() string {
	return inherited(b, func(s *Style) *string { return s.Shadow }, "")
}

func (b *tileBase) InheritedOpacity() float64 {
	return inherited(b, func(s *Style) *float64 { return s.Opacity }, 1)
}

func (b *tileBase) InheritedCompositeMode() string {
	return inherited(b, func(s *Style) *string { return s.CompositeMode }, DefaultCompositeMode)
}

func (b *tileBase) InheritedOffset() Vec2 {
	return inherited(b, func(s *Style) *Vec2 { return s.Offset }, Vec2{})
}

func (b *tileBase) InheritedScale() Vec2 {
	return inherited(b, func(s *Style) *Vec2 { return s.Scale }, Vec2{1, 1})
}

func (b *tileBase) InheritedRotation() float64 {
	return inherited(b, func(s *Style) *float64 { return s.Rotation }, 0)
}

func (b *tileBase) InheritedCentered() bool {
	return inherited(b, func(s *Style) *bool { return s.Centered }, false)
}

// ptrField lifts a nullable field so inherited can tell "unset" apart from
// a set value.
func ptrField[T any](p *T) **T {
	if p == nil {
		return nil
	}
	return &p
}

// ActiveTile is a free-floating overlay entity positioned on the tile grid.
// It is the root of a tree of ActiveTileLayers and supplies concrete values
// for every style property its layers do not override.
type ActiveTile struct {
	tileBase

	ID uuid.UUID
	// Position is in tiles.
	Position Vec2
	// ZIndex places the tile after static layer ZIndex-1 when compositing.
	ZIndex int
	// Clip restricts drawing to the tile's cell.
	Clip bool
	// Wrap redraws content that slides past one edge of a clipped cell at
	// the opposite edge.
	Wrap bool
	// Flip mirrors the tile horizontally.
	Flip bool

	destroyed bool
}

// NewActiveTile creates an active tile at (x, y) with the given z-index.
func NewActiveTile(x, y float64, zIndex int) *ActiveTile {
	t := &ActiveTile{
		ID:       uuid.New(),
		Position: V(x, y),
		ZIndex:   zIndex,
	}
	t.Style = rootStyle()
	t.root = true
	t.tile = t
	return t
}

// Destroyed reports whether the tile has been removed from its buffer.
// The buffer drops destroyed tiles on its next draw.
func (t *ActiveTile) Destroyed() bool { return t.destroyed }

// Destroy marks the tile for removal.
func (t *ActiveTile) Destroy() { t.destroyed = true }

// Move shifts the tile one step in direction (Up, Down, Left, Right or any
// vector) and animates its offset from the old cell to zero, so the tile
// slides into its new position. Any existing offset is discarded.
func (t *ActiveTile) Move(direction Vec2, opts AnimationOptions) *Future {
	t.Position = t.Position.Add(direction)
	start := direction.MulS(-1)
	t.Offset = &start
	return t.addAnimation(NewOffsetAnimation(start, Vec2{},
		func(v Vec2) { t.Offset = &v }, opts))
}

// Draw advances the tile's animations by dt seconds and renders it at its
// position. The surface transform maps tile (0, 0) to the origin.
func (t *ActiveTile) Draw(s Surface, dt, tileSize float64) {
	if len(t.layers) == 0 {
		return
	}
	t.updateAnimations(dt)

	s.Save()
	defer s.Restore()

	size := tileSize + 1
	if fs, ok := t.InheritedFontSize(); ok {
		size = fs
	}
	s.SetFont(Font{Family: t.InheritedFont(), Style: t.InheritedFontStyle(), Size: size})
	s.SetFill(styleColor(t.InheritedForeground()))
	s.SetAlpha(t.InheritedOpacity())
	s.SetBlend(ParseCompositeMode(t.InheritedCompositeMode()))
	if o := t.InheritedOutline(); o != "" {
		applyOutline(s, o, tileSize)
	}
	if sh := t.InheritedShadow(); sh != "" {
		applyShadow(s, sh, tileSize)
	}

	offset, scale := t.InheritedOffset(), t.InheritedScale()
	s.Translate(t.Position.X*tileSize-0.5, t.Position.Y*tileSize-0.5)
	if t.Clip {
		s.ClipRect(0, 0, tileSize+1, tileSize+1)
	}
	s.Translate((offset.X+0.5)*tileSize, (offset.Y+0.5)*tileSize)
	s.Rotate(t.InheritedRotation())
	flip := 1.0
	if t.Flip {
		flip = -1
	}
	s.Scale(scale.X*flip, scale.Y)
	drawLayers(t.layers, s, dt, tileSize)

	if !t.Clip || !t.Wrap {
		return
	}
	// Copies drawn for wrapping must not advance animations again.
	wrapX := tileSize * flip
	if offset.X > 0 {
		wrapX = -wrapX
	}
	wrapY := tileSize
	if offset.Y > 0 {
		wrapY = -wrapY
	}
	if offset.X != 0 {
		drawWrapped(t.layers, s, wrapX, 0, tileSize)
	}
	if offset.Y != 0 {
		drawWrapped(t.layers, s, 0, wrapY, tileSize)
	}
	if offset.X != 0 && offset.Y != 0 {
		drawWrapped(t.layers, s, wrapX, wrapY, tileSize)
	}
}

func drawLayers(layers []*ActiveTileLayer, s Surface, dt, tileSize float64) {
	for _, l := range layers {
		l.Draw(s, dt, tileSize)
	}
}

func drawWrapped(layers []*ActiveTileLayer, s Surface, dx, dy, tileSize float64) {
	s.Save()
	s.Translate(dx, dy)
	drawLayers(layers, s, 0, tileSize)
	s.Restore()
}

// ActiveTileLayer is a drawable node inside an ActiveTile: a string of text
// plus optional style overrides and nested layers.
type ActiveTileLayer struct {
	tileBase

	Text string

	activeTile  *ActiveTile
	parentLayer *ActiveTileLayer
}

// NewActiveTileLayer creates a detached layer showing text.
func NewActiveTileLayer(text string) *ActiveTileLayer {
	l := &ActiveTileLayer{Text: text}
	l.owner = l
	return l
}

// ActiveTile returns the root tile this layer belongs to, or nil when
// detached.
func (l *ActiveTileLayer) ActiveTile() *ActiveTile { return l.activeTile }

// ParentLayer returns the enclosing layer, or nil when the layer sits
// directly on its ActiveTile or is detached.
func (l *ActiveTileLayer) ParentLayer() *ActiveTileLayer { return l.parentLayer }

// Attached reports whether the layer belongs to a tile.
func (l *ActiveTileLayer) Attached() bool { return l.parent != nil }

func (l *ActiveTileLayer) attach(parent *tileBase) {
	l.parent = parent
	l.tile = parent.tile
	l.activeTile = parent.tile
	l.parentLayer = parent.owner
	for _, c := range l.layers {
		c.attach(&l.tileBase)
	}
}

func (l *ActiveTileLayer) detach() {
	l.parent = nil
	l.parentLayer = nil
	l.activeTile = nil
	l.tile = nil
	for _, c := range l.layers {
		c.attach(&l.tileBase)
	}
}

// AnimateText steps the layer's text through frames.
func (l *ActiveTileLayer) AnimateText(frames TextFrames, opts AnimationOptions) *Future {
	return l.addAnimation(NewTextAnimation(l.Text, frames,
		func(v string) { l.Text = v }, opts))
}

// Draw advances the layer's animations and renders its text and children.
// Only the properties this layer overrides are applied; everything else is
// already set on the surface by the enclosing node.
func (l *ActiveTileLayer) Draw(s Surface, dt, tileSize float64) {
	if l.parent == nil {
		return
	}
	l.updateAnimations(dt)

	s.Save()
	defer s.Restore()

	if l.Font != nil || l.FontStyle != nil || l.FontSize != nil {
		size := tileSize + 1
		if fs, ok := l.InheritedFontSize(); ok {
			size = fs
		}
		s.SetFont(Font{Family: l.InheritedFont(), Style: l.InheritedFontStyle(), Size: size})
	}
	if l.Foreground != nil {
		s.SetFill(styleColor(*l.Foreground))
	}
	if l.Opacity != nil {
		s.SetAlpha(*l.Opacity)
	}
	if l.CompositeMode != nil {
		s.SetBlend(ParseCompositeMode(*l.CompositeMode))
	}
	if l.Outline != nil {
		applyOutline(s, *l.Outline, tileSize)
	}
	if l.Shadow != nil {
		applyShadow(s, *l.Shadow, tileSize)
	}
	if l.Offset != nil {
		s.Translate(l.Offset.X*tileSize, l.Offset.Y*tileSize)
	}
	if l.Rotation != nil {
		s.Rotate(*l.Rotation)
	}
	if l.Scale != nil {
		s.Scale(l.Scale.X, l.Scale.Y)
	}

	x, y := -tileSize*0.5, -tileSize*0.5
	if l.InheritedCentered() {
		x, y = 0, 0
		s.SetTextAlign(TextAlignCenter, TextBaselineMiddle)
	} else {
		s.SetTextAlign(TextAlignLeft, TextBaselineTop)
	}
	if l.Text != "" {
		if l.InheritedOutline() != "" {
			s.StrokeText(l.Text, x, y)
		}
		s.FillText(l.Text, x, y)
	}
	drawLayers(l.layers, s, dt, tileSize)
}

// ActiveTileLayerData is the serialized form of an ActiveTileLayer.
type ActiveTileLayerData struct {
	Style
	Text   string                `json:"text"`
	Layers []ActiveTileLayerData `json:"layers"`
}

// Data returns a snapshot of the layer and its children.
func (l *ActiveTileLayer) Data() ActiveTileLayerData {
	return ActiveTileLayerData{
		Style:  l.Style.clone(),
		Text:   l.Text,
		Layers: layersData(l.layers),
	}
}

// ActiveTileLayerFromData rebuilds a detached layer tree.
func ActiveTileLayerFromData(d ActiveTileLayerData) *ActiveTileLayer {
	l := NewActiveTileLayer(d.Text)
	l.Style = d.Style.clone()
	for _, c := range d.Layers {
		l.AddLayer(ActiveTileLayerFromData(c), ZTop)
	}
	return l
}

func layersData(layers []*ActiveTileLayer) []ActiveTileLayerData {
	out := make([]ActiveTileLayerData, len(layers))
	for i, l := range layers {
		out[i] = l.Data()
	}
	return out
}

// ActiveTileData is the serialized form of an ActiveTile.
type ActiveTileData struct {
	Style
	ID       string                `json:"id"`
	Position Vec2                  `json:"position"`
	ZIndex   int                   `json:"zIndex"`
	Clip     bool                  `json:"clip"`
	Wrap     bool                  `json:"wrap"`
	Flip     bool                  `json:"flip"`
	Layers   []ActiveTileLayerData `json:"layers"`
}

// Data returns a snapshot of the tile and its layers.
func (t *ActiveTile) Data() ActiveTileData {
	return ActiveTileData{
		Style:    t.Style.clone(),
		ID:       t.ID.String(),
		Position: t.Position,
		ZIndex:   t.ZIndex,
		Clip:     t.Clip,
		Wrap:     t.Wrap,
		Flip:     t.Flip,
		Layers:   layersData(t.layers),
	}
}

// ActiveTileFromData rebuilds a tile and re-attaches its layers. A missing
// or malformed ID is replaced with a new one.
func ActiveTileFromData(d ActiveTileData) *ActiveTile {
	t := NewActiveTile(d.Position.X, d.Position.Y, d.ZIndex)
	if id, err := uuid.Parse(d.ID); err == nil {
		t.ID = id
	}
	t.Style = d.Style.clone()
	t.Clip, t.Wrap, t.Flip = d.Clip, d.Wrap, d.Flip
	for _, l := range d.Layers {
		t.AddLayer(ActiveTileLayerFromData(l), ZTop)
	}
	return t
}
