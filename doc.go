// Package tily is a tile renderer for grid games drawn with text glyphs
// on [Ebitengine].
//
// A frame is driven by [Main], which draws one active buffer per frame
// and can cross-fade to another with [Main.ActivateBuffer]. Buffers come
// in two kinds:
//
//   - [Buffer] is a fixed-size grid of static [TileLayer]s.
//   - [CellBuffer] is unbounded. It splits the world into square cells and
//     asks a [CellFunc] for each visible cell the first time it is
//     seen.
//
// Both carry a camera (offset and scale, animated by [Buffer.MoveOffset]
// and [Buffer.Zoom]) and a set of [ActiveTile]s drawn between the static
// layers by z-index.
//
// # Quick start
//
//	b := tily.NewBuffer(20, 15, tily.BufferOptions{InitialScale: 20})
//	floor := b.AddLayer(nil, tily.ZTop)
//	floor.FillAll(".")
//
//	m := tily.NewMain(tily.MainOptions{ShowFPS: true})
//	m.ActivateBuffer(b, tily.TransitionOptions{})
//	tily.Run(m, tily.RunConfig{Title: "tily", Width: 800, Height: 600})
//
// # Active tiles
//
// An [ActiveTile] sits at a tile position and holds a stack of
// [ActiveTileLayer]s. Each layer has its own glyph, colours, font, offset,
// scale and rotation, and inherits the parent's offset and scale.
// Properties are animated with [Animation]s; moving a tile between grid
// positions is [ActiveTile.Move].
//
// # Surfaces
//
// Everything draws through the [Surface] interface. [EbitenSurface] renders
// to an ebiten image, [RecordingSurface] logs primitives for tests, and the
// term package renders to a tcell screen.
//
// # Input and scripts
//
// [Run] installs pointer and keyboard camera controls configured by
// [InputOptions]. Clicks and hovers are reported to an optional
// [EventSink]. A [Script] replays moves, clicks and screenshots frame by
// frame for automated captures.
//
// Diagnostics go to [Logger]; set it to nil to silence them.
//
// [Ebitengine]: https://ebitengine.org
package tily
