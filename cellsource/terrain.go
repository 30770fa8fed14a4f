// Package cellsource provides cell producers for tily.CellBuffer: a
// procedural terrain generator and clients that fetch cells from a cell
// server over HTTP or a websocket.
package cellsource

import (
	"math"

	"github.com/ojrac/opensimplex-go"

	"github.com/phanxgames/tily"
)

// Scenery codes for the scenery icon font.
const (
	Grass        = "c"
	Mountain     = "d"
	MountainSnow = "e"
	Tree         = "y"
	TreeTrunk    = "3"
	Water        = "6"
)

// Layer indices of a generated cell, bottom to top.
const (
	LayerLand = iota
	LayerWater
	LayerTreeTrunks
	LayerTrees
	LayerMountains
	LayerMountainSnow
	layerCount
)

// Terrain generates six-layer landscape cells from three seeded simplex
// noise fields: water, trees and mountains.
type Terrain struct {
	// Font is the family list set on every layer.
	Font string

	water, trees, mountains opensimplex.Noise
}

// NewTerrain creates a generator. The same seed always produces the same
// world.
func NewTerrain(seed int64) *Terrain {
	return &Terrain{
		Font:      "scenery_icons, monospace",
		water:     opensimplex.New((seed + 1) % 65536),
		trees:     opensimplex.New((seed + 2) % 65536),
		mountains: opensimplex.New((seed + 3) % 65536),
	}
}

// Feature returns the scenery at world tile (x, y) on top of the grass:
// Water, Mountain, Tree or "" for bare grass.
func (t *Terrain) Feature(x, y int) string {
	fx, fy := float64(x), float64(y)
	if math.Abs(t.water.Eval2(fx/32, fy/32)) < 0.12 {
		return Water
	}
	if math.Abs(t.mountains.Eval2(fx/24, fy/24)) < 0.04 {
		return Mountain
	}
	if math.Abs(t.trees.Eval2(fx/48, fy/48)) > 0.42 {
		return Tree
	}
	return ""
}

// Generate builds the cell at cell coordinate (cx, cy) for b.
func (t *Terrain) Generate(b *tily.CellBuffer, cx, cy int) *tily.Cell {
	cell := b.NewCell()
	layers := make([]*tily.TileLayer, layerCount)
	for i := range layers {
		layers[i] = cell.AddLayer(nil, tily.ZTop)
		layers[i].Font = t.Font
		layers[i].Centered = true
	}
	layers[LayerLand].Foreground, layers[LayerLand].Background = "#009245", "#39b54a"
	layers[LayerWater].Foreground, layers[LayerWater].Background = "#79c8e9", "#29abe2"
	layers[LayerTrees].Foreground = "#006837"
	layers[LayerTreeTrunks].Foreground = "#754c24"
	layers[LayerMountains].Foreground = "#504b48"
	layers[LayerMountainSnow].Foreground = "#e6e6e6"

	w, h := b.CellSize()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			layers[LayerLand].SetTile(x, y, Grass, "", "")
			switch t.Feature(x+cx*w, y+cy*h) {
			case Water:
				layers[LayerWater].SetTile(x, y, Water, "", "")
			case Mountain:
				layers[LayerMountains].SetTile(x, y, Mountain, "", "")
				layers[LayerMountainSnow].SetTile(x, y, MountainSnow, "", "")
			case Tree:
				layers[LayerTrees].SetTile(x, y, Tree, "", "")
				layers[LayerTreeTrunks].SetTile(x, y, TreeTrunk, "", "")
			}
		}
	}
	return cell
}

// Func returns a CellFunc that generates cells synchronously.
func (t *Terrain) Func() tily.CellFunc {
	return func(b *tily.CellBuffer, x, y int, resolve func(*tily.Cell), reject func(error)) {
		resolve(t.Generate(b, x, y))
	}
}
