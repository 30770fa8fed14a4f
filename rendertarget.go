package tily

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// layerPool hands out offscreen images for BeginLayer groups. Every group
// covers the whole screen, so the pool holds a single size and deallocates
// its images when the screen is resized.
type layerPool struct {
	w, h int
	free []*ebiten.Image
}

// Acquire returns a cleared w x h image. A size different from the
// previous call empties the pool first.
func (p *layerPool) Acquire(w, h int) *ebiten.Image {
	p.resize(w, h)
	if n := len(p.free); n > 0 {
		img := p.free[n-1]
		p.free = p.free[:n-1]
		img.Clear()
		return img
	}
	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, w, h),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release returns img to the pool. Images left over from before a resize
// are deallocated instead.
func (p *layerPool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	if b := img.Bounds(); b.Dx() != p.w || b.Dy() != p.h {
		img.Deallocate()
		return
	}
	p.free = append(p.free, img)
}

func (p *layerPool) resize(w, h int) {
	if w == p.w && h == p.h {
		return
	}
	for _, img := range p.free {
		img.Deallocate()
	}
	p.free = p.free[:0]
	p.w, p.h = w, h
}
