package tily

import "testing"

func TestLayerPoolScreenSize(t *testing.T) {
	var pool layerPool
	img := pool.Acquire(100, 50)
	defer pool.Release(img)

	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("size = %dx%d, want 100x50", b.Dx(), b.Dy())
	}
}

func TestLayerPoolReuse(t *testing.T) {
	var pool layerPool
	a := pool.Acquire(64, 64)
	b := pool.Acquire(64, 64)
	if a == b {
		t.Fatal("nested groups share an image")
	}
	pool.Release(a)
	pool.Release(b)
	if pool.Acquire(64, 64) != b || pool.Acquire(64, 64) != a {
		t.Error("released images should be reused last in first out")
	}
}

func TestLayerPoolResize(t *testing.T) {
	var pool layerPool
	old := pool.Acquire(10, 10)
	pooled := pool.Acquire(10, 10)
	pool.Release(pooled)

	resized := pool.Acquire(20, 20)
	if resized == pooled {
		t.Fatal("image of the old size reused after resize")
	}
	if len(pool.free) != 0 {
		t.Errorf("free = %d after resize, want 0", len(pool.free))
	}
	pool.Release(old)
	if len(pool.free) != 0 {
		t.Error("stale image returned to the pool")
	}
	pool.Release(resized)
	if pool.Acquire(20, 20) != resized {
		t.Error("current size image not reused")
	}
}

func TestLayerPoolReleaseNil(t *testing.T) {
	var pool layerPool
	pool.Release(nil)
}
