package tily

import "math"

// Z positions understood by every z-ordered collection: buffer layers, cell
// layers and active tile layers. Any other value is an index into the list.
const (
	// ZTop appends on insert and pops on remove.
	ZTop = math.MaxInt
	// ZBottom prepends on insert and shifts on remove.
	ZBottom = -1
)

// insertAt inserts item at z. Indices past either end are clamped.
func insertAt[T any](list []T, item T, z int) []T {
	switch {
	case z == ZTop || z >= len(list):
		return append(list, item)
	case z <= ZBottom:
		z = 0
	}
	var zero T
	list = append(list, zero)
	copy(list[z+1:], list[z:])
	list[z] = item
	return list
}

// removeAt removes the item at z. ok is false when the list is empty or z
// is out of range.
func removeAt[T any](list []T, z int) (_ []T, item T, ok bool) {
	if len(list) == 0 {
		return list, item, false
	}
	switch z {
	case ZTop:
		z = len(list) - 1
	case ZBottom:
		z = 0
	}
	if z < 0 || z >= len(list) {
		return list, item, false
	}
	item = list[z]
	copy(list[z:], list[z+1:])
	var zero T
	list[len(list)-1] = zero
	return list[:len(list)-1], item, true
}

// moveWithin moves the item at from to index to, or to from+to when
// relative. The target index is clamped into the list after the item has
// been taken out. Returns false when there are fewer than two items or
// from is out of range.
func moveWithin[T any](list []T, from, to int, relative bool) bool {
	if len(list) < 2 || from < 0 || from >= len(list) {
		return false
	}
	item := list[from]
	if relative {
		to = from + to
	}
	to = clampInt(to, 0, len(list)-1)
	if to > from {
		copy(list[from:], list[from+1:to+1])
	} else {
		copy(list[to+1:], list[to:from])
	}
	list[to] = item
	return true
}
