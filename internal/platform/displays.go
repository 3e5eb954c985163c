package platform

import "sort"

// SortDisplays orders displays left-to-right, top-to-bottom (primary key:
// left edge ascending, secondary key: top edge ascending) and reassigns each
// display's ID to its ordinal index. The order is deterministic for an
// unchanged display configuration, so index-based selection is stable across
// enumerations.
func SortDisplays(displays []Display) {
	sort.SliceStable(displays, func(i, j int) bool {
		if displays[i].Bounds.X != displays[j].Bounds.X {
			return displays[i].Bounds.X < displays[j].Bounds.X
		}
		return displays[i].Bounds.Y < displays[j].Bounds.Y
	})
	for i := range displays {
		displays[i].ID = i
	}
}

// DisplayContaining maps a pixel coordinate to the display whose bounds
// contain it, falling back to the nearest display when the point lies
// outside every display (a window dragged half off-screen still belongs
// somewhere). Returns false only when the slice is empty.
func DisplayContaining(displays []Display, x, y int) (Display, bool) {
	if len(displays) == 0 {
		return Display{}, false
	}

	for _, d := range displays {
		if d.Bounds.Contains(x, y) {
			return d, true
		}
	}

	best := displays[0]
	bestDist := distanceToRect(best.Bounds, x, y)
	for _, d := range displays[1:] {
		if dist := distanceToRect(d.Bounds, x, y); dist < bestDist {
			best = d
			bestDist = dist
		}
	}
	return best, true
}

// distanceToRect returns the squared distance from a point to the closest
// point of the rectangle. Zero when the point is inside.
func distanceToRect(r Rect, x, y int) int {
	dx := 0
	if x < r.X {
		dx = r.X - x
	} else if x >= r.Right() {
		dx = x - r.Right() + 1
	}
	dy := 0
	if y < r.Y {
		dy = r.Y - y
	} else if y >= r.Bottom() {
		dy = y - r.Bottom() + 1
	}
	return dx*dx + dy*dy
}
