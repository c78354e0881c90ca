package sim

import (
	"errors"
	"math"

	"github.com/AhmadAC/Fence-Game/internal/geom"
)

// MapData is the raw output of a map generator: obstacle rectangles plus two
// suggested start positions. NewState validates it; generators are free to
// emit junk entries and the simulation will skip or repair them.
type MapData struct {
	Fences []geom.Rect
	Starts [][2]float64
}

// ErrUnusableMap is returned when validation leaves no usable map at all.
// This is the one map problem fatal to construction; individual bad entries
// are skipped instead.
var ErrUnusableMap = errors.New("sim: map data yielded no usable layout")

// buildFences turns raw rectangles into fence entities, skipping entries
// with non-positive dimensions. Ids are assigned in input order and stay
// stable for the whole session.
func buildFences(raw []geom.Rect) []*Fence {
	fences := make([]*Fence, 0, len(raw))
	for _, r := range raw {
		if r.Width <= 0 || r.Height <= 0 {
			continue
		}
		fences = append(fences, NewFence(len(fences), r))
	}
	return fences
}

// collidesWithClosedFence tests a player circle (as its bounding box)
// against every closed fence.
func collidesWithClosedFence(x, y, radius float64, fences []*Fence) bool {
	box := geom.CircleBounds(x, y, radius)
	for _, f := range fences {
		if !f.Open && box.Overlaps(f.Bounds) {
			return true
		}
	}
	return false
}

// findFreeSpawn clamps the suggested position into the field and, if it sits
// inside a closed fence, searches outward in eight directions for the
// nearest free spot. Falls back to the clamped origin when the search fails.
func findFreeSpawn(x, y, radius float64, fences []*Fence) (float64, float64) {
	cx := geom.Clamp(x, radius, FieldWidth-radius)
	cy := geom.Clamp(y, radius, FieldHeight-radius)
	if !collidesWithClosedFence(cx, cy, radius, fences) {
		return cx, cy
	}

	step := math.Max(1, radius/2)
	maxRadius := radius * 6
	const directions = 8

	for ring := step; ring <= maxRadius; ring += step {
		for i := 0; i < directions; i++ {
			angle := (2 * math.Pi / directions) * float64(i)
			tx := geom.Clamp(cx+math.Cos(angle)*ring, radius, FieldWidth-radius)
			ty := geom.Clamp(cy+math.Sin(angle)*ring, radius, FieldHeight-radius)
			if !collidesWithClosedFence(tx, ty, radius, fences) {
				return tx, ty
			}
		}
	}
	return cx, cy
}

// validateStarts produces exactly two in-bounds, fence-free start positions,
// deriving defaults for any missing or non-finite suggestion.
func validateStarts(suggested [][2]float64, fences []*Fence) [2][2]float64 {
	defaults := [2][2]float64{
		{FieldWidth * 0.25, FieldHeight * 0.5},
		{FieldWidth * 0.75, FieldHeight * 0.5},
	}

	var out [2][2]float64
	for i := 0; i < 2; i++ {
		candidate := defaults[i]
		if i < len(suggested) && finite(suggested[i][0]) && finite(suggested[i][1]) {
			candidate = suggested[i]
		}
		x, y := findFreeSpawn(candidate[0], candidate[1], PlayerRadius, fences)
		out[i] = [2]float64{x, y}
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
