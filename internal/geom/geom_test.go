package geom

import "testing"

func TestCirclesOverlapStrict(t *testing.T) {
	cases := []struct {
		name                   string
		x1, y1, r1, x2, y2, r2 float64
		want                   bool
	}{
		{"separated", 0, 0, 5, 20, 0, 5, false},
		{"tangent", 0, 0, 5, 10, 0, 5, false},
		{"overlapping", 0, 0, 5, 9, 0, 5, true},
		{"concentric", 3, 3, 1, 3, 3, 4, true},
		{"diagonal touch", 0, 0, 5, 6, 8, 5, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CirclesOverlap(tc.x1, tc.y1, tc.r1, tc.x2, tc.y2, tc.r2)
			if got != tc.want {
				t.Fatalf("CirclesOverlap(%v) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestClosestPointOnRect(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}

	x, y := ClosestPointOnRect(0, 0, r)
	if x != 10 || y != 20 {
		t.Fatalf("expected corner clamp (10,20), got (%v,%v)", x, y)
	}

	x, y = ClosestPointOnRect(25, 100, r)
	if x != 25 || y != 60 {
		t.Fatalf("expected edge clamp (25,60), got (%v,%v)", x, y)
	}

	x, y = ClosestPointOnRect(15, 30, r)
	if x != 15 || y != 30 {
		t.Fatalf("interior point should be unchanged, got (%v,%v)", x, y)
	}
}

func TestCircleRectOverlapUsesBoundingBox(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 10, Height: 10}

	// A circle whose true circular outline misses the rect corner but whose
	// bounding box clips it must still report an overlap.
	if !CircleRectOverlap(5.5, 5.5, 5, r) {
		t.Fatalf("expected bounding-box overlap at the corner")
	}
	if CircleRectOverlap(0, 0, 5, r) {
		t.Fatalf("expected no overlap far from the rect")
	}
}

func TestRectOverlapsExclusiveEdges(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 10, Y: 0, Width: 10, Height: 10}
	if a.Overlaps(b) {
		t.Fatalf("rects sharing an edge should not overlap")
	}
	b.X = 9.5
	if !a.Overlaps(b) {
		t.Fatalf("expected overlap after moving b left")
	}
}
