// Package maze generates the concentric-ring fence layouts the game is
// played in. Rings are built from axis-aligned wall segments with passable
// gaps on the quadrant axes, consecutive rings are joined by thick radial
// walls, and the two start positions are sampled in opposite quadrants.
package maze

import (
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/AhmadAC/Fence-Game/internal/geom"
	"github.com/AhmadAC/Fence-Game/internal/sim"
)

const (
	wallThickness = 10.0

	minRadiusStep   = 40.0
	maxRadiusStep   = 60.0
	radiusVariation = 5.0
	ringCount       = 5

	gapProbability     = 0.3
	connectProbability = 0.4

	// gapClearanceBuffer widens every gap beyond the player so passage does
	// not require pixel-perfect steering. The full opening is twice the
	// buffered player width.
	gapClearanceBuffer = 8.0

	startOffset = 15.0
	startTries  = 20
)

// Segment indices around a ring. Gaps and radial walls share the indexing.
const (
	segTop = iota
	segRight
	segBottom
	segLeft
)

// Generator produces maze layouts from a seeded RNG. The host seeds one per
// session and ships the result to the client, so layouts reproduce from the
// seed alone.
type Generator struct {
	rng *rand.Rand
	log *zap.SugaredLogger
}

// New returns a generator seeded for reproducible layouts.
func New(seed int64, logger *zap.SugaredLogger) *Generator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed)), log: logger}
}

// Layout builds one maze for the given field and player collision width.
// The result is raw generator output; sim.NewState validates it and repairs
// what it can.
func (g *Generator) Layout(width, height, playerWidth float64) sim.MapData {
	cx := math.Floor(width / 2)
	cy := math.Floor(height / 2)

	gapHalf := playerWidth + gapClearanceBuffer
	minCorridor := playerWidth + 30
	radialTh := math.Max(1, playerWidth*2)

	radii := g.ringRadii(width, height, playerWidth, gapHalf, minCorridor)
	if len(radii) == 0 {
		g.log.Warnw("no usable ring radii, falling back to an open field")
		return sim.MapData{Starts: [][2]float64{{cx, cy}, {cx, cy}}}
	}

	b := &builder{width: width, height: height}
	gaps := make([][]int, len(radii))
	for i, r := range radii {
		gaps[i] = g.pickGaps(len(radii))
		g.addRingWalls(b, cx, cy, r, gaps[i], gapHalf)
		if i > 0 {
			g.addRadialWalls(b, cx, cy, r, radii[i-1], gaps[i], gaps[i-1], playerWidth, radialTh)
		}
	}

	starts := g.pickStarts(b, cx, cy, radii, playerWidth)
	g.log.Debugw("maze generated", "rings", len(radii), "fences", len(b.fences), "starts", starts)
	return sim.MapData{Fences: b.fences, Starts: starts}
}

// ringRadii draws the ring centerline radii: random steps outward with the
// minimum corridor width enforced between consecutive rings, rings falling
// off the field discarded.
func (g *Generator) ringRadii(width, height, playerWidth, gapHalf, minCorridor float64) []float64 {
	const th = wallThickness
	radii := make([]float64, 0, ringCount)
	current := 0.0
	for i := 0; i < ringCount; i++ {
		step := minRadiusStep + g.rng.Float64()*(maxRadiusStep-minRadiusStep)
		if i == 0 {
			// The center cell must hold a player.
			step = math.Max(step, gapHalf*0.75)
			step = math.Max(step, playerWidth/2+th/2+5)
		} else {
			step = math.Max(step, minCorridor+th)
		}
		current += step

		r := math.Max(10, current+(g.rng.Float64()*2-1)*radiusVariation)
		if i > 0 {
			if floor := radii[i-1] + minCorridor + th; r < floor {
				r = floor
			}
		}
		radii = append(radii, math.Trunc(r))
	}

	maxAllowed := math.Min(width, height)/2 - th - 20
	kept := radii[:0]
	for _, r := range radii {
		if r < maxAllowed {
			kept = append(kept, r)
		}
	}
	radii = kept

	if len(radii) == 0 {
		if fb := math.Max(30, math.Trunc(gapHalf*1.5)); fb < maxAllowed {
			radii = append(radii, fb)
		}
		return radii
	}
	if len(radii) == 1 {
		// A single ring makes a dull maze; try to fit one more.
		if next := radii[0] + math.Max((minCorridor+th)*1.2, 50); next < maxAllowed {
			radii = append(radii, math.Trunc(next))
		}
	}
	return radii
}

// pickGaps chooses which quadrant segments of a ring are passable. Every
// ring ends up with at least one gap and usually one or two.
func (g *Generator) pickGaps(ringTotal int) []int {
	segs := []int{segTop, segRight, segBottom, segLeft}
	g.rng.Shuffle(len(segs), func(i, j int) { segs[i], segs[j] = segs[j], segs[i] })

	target := 1
	if ringTotal > 1 {
		target = 1 + g.rng.Intn(2)
	}

	var out []int
	for _, s := range segs {
		if g.rng.Float64() < gapProbability {
			out = append(out, s)
		}
	}

	if need := target - len(out); need > 0 {
		var rest []int
		for _, s := range segs {
			if !containsSeg(out, s) {
				rest = append(rest, s)
			}
		}
		g.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
		for i := 0; i < need && i < len(rest); i++ {
			out = append(out, rest[i])
		}
	}

	if len(out) == 0 {
		out = append(out, segs[g.rng.Intn(len(segs))])
	}
	return out
}

// addRingWalls emits the four wall segments of one ring, splitting gapped
// segments into two pieces around a centered opening of 2*gapHalf.
func (g *Generator) addRingWalls(b *builder, cx, cy, r float64, ringGaps []int, gapHalf float64) {
	const th = wallThickness
	half := th / 2
	span := (r + half) * 2

	// Top
	y := cy - r - half
	if !containsSeg(ringGaps, segTop) {
		b.add(cx-r-half, y, span, th)
	} else {
		b.add(cx-r-half, y, (cx-gapHalf)-(cx-r-half), th)
		b.add(cx+gapHalf, y, (cx+r+half)-(cx+gapHalf), th)
	}

	// Right
	x := cx + r - half
	if !containsSeg(ringGaps, segRight) {
		b.add(x, cy-r-half, th, span)
	} else {
		b.add(x, cy-r-half, th, (cy-gapHalf)-(cy-r-half))
		b.add(x, cy+gapHalf, th, (cy+r+half)-(cy+gapHalf))
	}

	// Bottom
	y = cy + r - half
	if !containsSeg(ringGaps, segBottom) {
		b.add(cx-r-half, y, span, th)
	} else {
		b.add(cx-r-half, y, (cx-gapHalf)-(cx-r-half), th)
		b.add(cx+gapHalf, y, (cx+r+half)-(cx+gapHalf), th)
	}

	// Left
	x = cx - r - half
	if !containsSeg(ringGaps, segLeft) {
		b.add(x, cy-r-half, th, span)
	} else {
		b.add(x, cy-r-half, th, (cy-gapHalf)-(cy-r-half))
		b.add(x, cy+gapHalf, th, (cy+r+half)-(cy+gapHalf))
	}
}

// addRadialWalls joins two consecutive rings on quadrant axes where neither
// ring has a gap, so a connector never seals a passage. When the inner ring
// is too tight for the thick connectors, adjacent axes are skipped and only
// opposite pairs may appear.
func (g *Generator) addRadialWalls(b *builder, cx, cy, rOuter, rInner float64, outerGaps, innerGaps []int, playerWidth, radialTh float64) {
	chord := math.Sqrt2 * rInner
	onlyOpposite := chord-radialTh < playerWidth+5

	segs := []int{segTop, segRight, segBottom, segLeft}
	g.rng.Shuffle(len(segs), func(i, j int) { segs[i], segs[j] = segs[j], segs[i] })

	var placed []int
	for _, seg := range segs {
		if onlyOpposite && adjacentToAny(seg, placed) {
			continue
		}
		if g.rng.Float64() >= connectProbability {
			continue
		}
		if containsSeg(outerGaps, seg) || containsSeg(innerGaps, seg) {
			continue
		}
		g.addRadialWall(b, seg, cx, cy, rOuter, rInner, radialTh)
		placed = append(placed, seg)
	}
}

// addRadialWall emits one connector spanning from the outer edge of the
// outer ring wall to the inner edge of the inner ring wall.
func (g *Generator) addRadialWall(b *builder, seg int, cx, cy, rOuter, rInner, radialTh float64) {
	half := wallThickness / 2.0
	outerEdge := rOuter + half
	innerEdge := rInner - half
	length := outerEdge - innerEdge
	if length < 1 {
		return
	}

	switch seg {
	case segTop:
		b.add(cx-radialTh/2, cy-outerEdge, radialTh, length)
	case segRight:
		b.add(cx+innerEdge, cy-radialTh/2, length, radialTh)
	case segBottom:
		b.add(cx-radialTh/2, cy+innerEdge, radialTh, length)
	case segLeft:
		b.add(cx-outerEdge, cy-radialTh/2, length, radialTh)
	}
}

// pickStarts samples the two start positions: one in the outer corridor,
// one in the center zone, in opposite quadrants.
func (g *Generator) pickStarts(b *builder, cx, cy float64, radii []float64, playerWidth float64) [][2]float64 {
	outermost := radii[len(radii)-1]
	outerZoneInner := outermost * 0.6
	if len(radii) >= 2 {
		outerZoneInner = radii[len(radii)-2]
	}
	innerZoneOuter := radii[0]

	q1 := g.rng.Intn(4)
	q2 := (q1 + 2) % 4

	p1 := g.findSafeStart(b, cx, cy, outerZoneInner, outermost, q1, playerWidth)
	p2 := g.findSafeStart(b, cx, cy, 0, innerZoneOuter, q2, playerWidth)
	return [][2]float64{p1, p2}
}

// findSafeStart rejection-samples a fence-free position inside an annulus
// quadrant. Quadrant 0 is top-right, continuing counterclockwise in world
// terms (screen y grows downward).
func (g *Generator) findSafeStart(b *builder, cx, cy, rMin, rMax float64, quadrant int, playerWidth float64) [2]float64 {
	rMin = math.Max(0, rMin)
	rMax = math.Max(rMin+playerWidth+5, rMax)

	angleStart := float64(quadrant) * math.Pi / 2
	margin := 10 * math.Pi / 180

	for i := 0; i < startTries; i++ {
		angle := angleStart + margin + g.rng.Float64()*(math.Pi/2-2*margin)

		safeMin := rMin + startOffset
		safeMax := rMax - startOffset
		r := (rMin + rMax) / 2
		if safeMax > safeMin {
			r = safeMin + g.rng.Float64()*(safeMax-safeMin)
		}

		x := cx + r*math.Cos(angle)
		y := cy - r*math.Sin(angle)
		if !b.collides(x, y, playerWidth) {
			return [2]float64{math.Trunc(x), math.Trunc(y)}
		}
	}

	// Give up on sampling; take the middle of the zone, or dead center if
	// even that is blocked.
	rMid := (rMin + rMax) / 2
	angle := (float64(quadrant) + 0.5) * math.Pi / 2
	x := cx + rMid*math.Cos(angle)
	y := cy - rMid*math.Sin(angle)
	if b.collides(x, y, playerWidth) {
		return [2]float64{cx, cy}
	}
	return [2]float64{math.Trunc(x), math.Trunc(y)}
}

// builder accumulates fence rectangles, truncating to whole units and
// discarding degenerate or far off-field pieces.
type builder struct {
	width, height float64
	fences        []geom.Rect
}

func (b *builder) add(x, y, w, h float64) {
	x, y = math.Trunc(x), math.Trunc(y)
	w, h = math.Trunc(w), math.Trunc(h)
	if w < 1 || h < 1 {
		return
	}
	const margin = wallThickness * 2
	if x+w <= -margin || x >= b.width+margin || y+h <= -margin || y >= b.height+margin {
		return
	}
	b.fences = append(b.fences, geom.Rect{X: x, Y: y, Width: w, Height: h})
}

// collides tests a player-sized square centered at (x, y) against every
// fence grown by one unit on each side.
func (b *builder) collides(x, y, playerWidth float64) bool {
	half := playerWidth / 2
	box := geom.Rect{X: x - half, Y: y - half, Width: playerWidth, Height: playerWidth}
	for _, f := range b.fences {
		grown := geom.Rect{X: f.X - 1, Y: f.Y - 1, Width: f.Width + 2, Height: f.Height + 2}
		if box.Overlaps(grown) {
			return true
		}
	}
	return false
}

func containsSeg(list []int, seg int) bool {
	for _, s := range list {
		if s == seg {
			return true
		}
	}
	return false
}

func adjacentToAny(seg int, placed []int) bool {
	for _, p := range placed {
		d := seg - p
		if d < 0 {
			d = -d
		}
		if d == 1 || d == 3 {
			return true
		}
	}
	return false
}
