package sim

import "github.com/AhmadAC/Fence-Game/internal/geom"

// Kind tags a projectile as a normal shot or a fireball.
type Kind string

const (
	KindNormal   Kind = "normal"
	KindFireball Kind = "fireball"
)

// Radius returns the collision radius for the kind.
func (k Kind) Radius() float64 {
	if k == KindFireball {
		return FireballRadius
	}
	return ProjectileRadius
}

// Speed returns the velocity magnitude for the kind.
func (k Kind) Speed() float64 {
	if k == KindFireball {
		return FireballSpeed
	}
	return ProjectileSpeed
}

// Projectile is a moving circle owned by the player that fired it. Identity
// is the host-assigned id, never the object reference; the client rebuilds
// instances from snapshots keyed by id.
type Projectile struct {
	ID      int     `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	OwnerID int     `json:"owner_id"`
	Kind    Kind    `json:"type"`
	Radius  float64 `json:"radius"`
	Active  bool    `json:"active"`
}

// Bounds returns the projectile's square bounding box.
func (p *Projectile) Bounds() geom.Rect {
	return geom.CircleBounds(p.X, p.Y, p.Radius)
}

// Advance integrates one tick of motion and deactivates the projectile once
// its bounding box has fully left the play field.
func (p *Projectile) Advance() {
	if !p.Active {
		return
	}
	p.X += p.VX
	p.Y += p.VY

	b := p.Bounds()
	if b.Right() < 0 || b.Left() > FieldWidth || b.Bottom() < 0 || b.Top() > FieldHeight {
		p.Active = false
	}
}

// normalizeRadius corrects an invariant-threatening radius in place instead
// of letting it propagate.
func (p *Projectile) normalizeRadius() {
	if p.Radius <= 0 {
		p.Radius = p.Kind.Radius()
	}
}

// ProjectileFactory owns the session-wide monotonic projectile id counter.
// The host allocates from it; the client only advances it from snapshots so
// ids created locally after a reconcile can never collide.
type ProjectileFactory struct {
	nextID int
}

// NewProjectileFactory starts the counter at zero.
func NewProjectileFactory() *ProjectileFactory {
	return &ProjectileFactory{}
}

// Spawn builds an active projectile of the given kind with the next id.
func (f *ProjectileFactory) Spawn(kind Kind, x, y, vx, vy float64, ownerID int) *Projectile {
	p := &Projectile{
		ID:      f.nextID,
		X:       x,
		Y:       y,
		VX:      vx,
		VY:      vy,
		OwnerID: ownerID,
		Kind:    kind,
		Radius:  kind.Radius(),
		Active:  true,
	}
	f.nextID++
	p.normalizeRadius()
	return p
}

// Peek returns the next id without consuming it.
func (f *ProjectileFactory) Peek() int { return f.nextID }

// AdvanceTo raises the counter to floor if it is currently lower. The
// counter never moves backwards.
func (f *ProjectileFactory) AdvanceTo(floor int) {
	if floor > f.nextID {
		f.nextID = floor
	}
}

// Reset restarts the counter for a new round.
func (f *ProjectileFactory) Reset() { f.nextID = 0 }
