package sim

import (
	"sort"

	"github.com/AhmadAC/Fence-Game/internal/geom"
)

// The snapshot types are the host→client wire schema. Every mutable field
// is a pointer so a field missing from (or mangled in) a frame decodes to
// nil and the client keeps its prior value instead of zeroing state.

// PlayerSnapshot carries the network-visible subset of a player record.
type PlayerSnapshot struct {
	X                *float64 `json:"x,omitempty"`
	Y                *float64 `json:"y,omitempty"`
	HP               *int     `json:"hp,omitempty"`
	LastShotTime     *int64   `json:"last_shot_time,omitempty"`
	LastFireballTime *int64   `json:"last_fireball_time,omitempty"`
	FacingX          *float64 `json:"last_dx,omitempty"`
	FacingY          *float64 `json:"last_dy,omitempty"`
}

// FenceSnapshot carries one fence's full state. Bounds ride along for
// spectators; reconciliation never moves a fence.
type FenceSnapshot struct {
	ID                  int       `json:"id"`
	Open                *bool     `json:"open,omitempty"`
	LastInteractor      *int      `json:"last_interactor,omitempty"`
	LastInteractionTime *int64    `json:"last_interaction_time,omitempty"`
	Bounds              geom.Rect `json:"bounds"`
}

// ProjectileSnapshot carries one active projectile.
type ProjectileSnapshot struct {
	ID      int      `json:"id"`
	Kind    Kind     `json:"type,omitempty"`
	X       *float64 `json:"x,omitempty"`
	Y       *float64 `json:"y,omitempty"`
	VX      *float64 `json:"vx,omitempty"`
	VY      *float64 `json:"vy,omitempty"`
	OwnerID *int     `json:"owner_id,omitempty"`
	Radius  *float64 `json:"radius,omitempty"`
	Active  *bool    `json:"active,omitempty"`
}

// Snapshot is the complete host-authoritative world description for one
// tick.
type Snapshot struct {
	Players          map[int]PlayerSnapshot `json:"players,omitempty"`
	Fences           []FenceSnapshot        `json:"fences,omitempty"`
	Projectiles      []ProjectileSnapshot   `json:"projectiles"`
	GameOver         *bool                  `json:"game_over,omitempty"`
	Winner           *int                   `json:"winner,omitempty"`
	Scores           map[int]int            `json:"scores,omitempty"`
	NextProjectileID *int                   `json:"next_projectile_id,omitempty"`
}

// Snapshot serializes the authoritative world: every player and fence, but
// only the still-active projectiles.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Players:          make(map[int]PlayerSnapshot, len(s.players)),
		Fences:           make([]FenceSnapshot, 0, len(s.fences)),
		Projectiles:      make([]ProjectileSnapshot, 0, len(s.projectiles)),
		GameOver:         boolPtr(s.gameOver),
		Winner:           intPtr(s.winner),
		Scores:           s.Scores(),
		NextProjectileID: intPtr(s.factory.Peek()),
	}

	for _, pid := range playerOrder {
		p := s.players[pid]
		snap.Players[pid] = PlayerSnapshot{
			X:                f64Ptr(p.X),
			Y:                f64Ptr(p.Y),
			HP:               intPtr(p.HP),
			LastShotTime:     i64Ptr(p.LastShotTime),
			LastFireballTime: i64Ptr(p.LastFireballTime),
			FacingX:          f64Ptr(p.FacingX),
			FacingY:          f64Ptr(p.FacingY),
		}
	}

	for _, f := range s.fences {
		snap.Fences = append(snap.Fences, FenceSnapshot{
			ID:                  f.ID,
			Open:                boolPtr(f.Open),
			LastInteractor:      intPtr(f.LastInteractor),
			LastInteractionTime: i64Ptr(f.LastInteractionTime),
			Bounds:              f.Bounds,
		})
	}

	for _, p := range s.projectiles {
		if !p.Active {
			continue
		}
		snap.Projectiles = append(snap.Projectiles, ProjectileSnapshot{
			ID:      p.ID,
			Kind:    p.Kind,
			X:       f64Ptr(p.X),
			Y:       f64Ptr(p.Y),
			VX:      f64Ptr(p.VX),
			VY:      f64Ptr(p.VY),
			OwnerID: intPtr(p.OwnerID),
			Radius:  f64Ptr(p.Radius),
			Active:  boolPtr(p.Active),
		})
	}
	return snap
}

// ApplySnapshot merges a host snapshot into this (non-authoritative) world.
// The merge is reconciliation, not replacement: unknown fields keep their
// local values, fences are matched by id and never created or destroyed,
// and projectiles are diffed by id so surviving instances persist across
// frames without visual pops. Applying the same snapshot twice in a row is
// a no-op the second time.
func (s *State) ApplySnapshot(snap Snapshot) {
	if snap.Scores != nil {
		for id, v := range snap.Scores {
			s.scores[id] = v
		}
	}
	if snap.GameOver != nil {
		s.gameOver = *snap.GameOver
	}
	if snap.Winner != nil {
		s.winner = *snap.Winner
	}

	for id, ps := range snap.Players {
		local, ok := s.players[id]
		if !ok {
			continue
		}
		applyPlayerSnapshot(local, ps)
	}

	if len(snap.Fences) > 0 {
		byID := make(map[int]FenceSnapshot, len(snap.Fences))
		for _, fs := range snap.Fences {
			byID[fs.ID] = fs
		}
		for _, f := range s.fences {
			fs, ok := byID[f.ID]
			if !ok {
				continue
			}
			if fs.Open != nil {
				f.Open = *fs.Open
			}
			if fs.LastInteractor != nil {
				f.LastInteractor = *fs.LastInteractor
			}
			if fs.LastInteractionTime != nil {
				f.LastInteractionTime = *fs.LastInteractionTime
			}
		}
	}

	s.reconcileProjectiles(snap)
}

func applyPlayerSnapshot(p *Player, ps PlayerSnapshot) {
	if ps.X != nil {
		p.X = *ps.X
	}
	if ps.Y != nil {
		p.Y = *ps.Y
	}
	if ps.HP != nil {
		p.HP = *ps.HP
	}
	if ps.LastShotTime != nil {
		p.LastShotTime = *ps.LastShotTime
	}
	if ps.LastFireballTime != nil {
		p.LastFireballTime = *ps.LastFireballTime
	}
	if ps.FacingX != nil {
		p.FacingX = *ps.FacingX
	}
	if ps.FacingY != nil {
		p.FacingY = *ps.FacingY
	}
}

// reconcileProjectiles performs the three-way diff between the local live
// set and the snapshot set, keyed by id, then advances the id counter so it
// never collides with anything the host has already handed out.
func (s *State) reconcileProjectiles(snap Snapshot) {
	if s.gameOver {
		// Phase guarantee from the host: no projectiles survive a round end.
		s.projectiles = s.projectiles[:0]
		return
	}

	remote := make(map[int]ProjectileSnapshot, len(snap.Projectiles))
	for _, ps := range snap.Projectiles {
		remote[ps.ID] = ps
	}

	maxSeen := -1
	next := make([]*Projectile, 0, len(snap.Projectiles))
	matched := make(map[int]bool, len(remote))

	// Known both sides: update in place, drop if the host says inactive.
	for _, p := range s.projectiles {
		ps, ok := remote[p.ID]
		if !ok {
			continue // host no longer reports it as live
		}
		matched[p.ID] = true
		if p.ID > maxSeen {
			maxSeen = p.ID
		}
		applyProjectileSnapshot(p, ps)
		if p.Active {
			next = append(next, p)
		}
	}

	// New on the host side: construct from the declared kind, force the id,
	// then overlay the snapshot state.
	fresh := make([]*Projectile, 0)
	for id, ps := range remote {
		if matched[id] {
			continue
		}
		if id > maxSeen {
			maxSeen = id
		}
		kind := ps.Kind
		if kind != KindNormal && kind != KindFireball {
			kind = KindNormal
		}
		p := &Projectile{ID: id, Kind: kind, Radius: kind.Radius(), Active: true}
		applyProjectileSnapshot(p, ps)
		if p.Active {
			fresh = append(fresh, p)
		}
	}
	sort.Slice(fresh, func(i, j int) bool { return fresh[i].ID < fresh[j].ID })
	s.projectiles = append(next, fresh...)

	floor := maxSeen + 1
	if snap.NextProjectileID != nil && *snap.NextProjectileID > floor {
		floor = *snap.NextProjectileID
	}
	s.factory.AdvanceTo(floor)
}

func applyProjectileSnapshot(p *Projectile, ps ProjectileSnapshot) {
	if ps.Kind == KindNormal || ps.Kind == KindFireball {
		if ps.Kind != p.Kind {
			p.Kind = ps.Kind
			p.Radius = ps.Kind.Radius()
		}
	}
	if ps.X != nil {
		p.X = *ps.X
	}
	if ps.Y != nil {
		p.Y = *ps.Y
	}
	if ps.VX != nil {
		p.VX = *ps.VX
	}
	if ps.VY != nil {
		p.VY = *ps.VY
	}
	if ps.OwnerID != nil {
		p.OwnerID = *ps.OwnerID
	}
	if ps.Radius != nil && *ps.Radius > 0 {
		p.Radius = *ps.Radius
	}
	if ps.Active != nil {
		p.Active = *ps.Active
	}
	p.normalizeRadius()
}

func boolPtr(v bool) *bool      { return &v }
func intPtr(v int) *int         { return &v }
func i64Ptr(v int64) *int64     { return &v }
func f64Ptr(v float64) *float64 { return &v }
