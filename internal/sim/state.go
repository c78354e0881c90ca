package sim

import (
	"math"

	"go.uber.org/zap"

	"github.com/AhmadAC/Fence-Game/internal/geom"
)

// State owns the whole world for one session: the fence maze, both players,
// the live projectile set, and round bookkeeping. On the host it is the sole
// authority and the only writer is the simulation loop. On the client the
// identical structure is a mirror driven exclusively by ApplySnapshot.
type State struct {
	players     map[int]*Player
	fences      []*Fence
	projectiles []*Projectile
	factory     *ProjectileFactory

	gameOver bool
	winner   int
	scores   map[int]int

	starts [2][2]float64
	log    *zap.SugaredLogger
}

// playerOrder fixes the deterministic iteration order for the two players.
var playerOrder = [2]int{1, 2}

// NewState validates the generator output and builds a ready-to-play world.
// Bad fence entries are skipped and bad start suggestions replaced; only a
// generator output with nothing salvageable at all is an error.
func NewState(data MapData, logger *zap.SugaredLogger) (*State, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	fences := buildFences(data.Fences)
	if len(fences) == 0 && len(data.Fences) > 0 && len(data.Starts) == 0 {
		return nil, ErrUnusableMap
	}

	s := &State{
		fences:  fences,
		factory: NewProjectileFactory(),
		scores:  map[int]int{1: 0, 2: 0},
		starts:  validateStarts(data.Starts, fences),
		log:     logger,
	}
	s.Reset()
	return s, nil
}

// Reset starts a new round: players back at their validated start positions
// with full HP, fences closed, projectiles gone, id counter rewound. Scores
// survive resets; they are round tallies, not round state.
func (s *State) Reset() {
	s.players = map[int]*Player{
		1: {X: s.starts[0][0], Y: s.starts[0][1], HP: MaxHP, FacingX: 1, FacingY: 0},
		2: {X: s.starts[1][0], Y: s.starts[1][1], HP: MaxHP, FacingX: -1, FacingY: 0},
	}
	for _, f := range s.fences {
		f.Reset()
	}
	s.projectiles = s.projectiles[:0]
	s.factory.Reset()
	s.gameOver = false
	s.winner = 0
}

// Update advances the world by one tick. now is the session clock in
// milliseconds. Nothing here blocks, yields, or escapes with an error; a bad
// tick clamps and carries on.
func (s *State) Update(p1, p2 Intent, now int64) {
	if s.gameOver {
		return
	}
	intents := map[int]Intent{1: p1, 2: p2}

	s.stepMovement(intents)
	spawnedFireballs := s.stepActions(intents, now)
	s.resolveImmediateFireballs(spawnedFireballs)
	if !s.gameOver {
		s.stepProjectiles()
	}
	s.pruneProjectiles()
}

// stepMovement applies held-key movement for each living player with
// axis-split collision resolution: the X and Y displacement components are
// tested and accepted independently so a diagonal push against a wall still
// slides along it.
func (s *State) stepMovement(intents map[int]Intent) {
	for _, pid := range playerOrder {
		player := s.players[pid]
		if !player.Alive() {
			continue
		}

		dx, dy := intents[pid].Direction()
		if dx != 0 || dy != 0 {
			player.FacingX, player.FacingY = dx, dy
		}

		stepX := dx * PlayerSpeed
		stepY := dy * PlayerSpeed
		if dx != 0 && dy != 0 {
			stepX *= diagonalFactor
			stepY *= diagonalFactor
		}

		wantX := geom.Clamp(player.X+stepX, PlayerRadius, FieldWidth-PlayerRadius)
		wantY := geom.Clamp(player.Y+stepY, PlayerRadius, FieldHeight-PlayerRadius)

		other := s.players[opponent(pid)]
		blocked := func(x, y float64) bool {
			if other.Alive() && geom.CirclesOverlap(x, y, PlayerRadius, other.X, other.Y, PlayerRadius) {
				return true
			}
			return collidesWithClosedFence(x, y, PlayerRadius, s.fences)
		}

		newX := player.X
		if !blocked(wantX, player.Y) {
			newX = wantX
		}
		newY := player.Y
		if !blocked(newX, wantY) {
			newY = wantY
		}
		player.X, player.Y = newX, newY
	}
}

// stepActions handles interact/shoot/fireball for each living player and
// returns any fireballs spawned this tick for the immediate spawn check.
func (s *State) stepActions(intents map[int]Intent, now int64) []*Projectile {
	var fireballs []*Projectile
	for _, pid := range playerOrder {
		player := s.players[pid]
		if !player.Alive() {
			continue
		}
		in := intents[pid]

		if in.Interact {
			if f := s.closestFenceInRange(player.X, player.Y); f != nil {
				if f.Toggle(pid, now) {
					s.log.Debugw("fence toggled", "player", pid, "fence", f.ID, "open", f.Open)
				}
			}
		}

		if in.Shoot && now-player.LastShotTime > ShootCooldownMillis {
			player.LastShotTime = now
			s.spawnShot(KindNormal, pid, player)
		}

		if in.Fireball && now-player.LastFireballTime > FireballCooldownMillis {
			player.LastFireballTime = now
			if p := s.spawnShot(KindFireball, pid, player); p != nil {
				fireballs = append(fireballs, p)
			}
		}
	}
	return fireballs
}

// closestFenceInRange returns the fence whose nearest edge point lies within
// InteractionDistance of the player center, choosing the closest by squared
// distance. Exact ties resolve to the lowest fence id — arbitrary, but
// deterministic on both ends of the wire.
func (s *State) closestFenceInRange(px, py float64) *Fence {
	best := math.Inf(1)
	limit := InteractionDistance * InteractionDistance
	var found *Fence
	for _, f := range s.fences {
		cx, cy := geom.ClosestPointOnRect(px, py, f.Bounds)
		distSq := (px-cx)*(px-cx) + (py-cy)*(py-cy)
		if distSq < limit && distSq < best {
			best = distSq
			found = f
		}
	}
	return found
}

// spawnShot fires a projectile of the given kind along the player's facing.
// A zero facing vector skips the shot entirely; the cooldown timer has
// already been charged by then, matching the host-authoritative source
// behavior.
func (s *State) spawnShot(kind Kind, pid int, player *Player) *Projectile {
	mag := math.Hypot(player.FacingX, player.FacingY)
	if mag == 0 {
		return nil
	}
	ux := player.FacingX / mag
	uy := player.FacingY / mag

	offset := PlayerRadius + kind.Radius() + spawnOffsetBuffer
	p := s.factory.Spawn(kind,
		player.X+ux*offset, player.Y+uy*offset,
		ux*kind.Speed(), uy*kind.Speed(), pid)
	s.projectiles = append(s.projectiles, p)
	return p
}

// resolveImmediateFireballs damages the intended target of any fireball that
// spawned overlapping it this tick. Point-blank casts would otherwise never
// register, since the fireball starts inside the victim and the travel check
// only sees it leaving. Only the non-owner counts; a fireball overlapping
// its own caster at spawn is harmless to them.
func (s *State) resolveImmediateFireballs(fireballs []*Projectile) {
	if s.gameOver {
		return
	}
	for _, fb := range fireballs {
		if !fb.Active {
			continue
		}
		target := opponent(fb.OwnerID)
		if s.projectileHitsPlayer(fb) != target {
			continue
		}
		fb.Active = false
		s.applyDamage(fb, target)
		if s.gameOver {
			return
		}
	}
}

// stepProjectiles runs the per-tick projectile pipeline in list order:
// motion + off-screen cull, closed-fence impact with the owner-proximity
// pass-through rule, then player impact.
func (s *State) stepProjectiles() {
	for _, p := range s.projectiles {
		if !p.Active {
			continue
		}

		p.Advance()
		if !p.Active {
			continue
		}

		if fence := s.collidingClosedFence(p); fence != nil {
			if !s.ownerNearFence(p.OwnerID, fence) {
				p.Active = false
				continue
			}
			// Owner is standing against this wall; the shot passes through.
		}

		if hit := s.projectileHitsPlayer(p); hit != 0 {
			p.Active = false
			s.applyDamage(p, hit)
			if s.gameOver {
				return
			}
		}
	}
}

// collidingClosedFence returns the first closed fence the projectile's
// bounding box overlaps, or nil.
func (s *State) collidingClosedFence(p *Projectile) *Fence {
	box := p.Bounds()
	for _, f := range s.fences {
		if !f.Open && box.Overlaps(f.Bounds) {
			return f
		}
	}
	return nil
}

// ownerNearFence reports whether the projectile owner stands within the
// wall-proximity window of the given fence.
func (s *State) ownerNearFence(ownerID int, fence *Fence) bool {
	owner, ok := s.players[ownerID]
	if !ok {
		return false
	}
	return geom.CircleRectOverlap(owner.X, owner.Y, PlayerRadius+WallProximityThreshold, fence.Bounds)
}

// projectileHitsPlayer returns the id of the living non-owner player the
// projectile overlaps, or 0. Player 1 is checked first; a projectile only
// ever lands one hit so the preference is defensive.
func (s *State) projectileHitsPlayer(p *Projectile) int {
	if !p.Active || p.Radius <= 0 {
		return 0
	}
	for _, pid := range playerOrder {
		if pid == p.OwnerID {
			continue
		}
		target := s.players[pid]
		if !target.Alive() {
			continue
		}
		if geom.CirclesOverlap(p.X, p.Y, p.Radius, target.X, target.Y, PlayerRadius) {
			return pid
		}
	}
	return 0
}

// applyDamage deducts the projectile's damage from the target and runs the
// game-over transition when HP bottoms out. Fireball damage is a fraction of
// the target's current HP rounded up, so it always deals at least 1 while
// the target lives.
func (s *State) applyDamage(p *Projectile, targetID int) {
	target := s.players[targetID]
	damage := NormalProjectileDamage
	if p.Kind == KindFireball {
		damage = int(math.Ceil(float64(target.HP) * FireballDamageFactor))
	}
	target.HP -= damage
	s.log.Infow("player hit", "target", targetID, "by", p.OwnerID, "kind", p.Kind, "hp", target.HP)

	if target.HP <= 0 {
		target.HP = 0
		s.gameOver = true
		s.winner = p.OwnerID
		s.scores[s.winner]++
		// Round ends with a clean sky: nothing stays in flight.
		for _, other := range s.projectiles {
			other.Active = false
		}
		s.log.Infow("round over", "winner", s.winner, "scores", s.scores)
	}
}

// pruneProjectiles drops every deactivated projectile from the live set,
// matching by identity rather than index.
func (s *State) pruneProjectiles() {
	live := s.projectiles[:0]
	for _, p := range s.projectiles {
		if p.Active {
			live = append(live, p)
		}
	}
	for i := len(live); i < len(s.projectiles); i++ {
		s.projectiles[i] = nil
	}
	s.projectiles = live
}

// GameOver reports whether the current round has ended.
func (s *State) GameOver() bool { return s.gameOver }

// Winner returns the id of the round winner, or 0 while playing.
func (s *State) Winner() int { return s.winner }

// Scores returns a copy of the running score tally.
func (s *State) Scores() map[int]int {
	out := make(map[int]int, len(s.scores))
	for k, v := range s.scores {
		out[k] = v
	}
	return out
}

// Player returns a copy of the record for the given id.
func (s *State) Player(id int) (Player, bool) {
	p, ok := s.players[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// Fences exposes the fence list for read-only walks (rendering, snapshots).
func (s *State) Fences() []*Fence { return s.fences }

// Projectiles exposes the live projectile list for read-only walks.
func (s *State) Projectiles() []*Projectile { return s.projectiles }

// Starts returns the validated start positions.
func (s *State) Starts() [2][2]float64 { return s.starts }
