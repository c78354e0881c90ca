package sim

// Player is the per-id record for one of the two combatants. Client-only
// presentation state (animation timers, colors) deliberately lives outside
// this struct so the whole record is safe to put on the wire.
type Player struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	HP int     `json:"hp"`

	LastShotTime     int64 `json:"last_shot_time"`
	LastFireballTime int64 `json:"last_fireball_time"`

	// FacingX/FacingY hold the last nonzero movement direction and persist
	// while the player stands still. Shots fire along this vector.
	FacingX float64 `json:"last_dx"`
	FacingY float64 `json:"last_dy"`
}

// Alive reports whether the player can still act and be collided with.
func (p *Player) Alive() bool { return p.HP > 0 }

// opponent maps a player id to the other player's id.
func opponent(playerID int) int { return 3 - playerID }
