package sim

// MoveKeys mirrors the four held movement keys of one player.
type MoveKeys struct {
	W bool `json:"w"`
	A bool `json:"a"`
	S bool `json:"s"`
	D bool `json:"d"`
}

// Intent is one player's input for a single tick: held movement keys plus
// edge-triggered actions. It is also the client→host wire payload.
type Intent struct {
	Keys     MoveKeys `json:"keys"`
	Interact bool     `json:"action_interact"`
	Shoot    bool     `json:"action_shoot"`
	Fireball bool     `json:"action_fireball"`
	Reset    bool     `json:"action_reset"`
}

// Direction reduces the held keys to a raw movement vector in {-1,0,1}².
func (in Intent) Direction() (dx, dy float64) {
	if in.Keys.A {
		dx--
	}
	if in.Keys.D {
		dx++
	}
	if in.Keys.W {
		dy--
	}
	if in.Keys.S {
		dy++
	}
	return dx, dy
}
