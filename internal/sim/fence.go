package sim

import "github.com/AhmadAC/Fence-Game/internal/geom"

// Fence is a toggleable wall segment. Fences are created once at map load
// and live for the whole session; only their interaction state changes.
type Fence struct {
	ID     int       `json:"id"`
	Bounds geom.Rect `json:"bounds"`
	Open   bool      `json:"open"`

	// LastInteractor is the player id that last toggled the fence, or 0 when
	// nobody has touched it since the last reset.
	LastInteractor      int   `json:"last_interactor"`
	LastInteractionTime int64 `json:"last_interaction_time"`
}

// NewFence builds a closed fence with the given id and bounds.
func NewFence(id int, bounds geom.Rect) *Fence {
	return &Fence{ID: id, Bounds: bounds}
}

// CanInteract reports whether playerID may toggle the fence at time now.
// The player that last toggled a fence may toggle it again during the
// cooldown window; anyone else has to wait it out.
func (f *Fence) CanInteract(playerID int, now int64) bool {
	if f.LastInteractor == 0 {
		return true
	}
	if now-f.LastInteractionTime < FenceCooldownMillis {
		return f.LastInteractor == playerID
	}
	return true
}

// Toggle flips the fence if the cooldown rules allow it and records the
// interaction. It reports whether the toggle took effect; on failure the
// fence is untouched.
func (f *Fence) Toggle(playerID int, now int64) bool {
	if !f.CanInteract(playerID, now) {
		return false
	}
	f.Open = !f.Open
	f.LastInteractor = playerID
	f.LastInteractionTime = now
	return true
}

// Reset closes the fence and clears its interaction history, preserving id
// and bounds.
func (f *Fence) Reset() {
	f.Open = false
	f.LastInteractor = 0
	f.LastInteractionTime = 0
}
