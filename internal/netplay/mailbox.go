package netplay

import (
	"sync"

	"github.com/AhmadAC/Fence-Game/internal/sim"
)

// Mailbox is the single-slot hand-off between a network reader and the
// simulation tick. Only the latest intent matters for a real-time game, so
// a new write simply replaces the old one; there is no queue and no
// guarantee every transmitted intent is individually observed.
//
// Disconnection is a sticky sentinel: once set it survives further writes
// and reads until Reset, so the simulation cannot miss it between ticks.
type Mailbox struct {
	mu           sync.Mutex
	intent       sim.Intent
	disconnected bool
}

// Put stores the latest intent. After a disconnect the slot is frozen and
// writes are dropped.
func (m *Mailbox) Put(in sim.Intent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disconnected {
		return
	}
	m.intent = in
}

// PutDisconnect sets the sticky disconnect sentinel.
func (m *Mailbox) PutDisconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disconnected = true
}

// Take returns the latest intent and whether the peer has disconnected.
// The intent stays in the slot; ticks between client sends reuse it.
func (m *Mailbox) Take() (sim.Intent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.intent, m.disconnected
}

// Reset clears the slot and the sentinel for a fresh connection.
func (m *Mailbox) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intent = sim.Intent{}
	m.disconnected = false
}
