package netplay

import (
	"context"
	"errors"
	"time"

	"github.com/AhmadAC/Fence-Game/internal/sim"
	"github.com/AhmadAC/Fence-Game/internal/telemetry"
)

// Frontend is the presentation side of a session: it supplies the local
// intent for a player slot and draws the world after each tick. Intent must
// be safe to call from the session goroutine; Render is always called from
// the single goroutine that writes the state, so reads inside Render need
// no locking.
type Frontend interface {
	Intent(player int) sim.Intent
	Render(st *sim.State)
}

// Publisher receives a copy of every outbound snapshot payload. The
// diagnostics endpoint uses it to feed spectators.
type Publisher interface {
	Publish(payload []byte)
}

// ErrPeerDisconnected classifies session teardown caused by the other end
// going away, as opposed to local shutdown.
var ErrPeerDisconnected = errors.New("netplay: peer disconnected")

// nopFrontend keeps headless sessions (tests, dedicated hosts) running
// without a screen.
type nopFrontend struct{}

func (nopFrontend) Intent(int) sim.Intent { return sim.Intent{} }
func (nopFrontend) Render(*sim.State)     {}

// RunLocal drives a split-keyboard session: both intents come from the same
// frontend and nothing touches the network.
func RunLocal(ctx context.Context, st *sim.State, fe Frontend, tel *telemetry.Counters) error {
	if fe == nil {
		fe = nopFrontend{}
	}
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	start := time.Now()
	wasOver := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		tickStart := time.Now()

		p1 := fe.Intent(1)
		p2 := fe.Intent(2)
		if st.GameOver() && (p1.Reset || p2.Reset) {
			st.Reset()
		}
		st.Update(p1, p2, time.Since(start).Milliseconds())

		over := st.GameOver()
		if over && !wasOver && tel != nil {
			tel.RecordRoundCompleted()
		}
		wasOver = over

		if tel != nil {
			tel.RecordTick(time.Since(tickStart))
		}
		fe.Render(st)
	}
}
