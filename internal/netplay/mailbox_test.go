package netplay

import (
	"testing"

	"github.com/AhmadAC/Fence-Game/internal/sim"
)

func TestMailboxLatestWins(t *testing.T) {
	var box Mailbox
	box.Put(sim.Intent{Shoot: true})
	box.Put(sim.Intent{Keys: sim.MoveKeys{W: true}})

	in, gone := box.Take()
	if gone {
		t.Fatalf("unexpected disconnect")
	}
	if in.Shoot || !in.Keys.W {
		t.Fatalf("expected only the latest intent, got %+v", in)
	}

	// The slot is not consumed; a tick between sends reuses it.
	again, _ := box.Take()
	if again != in {
		t.Fatalf("slot should persist across takes: %+v", again)
	}
}

func TestMailboxDisconnectIsSticky(t *testing.T) {
	var box Mailbox
	box.Put(sim.Intent{Shoot: true})
	box.PutDisconnect()

	if _, gone := box.Take(); !gone {
		t.Fatalf("disconnect not reported")
	}

	// Late writes must not revive the session.
	box.Put(sim.Intent{Fireball: true})
	in, gone := box.Take()
	if !gone {
		t.Fatalf("disconnect must stay set")
	}
	if in.Fireball {
		t.Fatalf("write after disconnect should be dropped")
	}
}

func TestMailboxResetClearsEverything(t *testing.T) {
	var box Mailbox
	box.Put(sim.Intent{Shoot: true})
	box.PutDisconnect()
	box.Reset()

	in, gone := box.Take()
	if gone {
		t.Fatalf("reset should clear the sentinel")
	}
	if in != (sim.Intent{}) {
		t.Fatalf("reset should clear the slot, got %+v", in)
	}
}
