package sim

import (
	"encoding/json"
	"testing"

	"github.com/AhmadAC/Fence-Game/internal/geom"
)

var testMap = MapData{
	Fences: []geom.Rect{
		{X: 390, Y: 100, Width: 10, Height: 150},
		{X: 390, Y: 350, Width: 10, Height: 150},
	},
	Starts: [][2]float64{{200, 300}, {600, 300}},
}

func TestSnapshotRoundTripOverJSON(t *testing.T) {
	host := newTestState(t, testMap)
	host.fences[1].Toggle(2, 700)
	host.players[1].HP = 7
	host.Update(Intent{Keys: MoveKeys{S: true}, Shoot: true}, Intent{Shoot: true}, 1000)

	raw, err := json.Marshal(host.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	client := newTestState(t, testMap)
	client.ApplySnapshot(snap)

	for _, id := range playerOrder {
		hp := mustPlayer(t, host, id)
		cp := mustPlayer(t, client, id)
		if hp != cp {
			t.Fatalf("player %d diverged: host %+v client %+v", id, hp, cp)
		}
	}
	for i, hf := range host.Fences() {
		cf := client.Fences()[i]
		if cf.Open != hf.Open || cf.LastInteractor != hf.LastInteractor || cf.LastInteractionTime != hf.LastInteractionTime {
			t.Fatalf("fence %d diverged: host %+v client %+v", i, hf, cf)
		}
	}
	if len(client.Projectiles()) != len(host.Projectiles()) {
		t.Fatalf("projectile count diverged: host %d client %d", len(host.Projectiles()), len(client.Projectiles()))
	}
	for i, hp := range host.Projectiles() {
		cp := client.Projectiles()[i]
		if *cp != *hp {
			t.Fatalf("projectile %d diverged: host %+v client %+v", i, hp, cp)
		}
	}
	if client.factory.Peek() != host.factory.Peek() {
		t.Fatalf("id counter diverged: host %d client %d", host.factory.Peek(), client.factory.Peek())
	}
}

func TestApplySnapshotIsIdempotent(t *testing.T) {
	host := newTestState(t, testMap)
	host.Update(Intent{Shoot: true, Fireball: true}, Intent{Shoot: true}, 6000)
	snap := host.Snapshot()

	client := newTestState(t, testMap)
	client.ApplySnapshot(snap)
	first, err := json.Marshal(client.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	client.ApplySnapshot(snap)
	second, err := json.Marshal(client.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("second apply changed state:\n%s\n%s", first, second)
	}
}

func TestApplySnapshotRetainsMissingPlayerFields(t *testing.T) {
	client := newTestState(t, testMap)
	client.players[1].X = 333
	client.players[1].HP = 4

	client.ApplySnapshot(Snapshot{
		Players: map[int]PlayerSnapshot{1: {HP: intPtr(9)}},
	})

	p1 := mustPlayer(t, client, 1)
	if p1.HP != 9 {
		t.Fatalf("present field should overwrite, HP = %d", p1.HP)
	}
	if p1.X != 333 {
		t.Fatalf("missing field should retain local value, X = %v", p1.X)
	}
}

func TestApplySnapshotIgnoresUnknownIDs(t *testing.T) {
	client := newTestState(t, testMap)
	before := len(client.Fences())

	client.ApplySnapshot(Snapshot{
		Players: map[int]PlayerSnapshot{5: {HP: intPtr(1)}},
		Fences:  []FenceSnapshot{{ID: 99, Open: boolPtr(true)}},
	})

	if got := len(client.Fences()); got != before {
		t.Fatalf("reconciliation must never create fences: %d -> %d", before, got)
	}
	for _, f := range client.Fences() {
		if f.Open {
			t.Fatalf("unknown fence id leaked into local fence %d", f.ID)
		}
	}
}

func TestApplySnapshotProjectileDiff(t *testing.T) {
	client := newTestState(t, testMap)
	client.projectiles = []*Projectile{
		client.factory.Spawn(KindNormal, 100, 100, ProjectileSpeed, 0, 1), // id 0
		client.factory.Spawn(KindNormal, 200, 200, 0, ProjectileSpeed, 2), // id 1
	}
	kept := client.projectiles[1]

	client.ApplySnapshot(Snapshot{
		Projectiles: []ProjectileSnapshot{
			{ID: 1, Kind: KindNormal, X: f64Ptr(210), Y: f64Ptr(208), Active: boolPtr(true)},
			{ID: 2, Kind: KindFireball, X: f64Ptr(50), Y: f64Ptr(50),
				VX: f64Ptr(-FireballSpeed), OwnerID: intPtr(2), Active: boolPtr(true)},
		},
		NextProjectileID: intPtr(3),
	})

	ps := client.Projectiles()
	if len(ps) != 2 || ps[0].ID != 1 || ps[1].ID != 2 {
		t.Fatalf("diff result wrong: %+v", ps)
	}
	if ps[0] != kept {
		t.Fatalf("surviving projectile should keep its instance")
	}
	if ps[0].X != 210 || ps[0].Y != 208 {
		t.Fatalf("surviving projectile not updated: (%v,%v)", ps[0].X, ps[0].Y)
	}
	if ps[1].Kind != KindFireball || ps[1].Radius != FireballRadius {
		t.Fatalf("new projectile should take the declared kind: %+v", ps[1])
	}
	if client.factory.Peek() != 3 {
		t.Fatalf("id counter should advance to 3, got %d", client.factory.Peek())
	}
}

func TestApplySnapshotDefaultsUnknownKindToNormal(t *testing.T) {
	client := newTestState(t, testMap)
	client.ApplySnapshot(Snapshot{
		Projectiles: []ProjectileSnapshot{
			{ID: 0, Kind: Kind("plasma"), X: f64Ptr(10), Y: f64Ptr(10), Active: boolPtr(true)},
		},
	})
	ps := client.Projectiles()
	if len(ps) != 1 || ps[0].Kind != KindNormal || ps[0].Radius != ProjectileRadius {
		t.Fatalf("unknown kind should fall back to normal: %+v", ps)
	}
}

func TestApplySnapshotGameOverClearsProjectiles(t *testing.T) {
	client := newTestState(t, testMap)
	client.projectiles = []*Projectile{
		client.factory.Spawn(KindNormal, 100, 100, ProjectileSpeed, 0, 1),
	}

	client.ApplySnapshot(Snapshot{
		GameOver: boolPtr(true),
		Winner:   intPtr(2),
		Scores:   map[int]int{1: 0, 2: 1},
		// Even a straggler listed here must not survive a round end.
		Projectiles: []ProjectileSnapshot{
			{ID: 0, Kind: KindNormal, X: f64Ptr(108), Active: boolPtr(true)},
		},
	})

	if !client.GameOver() || client.Winner() != 2 {
		t.Fatalf("outcome not applied: over=%v winner=%d", client.GameOver(), client.Winner())
	}
	if scores := client.Scores(); scores[2] != 1 {
		t.Fatalf("scores not applied: %v", scores)
	}
	if got := len(client.Projectiles()); got != 0 {
		t.Fatalf("game-over snapshot must clear projectiles, have %d", got)
	}
}

func TestApplySnapshotNextIDNeverRegresses(t *testing.T) {
	client := newTestState(t, testMap)
	client.factory.AdvanceTo(5)
	client.ApplySnapshot(Snapshot{NextProjectileID: intPtr(2)})
	if client.factory.Peek() != 5 {
		t.Fatalf("id counter regressed to %d", client.factory.Peek())
	}
}
