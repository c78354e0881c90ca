package sim

import "testing"

func TestProjectileAdvanceDeactivatesFullyOffField(t *testing.T) {
	cases := []struct {
		name       string
		x, y       float64
		vx, vy     float64
		wantActive bool
	}{
		{"moving inside", 400, 300, ProjectileSpeed, 0, true},
		{"touching left edge", ProjectileRadius, 300, -1, 0, true},
		{"partially out left", 1, 300, -1, 0, true},
		{"fully out left", -ProjectileRadius, 300, -1, 0, false},
		{"fully out right", FieldWidth + ProjectileRadius, 300, 1, 0, false},
		{"fully out top", 400, -ProjectileRadius, 0, -1, false},
		{"fully out bottom", 400, FieldHeight + ProjectileRadius, 0, 1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Projectile{X: tc.x - tc.vx, Y: tc.y - tc.vy, VX: tc.vx, VY: tc.vy,
				Kind: KindNormal, Radius: ProjectileRadius, Active: true}
			p.Advance()
			if p.Active != tc.wantActive {
				t.Fatalf("Advance to (%v,%v): active = %v, want %v", tc.x, tc.y, p.Active, tc.wantActive)
			}
		})
	}
}

func TestProjectileAdvanceIgnoresInactive(t *testing.T) {
	p := &Projectile{X: 100, Y: 100, VX: 5, VY: 5, Kind: KindNormal, Radius: ProjectileRadius}
	p.Advance()
	if p.X != 100 || p.Y != 100 {
		t.Fatalf("inactive projectile moved to (%v,%v)", p.X, p.Y)
	}
}

func TestKindAttributes(t *testing.T) {
	if KindNormal.Radius() != ProjectileRadius || KindNormal.Speed() != ProjectileSpeed {
		t.Fatalf("normal kind attributes wrong")
	}
	if KindFireball.Radius() != FireballRadius || KindFireball.Speed() != FireballSpeed {
		t.Fatalf("fireball kind attributes wrong")
	}
	if FireballSpeed >= ProjectileSpeed {
		t.Fatalf("fireballs must travel slower than normal shots")
	}
}

func TestFactoryIDsAreMonotonic(t *testing.T) {
	f := NewProjectileFactory()
	for want := 0; want < 5; want++ {
		p := f.Spawn(KindNormal, 0, 0, 1, 0, 1)
		if p.ID != want {
			t.Fatalf("spawn %d got id %d", want, p.ID)
		}
	}
	if f.Peek() != 5 {
		t.Fatalf("Peek = %d, want 5", f.Peek())
	}
}

func TestFactoryAdvanceToNeverMovesBackwards(t *testing.T) {
	f := NewProjectileFactory()
	f.AdvanceTo(10)
	if f.Peek() != 10 {
		t.Fatalf("AdvanceTo(10): Peek = %d", f.Peek())
	}
	f.AdvanceTo(4)
	if f.Peek() != 10 {
		t.Fatalf("AdvanceTo must not regress, Peek = %d", f.Peek())
	}
	f.Reset()
	if f.Peek() != 0 {
		t.Fatalf("Reset should rewind the counter, Peek = %d", f.Peek())
	}
}

func TestSpawnNormalizesRadius(t *testing.T) {
	f := NewProjectileFactory()
	p := f.Spawn(KindFireball, 10, 10, 0, 1, 2)
	if p.Radius != FireballRadius {
		t.Fatalf("fireball spawned with radius %v", p.Radius)
	}
	p.Radius = -1
	p.normalizeRadius()
	if p.Radius != FireballRadius {
		t.Fatalf("normalizeRadius left %v", p.Radius)
	}
}
