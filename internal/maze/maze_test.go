package maze

import (
	"reflect"
	"testing"

	"github.com/AhmadAC/Fence-Game/internal/sim"
)

var testSeeds = []int64{1, 7, 42, 1234, 987654321}

func TestLayoutIsDeterministicPerSeed(t *testing.T) {
	for _, seed := range testSeeds {
		a := New(seed, nil).Layout(sim.FieldWidth, sim.FieldHeight, sim.PlayerCollisionWidth)
		b := New(seed, nil).Layout(sim.FieldWidth, sim.FieldHeight, sim.PlayerCollisionWidth)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("seed %d: layouts diverged", seed)
		}
	}
}

func TestLayoutStructure(t *testing.T) {
	for _, seed := range testSeeds {
		data := New(seed, nil).Layout(sim.FieldWidth, sim.FieldHeight, sim.PlayerCollisionWidth)

		if len(data.Fences) == 0 {
			t.Fatalf("seed %d: no fences", seed)
		}
		if len(data.Starts) != 2 {
			t.Fatalf("seed %d: %d starts", seed, len(data.Starts))
		}

		const margin = wallThickness * 2
		for i, f := range data.Fences {
			if f.Width < 1 || f.Height < 1 {
				t.Fatalf("seed %d: fence %d has degenerate size %+v", seed, i, f)
			}
			if f.Right() <= -margin || f.X >= sim.FieldWidth+margin ||
				f.Bottom() <= -margin || f.Y >= sim.FieldHeight+margin {
				t.Fatalf("seed %d: fence %d far off field: %+v", seed, i, f)
			}
		}

		for i, start := range data.Starts {
			if start[0] < 0 || start[0] > sim.FieldWidth || start[1] < 0 || start[1] > sim.FieldHeight {
				t.Fatalf("seed %d: start %d out of bounds: %v", seed, i, start)
			}
		}
	}
}

func TestLayoutStartsSurviveSimValidation(t *testing.T) {
	for _, seed := range testSeeds {
		data := New(seed, nil).Layout(sim.FieldWidth, sim.FieldHeight, sim.PlayerCollisionWidth)
		s, err := sim.NewState(data, nil)
		if err != nil {
			t.Fatalf("seed %d: NewState: %v", seed, err)
		}
		// Generated starts are already fence-free, so validation must keep
		// them rather than relocate.
		starts := s.Starts()
		for i := 0; i < 2; i++ {
			if starts[i] != data.Starts[i] {
				t.Fatalf("seed %d: start %d relocated from %v to %v", seed, i, data.Starts[i], starts[i])
			}
		}
	}
}

func TestPickGapsAlwaysLeavesAPassage(t *testing.T) {
	g := New(3, nil)
	for i := 0; i < 200; i++ {
		gaps := g.pickGaps(ringCount)
		if len(gaps) == 0 {
			t.Fatalf("iteration %d: ring with no gap", i)
		}
		for _, seg := range gaps {
			if seg < segTop || seg > segLeft {
				t.Fatalf("iteration %d: bad segment index %d", i, seg)
			}
		}
	}
}

func TestAdjacency(t *testing.T) {
	cases := []struct {
		seg    int
		placed []int
		want   bool
	}{
		{segTop, nil, false},
		{segTop, []int{segBottom}, false},
		{segTop, []int{segRight}, true},
		{segTop, []int{segLeft}, true},
		{segLeft, []int{segTop, segBottom}, true},
		{segRight, []int{segLeft}, false},
	}
	for _, tc := range cases {
		if got := adjacentToAny(tc.seg, tc.placed); got != tc.want {
			t.Fatalf("adjacentToAny(%d, %v) = %v, want %v", tc.seg, tc.placed, got, tc.want)
		}
	}
}
