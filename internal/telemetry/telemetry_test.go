package telemetry

import (
	"testing"
	"time"
)

func TestCountersAccumulate(t *testing.T) {
	c := New()
	c.RecordTick(2 * time.Millisecond)
	c.RecordTick(3 * time.Millisecond)
	c.RecordSnapshotSent(120)
	c.RecordSnapshotSent(80)
	c.RecordFrameReceived(false)
	c.RecordFrameReceived(true)
	c.RecordDiscoveryBeacon()
	c.RecordRoundCompleted()

	s := c.Snapshot()
	if s.Ticks != 2 {
		t.Fatalf("ticks = %d", s.Ticks)
	}
	if s.TickDurationMicros != 3000 {
		t.Fatalf("tick duration = %d", s.TickDurationMicros)
	}
	if s.SnapshotFrames != 2 || s.SnapshotBytes != 200 || s.LastFrameBytes != 80 {
		t.Fatalf("snapshot counters = %+v", s)
	}
	if s.FramesReceived != 2 || s.FramesMalformed != 1 {
		t.Fatalf("frame counters = %+v", s)
	}
	if s.DiscoveryBeacons != 1 || s.RoundsCompleted != 1 {
		t.Fatalf("misc counters = %+v", s)
	}
}

func TestNegativeInputsClampToZero(t *testing.T) {
	c := New()
	c.RecordTick(-time.Second)
	c.RecordSnapshotSent(-5)
	s := c.Snapshot()
	if s.TickDurationMicros != 0 || s.SnapshotBytes != 0 || s.LastFrameBytes != 0 {
		t.Fatalf("negative inputs leaked: %+v", s)
	}
}
