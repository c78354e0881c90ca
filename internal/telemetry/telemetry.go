// Package telemetry tracks session health counters. Everything is atomic;
// writers are the session loops and readers are the diagnostics endpoint.
package telemetry

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

type Counters struct {
	ticks              atomic.Uint64
	tickDurationMicros atomic.Int64

	snapshotFrames atomic.Uint64
	snapshotBytes  atomic.Uint64
	lastFrameBytes atomic.Uint64

	framesReceived  atomic.Uint64
	framesMalformed atomic.Uint64

	discoveryBeacons atomic.Uint64
	roundsCompleted  atomic.Uint64

	debug bool
}

// Snapshot is the JSON shape served by the diagnostics endpoint.
type Snapshot struct {
	Ticks              uint64 `json:"ticks"`
	TickDurationMicros int64  `json:"tickDurationMicros"`
	SnapshotFrames     uint64 `json:"snapshotFrames"`
	SnapshotBytes      uint64 `json:"snapshotBytes"`
	LastFrameBytes     uint64 `json:"lastFrameBytes"`
	FramesReceived     uint64 `json:"framesReceived"`
	FramesMalformed    uint64 `json:"framesMalformed"`
	DiscoveryBeacons   uint64 `json:"discoveryBeacons"`
	RoundsCompleted    uint64 `json:"roundsCompleted"`
}

func New() *Counters {
	c := &Counters{}
	if os.Getenv("DEBUG_TELEMETRY") == "1" {
		c.debug = true
	}
	return c
}

// RecordTick notes one completed simulation tick and its duration.
func (c *Counters) RecordTick(duration time.Duration) {
	c.ticks.Add(1)
	micros := duration.Microseconds()
	if micros < 0 {
		micros = 0
	}
	c.tickDurationMicros.Store(micros)
	if c.debug {
		fmt.Printf("[telemetry] tick=%d dur=%dus frames=%d bytes=%d\n",
			c.ticks.Load(), micros, c.snapshotFrames.Load(), c.snapshotBytes.Load())
	}
}

// RecordSnapshotSent notes one outbound snapshot frame.
func (c *Counters) RecordSnapshotSent(bytes int) {
	if bytes < 0 {
		bytes = 0
	}
	c.snapshotFrames.Add(1)
	c.snapshotBytes.Add(uint64(bytes))
	c.lastFrameBytes.Store(uint64(bytes))
}

// RecordFrameReceived notes one inbound frame, malformed or not.
func (c *Counters) RecordFrameReceived(malformed bool) {
	c.framesReceived.Add(1)
	if malformed {
		c.framesMalformed.Add(1)
	}
}

// RecordDiscoveryBeacon notes one broadcast announcement.
func (c *Counters) RecordDiscoveryBeacon() {
	c.discoveryBeacons.Add(1)
}

// RecordRoundCompleted notes one finished round.
func (c *Counters) RecordRoundCompleted() {
	c.roundsCompleted.Add(1)
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Ticks:              c.ticks.Load(),
		TickDurationMicros: c.tickDurationMicros.Load(),
		SnapshotFrames:     c.snapshotFrames.Load(),
		SnapshotBytes:      c.snapshotBytes.Load(),
		LastFrameBytes:     c.lastFrameBytes.Load(),
		FramesReceived:     c.framesReceived.Load(),
		FramesMalformed:    c.framesMalformed.Load(),
		DiscoveryBeacons:   c.discoveryBeacons.Load(),
		RoundsCompleted:    c.roundsCompleted.Load(),
	}
}
