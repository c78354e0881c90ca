package netplay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AhmadAC/Fence-Game/internal/geom"
	"github.com/AhmadAC/Fence-Game/internal/maze"
	"github.com/AhmadAC/Fence-Game/internal/sim"
	"github.com/AhmadAC/Fence-Game/internal/telemetry"
)

// HostConfig wires a host session.
type HostConfig struct {
	TCPPort  int
	UDPPort  int
	Announce bool

	// Seed picks the maze; zero means derive one from the clock.
	Seed int64

	Logger     *zap.SugaredLogger
	Telemetry  *telemetry.Counters
	Frontend   Frontend
	Spectators Publisher
}

// Host owns the authoritative world and serves one client at a time: TCP
// accept, hello with the map, then a 60Hz tick loop until someone leaves.
// After a disconnect it resets the round and waits for the next client.
type Host struct {
	cfg    HostConfig
	log    *zap.SugaredLogger
	state  *sim.State
	starts [][2]float64
}

// NewHost generates the session maze and builds the authoritative state.
func NewHost(cfg HostConfig) (*Host, error) {
	if cfg.TCPPort == 0 {
		cfg.TCPPort = DefaultTCPPort
	}
	if cfg.UDPPort == 0 {
		cfg.UDPPort = DefaultUDPPort
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.Frontend == nil {
		cfg.Frontend = nopFrontend{}
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	gen := maze.New(cfg.Seed, cfg.Logger)
	layout := gen.Layout(sim.FieldWidth, sim.FieldHeight, sim.PlayerCollisionWidth)
	state, err := sim.NewState(layout, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("netplay: build world: %w", err)
	}

	validated := state.Starts()
	return &Host{
		cfg:    cfg,
		log:    cfg.Logger,
		state:  state,
		starts: [][2]float64{validated[0], validated[1]},
	}, nil
}

// State exposes the authoritative world. Only the session goroutine writes
// it; callers may read between sessions.
func (h *Host) State() *sim.State { return h.state }

// Run serves clients until ctx is cancelled.
func (h *Host) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", h.cfg.TCPPort))
	if err != nil {
		return fmt.Errorf("netplay: listen: %w", err)
	}
	defer ln.Close()
	h.log.Infow("hosting", "tcp_port", h.cfg.TCPPort, "seed", h.cfg.Seed)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		ln.Close()
		return nil
	})
	if h.cfg.Announce {
		ann := NewAnnouncer(h.cfg.TCPPort, h.cfg.UDPPort, h.cfg.Telemetry, h.log)
		g.Go(func() error { return ann.Run(ctx) })
	}

	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("netplay: accept: %w", err)
			}
			h.log.Infow("client connected", "remote", conn.RemoteAddr())

			err = h.session(ctx, conn)
			conn.Close()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, ErrPeerDisconnected) {
				h.log.Infow("client left, waiting for the next one")
				h.state.Reset()
				continue
			}
			if err != nil {
				return err
			}
		}
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// session runs one connected client to completion.
func (h *Host) session(ctx context.Context, conn net.Conn) error {
	h.state.Reset()
	writer := NewFrameWriter(conn)

	hello := Hello{
		Service:  ServiceTag,
		PlayerID: 2,
		Fences:   h.fenceRects(),
		Starts:   h.starts,
	}
	if _, err := writer.WriteFrame(hello); err != nil {
		return ErrPeerDisconnected
	}

	var box Mailbox
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		conn.Close()
		return nil
	})
	g.Go(func() error { return h.receiveIntents(conn, &box) })
	g.Go(func() error { return h.tickLoop(ctx, writer, &box) })
	return g.Wait()
}

// receiveIntents drains client frames into the mailbox until the stream
// breaks. A frame that does not decode to an input is dropped; the
// connection survives it.
func (h *Host) receiveIntents(conn net.Conn, box *Mailbox) error {
	reader := NewFrameReader(conn)
	for {
		payload, err := reader.Next()
		if err != nil {
			box.PutDisconnect()
			return nil
		}
		var frame InputFrame
		if err := json.Unmarshal(payload, &frame); err != nil || frame.Input == nil {
			if h.cfg.Telemetry != nil {
				h.cfg.Telemetry.RecordFrameReceived(true)
			}
			h.log.Debugw("dropping malformed input frame", "bytes", len(payload))
			continue
		}
		if h.cfg.Telemetry != nil {
			h.cfg.Telemetry.RecordFrameReceived(false)
		}
		box.Put(*frame.Input)
	}
}

// tickLoop is the authoritative 60Hz heartbeat: drain the mailbox, advance
// the world, broadcast the snapshot.
func (h *Host) tickLoop(ctx context.Context, writer *FrameWriter, box *Mailbox) error {
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

		p2, gone := box.Take()
		if gone {
			return ErrPeerDisconnected
		}
		p1 := h.cfg.Frontend.Intent(1)

		if h.state.GameOver() && (p1.Reset || p2.Reset) {
			h.state.Reset()
		}
		h.state.Update(p1, p2, time.Since(start).Milliseconds())

		over := h.state.GameOver()
		if over && !wasOver && h.cfg.Telemetry != nil {
			h.cfg.Telemetry.RecordRoundCompleted()
		}
		wasOver = over

		payload, err := json.Marshal(h.state.Snapshot())
		if err != nil {
			return fmt.Errorf("netplay: encode snapshot: %w", err)
		}
		n, err := writer.WriteRaw(payload)
		if err != nil {
			return ErrPeerDisconnected
		}
		if h.cfg.Telemetry != nil {
			h.cfg.Telemetry.RecordSnapshotSent(n)
			h.cfg.Telemetry.RecordTick(time.Since(tickStart))
		}
		if h.cfg.Spectators != nil {
			h.cfg.Spectators.Publish(payload)
		}
		h.cfg.Frontend.Render(h.state)
	}
}

func (h *Host) fenceRects() []geom.Rect {
	fences := h.state.Fences()
	out := make([]geom.Rect, len(fences))
	for i, f := range fences {
		out[i] = f.Bounds
	}
	return out
}
