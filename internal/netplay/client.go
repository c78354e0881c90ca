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

	"github.com/AhmadAC/Fence-Game/internal/sim"
	"github.com/AhmadAC/Fence-Game/internal/telemetry"
)

// ClientConfig wires a client session.
type ClientConfig struct {
	// Addr is the host's "ip:port". Empty means find one via LAN discovery.
	Addr    string
	UDPPort int

	Logger    *zap.SugaredLogger
	Telemetry *telemetry.Counters
	Frontend  Frontend
}

// ErrBadHello is returned when the host's first frame is not a valid
// session hello.
var ErrBadHello = errors.New("netplay: host sent an invalid hello")

// Client mirrors a host's world: it sends the local intent each tick and
// applies every snapshot the host produces. It never simulates on its own.
type Client struct {
	cfg ClientConfig
	log *zap.SugaredLogger
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.UDPPort == 0 {
		cfg.UDPPort = DefaultUDPPort
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.Frontend == nil {
		cfg.Frontend = nopFrontend{}
	}
	return &Client{cfg: cfg, log: cfg.Logger}
}

// Run connects, performs the hello exchange, then runs the send/receive
// loops until the session ends.
func (c *Client) Run(ctx context.Context) error {
	addr := c.cfg.Addr
	if addr == "" {
		found, err := Discover(ctx, c.cfg.UDPPort, "", c.log)
		if err != nil {
			return err
		}
		addr = found
	}

	dialer := net.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("netplay: connect to %s: %w", addr, err)
	}
	defer conn.Close()
	c.log.Infow("connected", "addr", addr)

	reader := NewFrameReader(conn)
	hello, err := readHello(reader)
	if err != nil {
		return err
	}
	state, err := sim.NewState(sim.MapData{Fences: hello.Fences, Starts: hello.Starts}, c.log)
	if err != nil {
		return fmt.Errorf("netplay: host map unusable: %w", err)
	}
	c.log.Infow("session hello applied", "player", hello.PlayerID, "fences", len(hello.Fences))

	writer := NewFrameWriter(conn)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		conn.Close()
		return nil
	})
	g.Go(func() error { return c.sendIntents(ctx, writer, hello.PlayerID) })
	g.Go(func() error { return c.receiveSnapshots(reader, state) })

	err = g.Wait()
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func readHello(reader *FrameReader) (Hello, error) {
	payload, err := reader.Next()
	if err != nil {
		return Hello{}, ErrPeerDisconnected
	}
	var hello Hello
	if err := json.Unmarshal(payload, &hello); err != nil || hello.Service != ServiceTag {
		return Hello{}, ErrBadHello
	}
	if hello.PlayerID != 1 && hello.PlayerID != 2 {
		return Hello{}, ErrBadHello
	}
	return hello, nil
}

// sendIntents ships the local intent once per tick.
func (c *Client) sendIntents(ctx context.Context, writer *FrameWriter, player int) error {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		in := c.cfg.Frontend.Intent(player)
		if _, err := writer.WriteFrame(InputFrame{Input: &in}); err != nil {
			return ErrPeerDisconnected
		}
	}
}

// receiveSnapshots applies every complete snapshot to the mirrored world.
// An undecodable frame is dropped with the prior state retained.
func (c *Client) receiveSnapshots(reader *FrameReader, state *sim.State) error {
	for {
		payload, err := reader.Next()
		if err != nil {
			return ErrPeerDisconnected
		}
		var snap sim.Snapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			if c.cfg.Telemetry != nil {
				c.cfg.Telemetry.RecordFrameReceived(true)
			}
			c.log.Debugw("dropping malformed snapshot frame", "bytes", len(payload))
			continue
		}
		if c.cfg.Telemetry != nil {
			c.cfg.Telemetry.RecordFrameReceived(false)
		}
		state.ApplySnapshot(snap)
		c.cfg.Frontend.Render(state)
	}
}
