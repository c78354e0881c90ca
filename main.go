// Fence Game: a two-player LAN duel in a procedurally generated fence maze.
// One process hosts the authoritative simulation; the other joins over TCP,
// found either by explicit address or by UDP broadcast discovery.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AhmadAC/Fence-Game/internal/diag"
	"github.com/AhmadAC/Fence-Game/internal/logging"
	"github.com/AhmadAC/Fence-Game/internal/maze"
	"github.com/AhmadAC/Fence-Game/internal/netplay"
	"github.com/AhmadAC/Fence-Game/internal/sim"
	"github.com/AhmadAC/Fence-Game/internal/telemetry"
	"github.com/AhmadAC/Fence-Game/internal/term"
)

var (
	hostMode  = flag.Bool("host", false, "host a game and announce it on the LAN")
	joinAddr  = flag.String("join", "", "join the host at ip:port")
	lanMode   = flag.Bool("lan", false, "join whichever host the LAN broadcast finds")
	localMode = flag.Bool("local", false, "two players on one keyboard, no network")

	diagAddr = flag.String("diag", "", "serve /healthz /diagnostics /watch on this address")
	logFile  = flag.String("log", "", "log file path (default stderr)")
	debug    = flag.Bool("debug", false, "debug-level logging")
	seed     = flag.Int64("seed", 0, "maze seed, 0 picks one from the clock")
	tcpPort  = flag.Int("tcp-port", netplay.DefaultTCPPort, "game TCP port")
	udpPort  = flag.Int("udp-port", netplay.DefaultUDPPort, "discovery UDP port")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	modes := 0
	for _, on := range []bool{*hostMode, *joinAddr != "", *lanMode, *localMode} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return errors.New("pick one of -host, -join, -lan, -local")
	}
	if modes == 0 {
		*localMode = true
	}

	log, syncLogs := logging.New(*logFile, *debug)
	defer syncLogs()
	tel := telemetry.New()

	ui, err := term.New(term.Config{Local: *localMode, Logger: log})
	if err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer ui.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var spectators *diag.Server
	if *diagAddr != "" {
		spectators = diag.New(*diagAddr, tel, log)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// A quit from the UI ends every other loop too.
		defer cancel()
		return ui.Run(gctx)
	})
	if spectators != nil {
		g.Go(func() error { return spectators.Run(gctx) })
	}
	g.Go(func() error {
		defer cancel()
		return play(gctx, ui, log, tel, spectators)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func play(ctx context.Context, ui *term.UI, log *zap.SugaredLogger, tel *telemetry.Counters, spectators *diag.Server) error {
	switch {
	case *hostMode:
		return playHost(ctx, ui, log, tel, spectators)
	case *joinAddr != "" || *lanMode:
		client := netplay.NewClient(netplay.ClientConfig{
			Addr:      *joinAddr,
			UDPPort:   *udpPort,
			Logger:    log,
			Telemetry: tel,
			Frontend:  ui,
		})
		return client.Run(ctx)
	default:
		return playLocal(ctx, ui, log, tel)
	}
}

func playHost(ctx context.Context, ui *term.UI, log *zap.SugaredLogger, tel *telemetry.Counters, spectators *diag.Server) error {
	host, err := netplay.NewHost(netplay.HostConfig{
		TCPPort:    *tcpPort,
		UDPPort:    *udpPort,
		Announce:   true,
		Seed:       *seed,
		Logger:     log,
		Telemetry:  tel,
		Frontend:   ui,
		Spectators: publisher(spectators),
	})
	if err != nil {
		return err
	}
	if spectators != nil {
		st := host.State()
		starts := st.Starts()
		hello := netplay.Hello{Service: netplay.ServiceTag, Starts: starts[:]}
		for _, f := range st.Fences() {
			hello.Fences = append(hello.Fences, f.Bounds)
		}
		if err := spectators.SetHello(hello); err != nil {
			return err
		}
	}
	return host.Run(ctx)
}

func playLocal(ctx context.Context, ui *term.UI, log *zap.SugaredLogger, tel *telemetry.Counters) error {
	mazeSeed := *seed
	if mazeSeed == 0 {
		mazeSeed = time.Now().UnixNano()
	}
	layout := maze.New(mazeSeed, log).Layout(sim.FieldWidth, sim.FieldHeight, sim.PlayerCollisionWidth)
	st, err := sim.NewState(layout, log)
	if err != nil {
		return err
	}
	log.Infow("local duel starting", "seed", mazeSeed)
	return netplay.RunLocal(ctx, st, ui, tel)
}

// publisher avoids handing a typed-nil *diag.Server to the host through the
// Publisher interface.
func publisher(s *diag.Server) netplay.Publisher {
	if s == nil {
		return nil
	}
	return s
}
