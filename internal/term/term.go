// Package term is the terminal frontend: it scales the 800x600 field onto
// the character grid and turns key presses into per-tick intents. It holds
// no gameplay logic and can be swapped for any other netplay.Frontend.
package term

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/AhmadAC/Fence-Game/internal/sim"
)

// keySustain is how long a pressed direction stays active. Terminals send
// repeats but no key-up, so a direction is "held" while repeats keep
// arriving inside this window.
const keySustain = 200 * time.Millisecond

type Config struct {
	// Local enables split-keyboard mode: the arrow-key cluster drives
	// player 2 on the same screen.
	Local  bool
	Logger *zap.SugaredLogger
}

type heldDirs struct {
	up, down, left, right time.Time
}

type pendingActions struct {
	interact, shoot, fireball, reset bool
}

// UI owns the tcell screen and the current input state. Intent and Render
// are called from session goroutines; the event loop runs in Run.
type UI struct {
	screen tcell.Screen
	log    *zap.SugaredLogger
	local  bool

	mu      sync.Mutex
	held    [3]heldDirs
	pending [3]pendingActions

	quit     chan struct{}
	quitOnce sync.Once
}

// New initializes the terminal screen.
func New(cfg Config) (*UI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return newWithScreen(screen, cfg), nil
}

func newWithScreen(screen tcell.Screen, cfg Config) *UI {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	screen.HideCursor()
	return &UI{
		screen: screen,
		log:    cfg.Logger,
		local:  cfg.Local,
		quit:   make(chan struct{}),
	}
}

// Done is closed when the user quits (Esc or Ctrl+C).
func (u *UI) Done() <-chan struct{} { return u.quit }

// Close restores the terminal.
func (u *UI) Close() { u.screen.Fini() }

// Run consumes terminal events until quit or cancellation.
func (u *UI) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		u.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-u.quit:
			return nil
		default:
		}

		switch ev := u.screen.PollEvent().(type) {
		case *tcell.EventInterrupt:
			return ctx.Err()
		case *tcell.EventResize:
			u.screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				u.quitOnce.Do(func() { close(u.quit) })
				return nil
			}
			u.handleKey(ev)
		case nil:
			// Screen finalized under us.
			return nil
		}
	}
}

func (u *UI) handleKey(ev *tcell.EventKey) {
	// In local split-keyboard mode the two key clusters drive separate
	// slots; otherwise everything feeds the one local player.
	first, second := 1, 2
	if !u.local {
		second = 1
	}

	now := time.Now()
	u.mu.Lock()
	defer u.mu.Unlock()

	switch ev.Key() {
	case tcell.KeyUp:
		u.held[second].up = now
		return
	case tcell.KeyDown:
		u.held[second].down = now
		return
	case tcell.KeyLeft:
		u.held[second].left = now
		return
	case tcell.KeyRight:
		u.held[second].right = now
		return
	case tcell.KeyRune:
	default:
		return
	}

	switch ev.Rune() {
	case 'w', 'W':
		u.held[first].up = now
	case 's', 'S':
		u.held[first].down = now
	case 'a', 'A':
		u.held[first].left = now
	case 'd', 'D':
		u.held[first].right = now
	case ' ':
		u.pending[first].shoot = true
	case 'e', 'E':
		u.pending[first].interact = true
	case 'f', 'F':
		u.pending[first].fireball = true
	case 'r', 'R':
		u.pending[first].reset = true
		u.pending[second].reset = true
	case 'k', 'K':
		u.pending[second].shoot = true
	case 'l', 'L':
		u.pending[second].interact = true
	case ';':
		u.pending[second].fireball = true
	}
}

// Intent reports the player's current input. Held directions stay active
// inside the sustain window; edge actions are consumed by the call.
func (u *UI) Intent(player int) sim.Intent {
	if player < 1 || player > 2 {
		return sim.Intent{}
	}
	slot := player
	if !u.local {
		slot = 1
	}
	cutoff := time.Now().Add(-keySustain)

	u.mu.Lock()
	defer u.mu.Unlock()
	held := u.held[slot]
	actions := u.pending[slot]
	u.pending[slot] = pendingActions{}

	return sim.Intent{
		Keys: sim.MoveKeys{
			W: held.up.After(cutoff),
			S: held.down.After(cutoff),
			A: held.left.After(cutoff),
			D: held.right.After(cutoff),
		},
		Interact: actions.interact,
		Shoot:    actions.shoot,
		Fireball: actions.fireball,
		Reset:    actions.reset,
	}
}
