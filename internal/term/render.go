package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/AhmadAC/Fence-Game/internal/geom"
	"github.com/AhmadAC/Fence-Game/internal/sim"
)

var (
	styleFenceClosed = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleFenceOpen   = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	styleP1          = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleP2          = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	styleShot        = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleFireball    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHUD         = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleBanner      = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// Render draws the whole world. The top row is the HUD; the rest of the
// grid is the field, scaled from world units.
func (u *UI) Render(st *sim.State) {
	cols, rows := u.screen.Size()
	if cols < 4 || rows < 3 {
		return
	}
	fieldRows := rows - 1

	u.screen.Clear()

	for _, f := range st.Fences() {
		style := styleFenceClosed
		ch := '#'
		if f.Open {
			style = styleFenceOpen
			ch = '.'
		}
		u.drawRect(f.Bounds, cols, fieldRows, ch, style)
	}

	for _, p := range st.Projectiles() {
		ch, style := '*', styleShot
		if p.Kind == sim.KindFireball {
			ch, style = '@', styleFireball
		}
		x, y := u.cell(p.X, p.Y, cols, fieldRows)
		u.screen.SetContent(x, y, ch, nil, style)
	}

	for _, id := range []int{1, 2} {
		p, ok := st.Player(id)
		if !ok || !p.Alive() {
			continue
		}
		style := styleP1
		if id == 2 {
			style = styleP2
		}
		x, y := u.cell(p.X, p.Y, cols, fieldRows)
		u.screen.SetContent(x, y, rune('0'+id), nil, style)
	}

	u.drawHUD(st, cols)
	u.screen.Show()
}

func (u *UI) drawHUD(st *sim.State, cols int) {
	p1, _ := st.Player(1)
	p2, _ := st.Player(2)
	scores := st.Scores()
	hud := fmt.Sprintf(" P1 %2d/%d  P2 %2d/%d  score %d-%d ",
		p1.HP, sim.MaxHP, p2.HP, sim.MaxHP, scores[1], scores[2])
	u.drawText(0, 0, hud, styleHUD)

	if st.GameOver() {
		banner := fmt.Sprintf(" P%d WINS - press r for a new round ", st.Winner())
		if start := cols - len(banner); start > len(hud) {
			u.drawText(start, 0, banner, styleBanner)
		} else {
			u.drawText(len(hud), 0, banner, styleBanner)
		}
	}
}

// cell maps a world position to a grid cell below the HUD row.
func (u *UI) cell(wx, wy float64, cols, fieldRows int) (int, int) {
	x := int(wx / sim.FieldWidth * float64(cols))
	y := 1 + int(wy/sim.FieldHeight*float64(fieldRows))
	if x < 0 {
		x = 0
	}
	if x >= cols {
		x = cols - 1
	}
	if y < 1 {
		y = 1
	}
	if y > fieldRows {
		y = fieldRows
	}
	return x, y
}

func (u *UI) drawRect(r geom.Rect, cols, fieldRows int, ch rune, style tcell.Style) {
	x0, y0 := u.cell(r.X, r.Y, cols, fieldRows)
	x1, y1 := u.cell(r.Right(), r.Bottom(), cols, fieldRows)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			u.screen.SetContent(x, y, ch, nil, style)
		}
	}
}

func (u *UI) drawText(x, y int, text string, style tcell.Style) {
	for i, ch := range text {
		u.screen.SetContent(x+i, y, ch, nil, style)
	}
}
