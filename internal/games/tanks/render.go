package tanks

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

const hintText = "arrows/wasd move  space fire  p pause  esc menu"

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.err != nil || g.session == nil {
		g.renderError(dst)
		return
	}

	g.renderHUD(dst)
	if g.tooSmall() {
		g.renderOverlay(dst, "Window too small",
			fmt.Sprintf("Need at least %dx%d", MinCols, MinRows+g.cfg.Arena.HUDRows+1))
		return
	}

	g.renderArena(dst)
	dst.DrawTextColored(0, dst.Height()-1, hintText, core.ColorGray)

	switch {
	case g.overlay == overlayDefeat:
		cause := "Destroyed"
		if a, ok := g.session.LastAttempt(); ok {
			cause = defeatText(a.Cause)
		}
		g.renderOverlay(dst, cause, fmt.Sprintf("Deaths: %d  Enter to retry", g.session.Deaths()))
	case g.overlay == overlayVictory:
		g.renderOverlay(dst, fmt.Sprintf("Level %d cleared!", g.session.Level()),
			fmt.Sprintf("Enter for level %d", g.session.Level()+1))
	case g.overlay == overlayComplete:
		g.renderOverlay(dst, "Campaign complete!",
			fmt.Sprintf("Deaths: %d  Enter for menu", g.session.Deaths()))
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	case g.banner > 0:
		g.renderOverlay(dst, fmt.Sprintf("Level %d", g.session.Level()),
			fmt.Sprintf("Destroy %d tanks", g.session.Target()))
	}
}

func defeatText(c Cause) string {
	switch c {
	case CauseShot:
		return "Shot down"
	case CauseObstacle:
		return "Crashed into an obstacle"
	case CauseRammed:
		return "Rammed an enemy tank"
	}
	return "Destroyed"
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	s := g.session
	hud := fmt.Sprintf(" %s  Level: %d/%d  Kills: %d/%d  Deaths: %d",
		g.Title(), s.Level(), s.FinalLevel(), s.Kills(), s.Target(), s.Deaths())
	dst.DrawText(0, 0, hud)
	for y := 1; y < g.cfg.Arena.HUDRows; y++ {
		dst.DrawHLine(0, y, dst.Width(), '─')
	}
}

// cellSpan converts a world box to the inclusive cell range it covers.
func (g *Game) cellSpan(r core.Rect) (x0, y0, x1, y1 int) {
	cw, ch := g.cfg.Arena.CellWidth, g.cfg.Arena.CellHeight
	top := g.cfg.Arena.HUDRows
	x0 = int(math.Floor(r.X / cw))
	y0 = top + int(math.Floor(r.Y/ch))
	x1 = max(x0, int(math.Ceil(r.Right()/cw))-1)
	y1 = max(y0, top+int(math.Ceil(r.Bottom()/ch))-1)
	return x0, y0, x1, y1
}

func (g *Game) cellAt(x, y float64) (int, int) {
	col := int(math.Floor(x / g.cfg.Arena.CellWidth))
	row := g.cfg.Arena.HUDRows + int(math.Floor(y/g.cfg.Arena.CellHeight))
	return col, row
}

func (g *Game) fill(dst *core.Screen, r core.Rect, glyph rune, color core.Color) {
	x0, y0, x1, y1 := g.cellSpan(r)
	bottom := dst.Height() - 1
	for y := y0; y <= y1 && y < bottom; y++ {
		for x := x0; x <= x1; x++ {
			dst.SetColored(x, y, glyph, color)
		}
	}
}

// renderArena draws visuals, projectiles and effects in that order.
func (g *Game) renderArena(dst *core.Screen) {
	for _, v := range g.presenter.Visuals() {
		g.fill(dst, v.Box(), v.Glyph, v.Color)
		if isTank(v) {
			g.renderBarrel(dst, v)
		}
	}

	if c := g.session.Combat(); c != nil {
		for _, p := range c.Projectiles {
			image := FriendlyBulletImage
			if p.Hostile() {
				image = HostileBulletImage
			}
			glyph, color, err := g.presenter.Glyph(image)
			if err != nil {
				glyph, color = '*', core.ColorDefault
			}
			x, y := g.cellAt(p.X, p.Y)
			if y < dst.Height()-1 {
				dst.SetColored(x, y, glyph, color)
			}
		}
	}

	for _, e := range g.presenter.Effects() {
		x, y := g.cellAt(e.X, e.Y)
		if y < dst.Height()-1 {
			dst.SetColored(x, y, e.Glyph, e.Color)
		}
	}
}

func isTank(v *Visual) bool {
	return strings.HasPrefix(v.Desc.Image, "graphics/tanks/")
}

// renderBarrel marks the heading of a tank one cell outside its box.
func (g *Game) renderBarrel(dst *core.Screen, v *Visual) {
	dx, dy := math.Sin(v.Rotation), -math.Cos(v.Rotation)
	x := v.X + dx*(v.Desc.Width/2+g.cfg.Arena.CellWidth/2)
	y := v.Y + dy*(v.Desc.Height/2+g.cfg.Arena.CellHeight/2)
	col, row := g.cellAt(x, y)
	if row <= g.cfg.Arena.HUDRows-1 || row >= dst.Height()-1 {
		return
	}
	glyph := '│'
	if math.Abs(dx) > math.Abs(dy) {
		glyph = '─'
	}
	dst.SetColored(col, row, glyph, v.Color)
}

// renderError draws the unrecoverable error screen.
func (g *Game) renderError(dst *core.Screen) {
	msg := "unknown error"
	if g.err != nil {
		msg = g.err.Error()
	}
	if len(msg) > dst.Width()-6 && dst.Width() > 9 {
		msg = msg[:dst.Width()-9] + "..."
	}
	g.renderOverlay(dst, "Tanks cannot start", msg)
	dst.DrawTextCentered(dst.Height()-1, "Enter or Esc to return")
}

// renderOverlay draws a centered overlay message.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	w := max(len([]rune(line1)), len([]rune(line2))) + 4
	h := 5
	box := core.NewRect(float64((dst.Width()-w)/2), float64((dst.Height()-h)/2), float64(w), float64(h))
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawTextCentered(int(box.Y)+1, line1)
	dst.DrawTextCentered(int(box.Y)+3, line2)
}
