package danmaku

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tui-danmaku/internal/core"
	"github.com/vovakirdan/tui-danmaku/internal/games/danmaku/sim"
)

// Visual characters for rendering
const (
	PlayerChar     = 'A'
	EnemyChar      = 'W'
	OtherChar      = '#'
	PlayerShotChar = '\''
	EnemyShotChar  = '*'
	BorderHoriz    = '─'
)

const (
	hudRows    = 1
	footerRows = 1
)

// Render draws the current game state into the screen buffer.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.screenTooSmall {
		msg := "Window too small"
		hint := fmt.Sprintf("Need %dx%d", g.minScreenW, g.minScreenH)
		dst.DrawTextCentered(dst.Height()/2-1, msg)
		dst.DrawTextCentered(dst.Height()/2+1, hint)
		return
	}

	if g.world == nil {
		dst.DrawTextCentered(dst.Height()/2-1, "Failed to start run")
		if g.loadErr != nil {
			dst.DrawTextCentered(dst.Height()/2+1, truncate(g.loadErr.Error(), dst.Width()-2))
		}
		return
	}

	g.renderHUD(dst)
	g.renderWorld(dst)
	g.renderFooter(dst)
	g.renderOverlay(dst)
}

// playfield is the cell rectangle the world is projected onto.
func playfield(dst *core.Screen) core.Rect {
	return core.NewRect(0, hudRows, dst.Width(), dst.Height()-hudRows-footerRows)
}

func (g *Game) renderWorld(dst *core.Screen) {
	field := playfield(dst)
	world := g.world.Screen()

	for _, sp := range g.world.View() {
		x, y, ok := field.Project(sp.Position, world)
		if !ok {
			continue
		}

		switch sp.Tag {
		case sim.TagBullet:
			if sp.Owner == sim.TagPlayer {
				dst.SetColored(x, y, PlayerShotChar, core.ColorPlayerShot)
			} else {
				dst.SetColored(x, y, EnemyShotChar, core.ColorEnemyShot)
			}

		case sim.TagPlayer:
			c := core.ColorPlayer
			if g.hitFlash > 0 && g.hitFlash%2 == 0 {
				c = core.ColorPlayerHit
			}
			dst.SetColored(x, y, PlayerChar, c)

		case sim.TagEnemy, sim.TagOther:
			glyph, c := EnemyChar, core.ColorEnemy
			if sp.Tag == sim.TagOther {
				glyph, c = OtherChar, core.ColorNeutral
			}
			hw, hh := field.Extent(sp.Size, world)
			for dy := -hh; dy <= hh; dy++ {
				for dx := -hw; dx <= hw; dx++ {
					if field.Contains(x+dx, y+dy) {
						dst.SetColored(x+dx, y+dy, glyph, c)
					}
				}
			}
			// remaining hit points next to the body
			dst.DrawTextColored(x+hw+2, y, strconv.Itoa(int(sp.Life)), core.ColorDim)
		}
	}
}

// renderHUD draws life, foes, score and elapsed time.
func (g *Game) renderHUD(dst *core.Screen) {
	p := g.world.Player()
	left := fmt.Sprintf("Life: %d  Foes: %d", p.HitPoints(), g.world.Foes())
	dst.DrawTextColored(1, 0, left, core.ColorHUD)

	scoreText := fmt.Sprintf("Score: %d", g.score)
	dst.DrawTextCentered(0, scoreText)

	right := fmt.Sprintf("%s  T+%.1fs", g.stage.Name, g.world.Elapsed())
	dst.DrawText(dst.Width()-len([]rune(right))-1, 0, right)
}

func (g *Game) renderFooter(dst *core.Screen) {
	y := dst.Height() - 1
	shots := len(g.world.PlayerGroup().Shots())
	for _, e := range g.world.Enemies() {
		shots += len(e.Shots())
	}
	text := fmt.Sprintf("tick %d  bullets %d", g.world.Tick(), shots)
	for x := range dst.Width() {
		dst.SetColored(x, y, BorderHoriz, core.ColorDim)
	}
	dst.DrawTextColored(1, y, " "+text+" ", core.ColorDim)
}

// renderOverlay draws pause and end-of-run messages in a framed panel.
func (g *Game) renderOverlay(dst *core.Screen) {
	var lines []string
	switch g.state {
	case StatePaused:
		lines = []string{"PAUSED", "Press P to resume"}
	case StateGameOver:
		lines = []string{"GAME OVER", fmt.Sprintf("Score: %d", g.score), "Press R to restart"}
	case StateCleared:
		lines = []string{"STAGE CLEAR", fmt.Sprintf("Score: %d", g.score), "Press R to play again"}
	default:
		return
	}

	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	panel := core.NewRect((dst.Width()-w-4)/2, (dst.Height()-len(lines)-2)/2, w+4, len(lines)+2)
	dst.DrawRect(panel, ' ')
	dst.DrawBox(panel)
	for i, l := range lines {
		dst.DrawTextCentered(panel.Y+1+i, l)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n])
}
