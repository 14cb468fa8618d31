package shell

import (
	"fmt"
	"io"

	"github.com/domino14/connectfour/game"
	"github.com/domino14/connectfour/grid"
	"github.com/domino14/connectfour/player"
)

const (
	ansiReset     = "\033[0m"
	ansiBold      = "\033[1m"
	ansiRed       = "\033[31m"
	ansiGreen     = "\033[32m"
	ansiYellow    = "\033[33m"
	ansiBlue      = "\033[34m"
	ansiHighlight = "\033[7m"
)

// Palette maps symbols to ANSI color codes. A nil or disabled Palette draws
// plain letters.
type Palette struct {
	enabled bool
	colors  map[grid.Symbol]string
}

func NewPalette(enabled bool) *Palette {
	return &Palette{
		enabled: enabled,
		colors: map[grid.Symbol]string{
			'R': ansiRed,
			'B': ansiBlue,
			'G': ansiGreen,
			'Y': ansiYellow,
		},
	}
}

// Decorate is a grid.Decorator.
func (p *Palette) Decorate(s grid.Symbol, highlighted bool) string {
	if p == nil || !p.enabled {
		if highlighted {
			return s.String() + "*"
		}
		return s.String()
	}
	code, ok := p.colors[s]
	if !ok {
		code = ansiBold
	}
	if highlighted {
		code += ansiHighlight
	}
	return code + s.String() + ansiReset
}

func (p *Palette) Symbol(s grid.Symbol) string {
	return p.Decorate(s, false)
}

func (p *Palette) Draw(g *grid.Grid, highlight ...grid.Cell) string {
	return g.ToDisplayText(p.Decorate, highlight...)
}

// consoleListener narrates a game on the shell's output.
type consoleListener struct {
	out     io.Writer
	palette *Palette
}

func (c *consoleListener) GameStarted(g *game.Game) {
	ps := g.Players()
	fmt.Fprintf(c.out, "Starting game: %s (%s) vs %s (%s)\n\n",
		ps[0].Name(), c.palette.Symbol(ps[0].Symbol()),
		ps[1].Name(), c.palette.Symbol(ps[1].Symbol()))
	fmt.Fprintln(c.out, c.palette.Draw(g.Grid()))
}

func (c *consoleListener) ComputerThinking(p player.Player) {
	fmt.Fprintf(c.out, "%s is thinking...\n", p.Name())
}

func (c *consoleListener) MovePlayed(p player.Player, t game.Turn) {
	fmt.Fprintf(c.out, "\nTurn %d: %s (%s) played column %d\n\n",
		t.Number, p.Name(), c.palette.Symbol(p.Symbol()), t.Column+1)
	cell, _ := t.Cell()
	fmt.Fprintln(c.out, c.palette.Draw(t.Grid, cell))
}

func (c *consoleListener) GameWon(p player.Player) {
	fmt.Fprintf(c.out, "\n%s (%s) wins!\n", p.Name(), c.palette.Symbol(p.Symbol()))
}

func (c *consoleListener) GameDrawn() {
	fmt.Fprintln(c.out, "\nThe board is full. It's a draw.")
}
