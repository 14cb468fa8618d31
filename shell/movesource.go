package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/domino14/connectfour/grid"
	"github.com/domino14/connectfour/player"
)

var errAbandoned = errors.New("game abandoned")

// consoleMoveSource asks a human for 1-based column numbers at the prompt.
type consoleMoveSource struct {
	l       lineReader
	out     io.Writer
	palette *Palette
}

func (m *consoleMoveSource) RequestMove(ctx context.Context, p player.Player, g *grid.Grid) (int, error) {
	m.l.SetPrompt(fmt.Sprintf("%s (%s), column [1-%d]> ", p.Name(),
		m.palette.Symbol(p.Symbol()), g.Columns()))
	defer m.l.SetPrompt(prompt)
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		line, err := m.l.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return 0, errAbandoned
		} else if err != nil {
			return 0, err
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "exit", "quit", "resign":
			return 0, errAbandoned
		}
		col, err := strconv.Atoi(line)
		if err != nil {
			showMessage(fmt.Sprintf("%q is not a column number", line), m.out)
			continue
		}
		// Range is checked by the game so that it can say why.
		return col - 1, nil
	}
}

func (m *consoleMoveSource) IllegalMove(p player.Player, err error) {
	showMessage(fmt.Sprintf("%s: %v. Try again.", p.Name(), err), m.out)
}
