package minimax

import (
	"math"
	"strconv"
)

// Score is always from the point of view of the player the search was
// started for. Infinity and NegInfinity are reserved for proven wins and
// losses; heuristic values stay far inside that range.
type Score int32

const (
	Infinity    Score = math.MaxInt32
	NegInfinity Score = -Infinity
)

func (s Score) IsWin() bool  { return s == Infinity }
func (s Score) IsLoss() bool { return s == NegInfinity }

func (s Score) String() string {
	switch s {
	case Infinity:
		return "+inf"
	case NegInfinity:
		return "-inf"
	}
	return strconv.Itoa(int(s))
}

// Value is a search result: the score and the number of plies until the
// line that produced it ends.
type Value struct {
	Score Score
	Ply   int
}

// better reports whether v should replace best for the side choosing at
// this node. Among equal proven results the chooser wants the quickest win
// and the slowest loss, but only among the children actually searched: with
// pruning a node stops at the first proven child, so Ply is the length of
// the first line found, not necessarily the shortest one.
func better(v, best Value, isMax bool) bool {
	if v.Score != best.Score {
		if isMax {
			return v.Score > best.Score
		}
		return v.Score < best.Score
	}
	win, loss := Infinity, NegInfinity
	if !isMax {
		win, loss = loss, win
	}
	switch v.Score {
	case win:
		return v.Ply < best.Ply
	case loss:
		return v.Ply > best.Ply
	}
	return false
}

func max(x, y Score) Score {
	if x < y {
		return y
	}
	return x
}

func min(x, y Score) Score {
	if x < y {
		return x
	}
	return y
}
