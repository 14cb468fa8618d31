package bitboard

import "fmt"

// HasN reports whether position contains n set bits in a row along any
// direction. For each shift s, r starts as p and marks the start of every
// run of k; r & (r >> s*step) with step <= k extends that to runs of
// k+step, so every cell of the run is checked.
func (l *Layout) HasN(position uint64, n int) bool {
	switch {
	case n < 1:
		panic(fmt.Sprintf("HasN called with n=%d", n))
	case n == 1:
		return position != 0
	}
	for _, s := range l.shifts {
		r := position
		for k := 1; k < n; {
			step := min(k, n-k)
			r &= r >> (s * uint(step))
			k += step
		}
		if r != 0 {
			return true
		}
	}
	return false
}

// HasWin checks for a run of the configured win length.
func (l *Layout) HasWin(position uint64) bool {
	return l.HasN(position, l.dims.WinLength)
}
