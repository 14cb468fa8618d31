package grid

import "fmt"

// FromColumns builds a grid from per-column strings, bottom piece first.
// Missing trailing columns are left empty. "RRR" in column 0 and "BBB" in
// column 3 would be FromColumns(6, 7, 4, "RRR", "", "", "BBB").
func FromColumns(rows, columns, winLength int, cols ...string) (*Grid, error) {
	if len(cols) > columns {
		return nil, fmt.Errorf("got %d columns for a %d-column grid", len(cols), columns)
	}
	g := New(rows, columns, winLength)
	for c, pieces := range cols {
		for _, p := range pieces {
			sym, err := ParseSymbol(string(p))
			if err != nil {
				return nil, err
			}
			if err := g.AddPiece(c, sym).Err(); err != nil {
				return nil, fmt.Errorf("column %d: %w", c, err)
			}
		}
	}
	return g, nil
}

// MustFromColumns is FromColumns for fixtures known to be valid.
func MustFromColumns(rows, columns, winLength int, cols ...string) *Grid {
	g, err := FromColumns(rows, columns, winLength, cols...)
	if err != nil {
		panic(err)
	}
	return g
}
