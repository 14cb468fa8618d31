package minimax

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/bitboard"
)

const (
	TTExact = 0x01
	TTLower = 0x02
	TTUpper = 0x03
)

const (
	entrySize = 24

	MinTableSizePowerOf2     = 10
	MaxTableSizePowerOf2     = 28
	DefaultTableSizePowerOf2 = 20
)

// TableEntry stores the whole (position, mask) key, so a lookup can never
// return another position's value.
type TableEntry struct {
	position uint64
	mask     uint64
	score    Score
	ply      uint16
	depth    uint8
	flag     uint8
}

func (t TableEntry) valid() bool {
	return t.flag != 0
}

func (t TableEntry) matches(b bitboard.Board) bool {
	return t.position == b.Position && t.mask == b.Mask
}

// usable reports whether this entry can stand in for a search of the
// required depth with window (α, β).
func (t TableEntry) usable(depth int, α, β Score) bool {
	if int(t.depth) < depth {
		return false
	}
	switch t.flag {
	case TTExact:
		return true
	case TTLower:
		return t.score >= β
	case TTUpper:
		return t.score <= α
	}
	return false
}

func (t TableEntry) value() Value {
	return Value{Score: t.score, Ply: int(t.ply)}
}

type TableStats struct {
	Created      uint64
	Lookups      uint64
	Hits         uint64
	T2Collisions uint64
	Size         int
}

// TranspositionTable is a fixed-size array of entries indexed by a hash of
// the board. It belongs to a single Solver and is cleared for every
// decision; it is not safe for concurrent use.
type TranspositionTable struct {
	table        []TableEntry
	sizePowerOf2 int
	sizeMask     uint64
	keybuf       [16]byte

	created uint64
	lookups uint64
	hits    uint64
	// A type 2 collision is a different board hashing to an occupied slot.
	t2collisions uint64
}

func (t *TranspositionTable) index(b bitboard.Board) uint64 {
	binary.LittleEndian.PutUint64(t.keybuf[:8], b.Position)
	binary.LittleEndian.PutUint64(t.keybuf[8:], b.Mask)
	return xxhash.Sum64(t.keybuf[:]) & t.sizeMask
}

func (t *TranspositionTable) lookup(b bitboard.Board) (TableEntry, bool) {
	t.lookups++
	e := t.table[t.index(b)]
	if !e.valid() || !e.matches(b) {
		return TableEntry{}, false
	}
	t.hits++
	return e, true
}

// store inserts an entry unless the slot already holds the same board
// searched to a greater depth. A slot holding a different board is
// overwritten.
func (t *TranspositionTable) store(b bitboard.Board, e TableEntry) {
	idx := t.index(b)
	old := t.table[idx]
	if old.valid() {
		if old.matches(b) {
			if old.depth > e.depth {
				return
			}
		} else {
			t.t2collisions++
		}
	}
	e.position = b.Position
	e.mask = b.Mask
	t.table[idx] = e
	t.created++
}

// Reset clears the table, reallocating only if the size changed.
func (t *TranspositionTable) Reset(sizePowerOf2 int) {
	if sizePowerOf2 < MinTableSizePowerOf2 {
		sizePowerOf2 = MinTableSizePowerOf2
	} else if sizePowerOf2 > MaxTableSizePowerOf2 {
		sizePowerOf2 = MaxTableSizePowerOf2
	}
	numElems := 1 << sizePowerOf2
	if t.table != nil && len(t.table) == numElems {
		clear(t.table)
	} else {
		t.table = make([]TableEntry, numElems)
		log.Debug().Int("num-elems", numElems).
			Int("estimated-total-memory-bytes", numElems*entrySize).
			Msg("transposition-table-allocated")
	}
	t.sizePowerOf2 = sizePowerOf2
	t.sizeMask = uint64(numElems - 1)
	t.created = 0
	t.lookups = 0
	t.hits = 0
	t.t2collisions = 0
}

// SizeForMemory picks the biggest power of 2 whose table fits in the given
// fraction of system memory.
func SizeForMemory(fractionOfMemory float64) int {
	totalMem := memory.TotalMemory()
	if totalMem == 0 || fractionOfMemory <= 0 {
		return DefaultTableSizePowerOf2
	}
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	p := int(math.Log2(desiredNElems))
	log.Debug().Float64("desired-num-elems", desiredNElems).
		Uint64("total-system-memory-bytes", totalMem).
		Int("size-power-of-2", p).
		Msg("transposition-table-size")
	return p
}

func (t *TranspositionTable) Stats() TableStats {
	return TableStats{
		Created:      t.created,
		Lookups:      t.lookups,
		Hits:         t.hits,
		T2Collisions: t.t2collisions,
		Size:         len(t.table),
	}
}
