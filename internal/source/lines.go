package source

import (
	"fmt"
	"slices"
)

// LineIndex records the scalar offset at which each line starts. Offsets
// are appended in decode order, so the list is sorted by construction.
//
// LineIndex does no locking of its own; File guards it.
type LineIndex struct {
	starts []int
}

// Add appends a line start. It ignores an offset that is already present and
// refuses one that would break the strictly increasing order.
func (l *LineIndex) Add(off int) bool {
	if n := len(l.starts); n > 0 && off <= l.starts[n-1] {
		return off == l.starts[n-1]
	}
	l.starts = append(l.starts, off)
	return true
}

// Len returns the number of known lines.
func (l *LineIndex) Len() int { return len(l.starts) }

// Start returns the offset at which line k starts.
func (l *LineIndex) Start(k int) (int, bool) {
	if k < 0 || k >= len(l.starts) {
		return 0, false
	}
	return l.starts[k], true
}

// Lookup returns the 0-based line k with starts[k] <= off < starts[k+1].
// known is the number of scalars decoded so far; offsets at or past it are
// rejected.
func (l *LineIndex) Lookup(off, known int) (int, error) {
	if off < 0 || off >= known {
		return 0, fmt.Errorf("line lookup: %w", &PositionError{Pos: off, Len: known})
	}
	k, found := slices.BinarySearch(l.starts, off)
	if !found {
		k--
	}
	if k < 0 || k >= len(l.starts) {
		return 0, fmt.Errorf("line lookup for offset %d: no line in %d known starts: %w",
			off, len(l.starts), ErrInvalidPosition)
	}
	return k, nil
}
