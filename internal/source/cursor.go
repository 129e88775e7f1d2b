package source

import (
	"cmp"
	"errors"
	"fmt"
	"math"
)

// Cursor is an immutable position in a File. It is a small value: copy it
// freely. The zero Cursor belongs to no file; moving it or asking for its
// line fails with ErrInvalidPosition.
//
// Cursors are ordered only against cursors of the same File.
type Cursor struct {
	file *File
	pos  int
	ch   rune
}

// Pos returns the scalar offset of the cursor.
func (c Cursor) Pos() int { return c.pos }

// File returns the source the cursor points into.
func (c Cursor) File() *File { return c.file }

// Char returns the scalar value under the cursor.
func (c Cursor) Char() rune { return c.ch }

// IsZero reports whether c is the zero Cursor.
func (c Cursor) IsZero() bool { return c.file == nil }

func (c Cursor) String() string {
	if c.file == nil {
		return "<no cursor>"
	}
	return fmt.Sprintf("%s@%d", c.file.path, c.pos)
}

// owner returns the cursor's File. Every navigation method on the zero
// Cursor fails with ErrInvalidPosition.
func (c Cursor) owner() (*File, error) {
	if c.file == nil {
		return nil, fmt.Errorf("zero cursor: %w", ErrInvalidPosition)
	}
	return c.file, nil
}

// Next returns the cursor one scalar to the right, or ErrEOF.
func (c Cursor) Next() (Cursor, error) {
	f, err := c.owner()
	if err != nil {
		return Cursor{}, err
	}
	n, err := f.Cursor(c.pos + 1)
	if errors.Is(err, ErrInvalidPosition) {
		return Cursor{}, ErrEOF
	}
	return n, err
}

// SeekLeft returns the cursor n scalars to the left.
func (c Cursor) SeekLeft(n int) (Cursor, error) {
	f, err := c.owner()
	if err != nil {
		return Cursor{}, err
	}
	if n < 0 || n > c.pos {
		return Cursor{}, fmt.Errorf("seek left %d from %d: %w", n, c.pos, ErrSeekOverflow)
	}
	return f.Cursor(c.pos - n)
}

// SeekRight returns the cursor n scalars to the right. Positions past the
// end of the source are reported as a *PositionError.
func (c Cursor) SeekRight(n int) (Cursor, error) {
	f, err := c.owner()
	if err != nil {
		return Cursor{}, err
	}
	if n < 0 || n > math.MaxInt-c.pos-1 {
		return Cursor{}, fmt.Errorf("seek right %d from %d: %w", n, c.pos, ErrSeekOverflow)
	}
	return f.Cursor(c.pos + n)
}

// LineOf returns the 0-based line the cursor is on.
func (c Cursor) LineOf() (int, error) {
	f, err := c.owner()
	if err != nil {
		return 0, err
	}
	return f.LineOf(c.pos)
}

// Location returns the 0-based line and the 0-based column, counted in
// scalars from the start of that line.
func (c Cursor) Location() (line, col int, err error) {
	line, err = c.LineOf()
	if err != nil {
		return 0, 0, err
	}
	start, ok, err := c.file.lineStart(line)
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return 0, 0, &PositionError{Path: c.file.path, Pos: c.pos, Len: c.file.Len()}
	}
	return line, c.pos - start, nil
}

// AsSpan returns the one-scalar span at c.
func (c Cursor) AsSpan() Span {
	return Span{start: c, end: c}
}

// SpanTo returns the span between c and o in whichever order makes it run
// forward. Both cursors must share a File.
func (c Cursor) SpanTo(o Cursor) (Span, error) {
	if c.file != o.file {
		return Span{}, mismatch(c.file, o.file)
	}
	if o.pos < c.pos {
		return Span{start: o, end: c}, nil
	}
	return Span{start: c, end: o}, nil
}

// SpanFor returns the span of n scalars starting at c.
func (c Cursor) SpanFor(n int) (Span, error) {
	if n <= 0 {
		return Span{}, fmt.Errorf("span of %d at %d: %w", n, c.pos, ErrZeroLengthSpan)
	}
	end, err := c.SeekRight(n - 1)
	if err != nil {
		return Span{}, err
	}
	return Span{start: c, end: end}, nil
}

// HasPrefix reports whether the scalars starting at c spell text. Running
// into the end of the source is a plain mismatch.
func (c Cursor) HasPrefix(text string) (bool, error) {
	pattern := []rune(text)
	if len(pattern) == 0 {
		return true, nil
	}
	f, err := c.owner()
	if err != nil {
		return false, err
	}
	matched, _, err := f.matchAt(c.pos, pattern)
	return matched, err
}

// Compare orders two cursors of the same File like cmp.Compare.
func (c Cursor) Compare(o Cursor) (int, error) {
	if c.file != o.file {
		return 0, mismatch(c.file, o.file)
	}
	return cmp.Compare(c.pos, o.pos), nil
}

// Equal reports whether both cursors point at the same scalar of the same File.
func (c Cursor) Equal(o Cursor) bool {
	return c.file == o.file && c.pos == o.pos
}

// Before reports whether c comes before o. Cursors of different files are
// never ordered.
func (c Cursor) Before(o Cursor) bool {
	return c.file == o.file && c.pos < o.pos
}

// After reports whether c comes after o.
func (c Cursor) After(o Cursor) bool {
	return c.file == o.file && c.pos > o.pos
}

func mismatch(a, b *File) error {
	name := func(f *File) string {
		if f == nil {
			return "<no file>"
		}
		return f.path
	}
	return &MismatchError{A: name(a), B: name(b)}
}
