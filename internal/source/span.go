package source

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"
)

// Span is an immutable, forward range of scalars between two cursors of the
// same File. Both ends are inclusive, so the shortest span has length 1.
type Span struct {
	start, end Cursor
}

// Start returns the first cursor of the span.
func (s Span) Start() Cursor { return s.start }

// End returns the last cursor of the span.
func (s Span) End() Cursor { return s.end }

// File returns the source the span covers.
func (s Span) File() *File { return s.start.file }

// IsZero reports whether s is the zero Span.
func (s Span) IsZero() bool { return s.start.file == nil }

// Len returns the number of scalars covered.
func (s Span) Len() int { return s.end.pos - s.start.pos + 1 }

// Next returns the cursor just past the span, or ErrEOF.
func (s Span) Next() (Cursor, error) { return s.end.Next() }

// Contains reports whether c lies within the span.
func (s Span) Contains(c Cursor) bool {
	return c.file == s.start.file && c.pos >= s.start.pos && c.pos <= s.end.pos
}

// Merge returns the union of two spans that overlap or touch. A span that
// fully contains the other is returned unchanged.
func (s Span) Merge(o Span) (Span, error) {
	if s.start.file != o.start.file {
		return Span{}, mismatch(s.start.file, o.start.file)
	}
	first, second := s, o
	if o.start.pos < s.start.pos {
		first, second = o, s
	}
	if first.end.pos >= second.end.pos {
		return first, nil
	}
	if first.end.pos+1 >= second.start.pos {
		return Span{start: first.start, end: second.end}, nil
	}
	return Span{}, fmt.Errorf("merge %d..%d with %d..%d: %w",
		first.start.pos, first.end.pos, second.start.pos, second.end.pos, ErrDiscontinuousSpans)
}

func (s Span) checkShrink(n int) error {
	switch {
	case n < 0:
		return fmt.Errorf("shrink by %d: %w", n, ErrSeekOverflow)
	case n == s.Len():
		return fmt.Errorf("shrink span of %d by %d: %w", s.Len(), n, ErrZeroLengthSpan)
	case n > s.Len():
		return fmt.Errorf("shrink span of %d by %d: %w", s.Len(), n, ErrNegativeLengthSpan)
	}
	return nil
}

// ShrinkLeft moves the start n scalars to the right.
func (s Span) ShrinkLeft(n int) (Span, error) {
	if err := s.checkShrink(n); err != nil {
		return Span{}, err
	}
	start, err := s.start.SeekRight(n)
	if err != nil {
		return Span{}, err
	}
	return Span{start: start, end: s.end}, nil
}

// ShrinkRight moves the end n scalars to the left.
func (s Span) ShrinkRight(n int) (Span, error) {
	if err := s.checkShrink(n); err != nil {
		return Span{}, err
	}
	end, err := s.end.SeekLeft(n)
	if err != nil {
		return Span{}, err
	}
	return Span{start: s.start, end: end}, nil
}

// ShiftLeft moves both ends n scalars to the left.
func (s Span) ShiftLeft(n int) (Span, error) {
	start, err := s.start.SeekLeft(n)
	if err != nil {
		return Span{}, err
	}
	end, err := s.end.SeekLeft(n)
	if err != nil {
		return Span{}, err
	}
	return Span{start: start, end: end}, nil
}

// ShiftRight moves both ends n scalars to the right.
func (s Span) ShiftRight(n int) (Span, error) {
	end, err := s.end.SeekRight(n)
	if err != nil {
		return Span{}, err
	}
	start, err := s.start.SeekRight(n)
	if err != nil {
		return Span{}, err
	}
	return Span{start: start, end: end}, nil
}

// GrowLeft moves the start n scalars to the left.
func (s Span) GrowLeft(n int) (Span, error) {
	start, err := s.start.SeekLeft(n)
	if err != nil {
		return Span{}, err
	}
	return Span{start: start, end: s.end}, nil
}

// GrowRight moves the end n scalars to the right.
func (s Span) GrowRight(n int) (Span, error) {
	end, err := s.end.SeekRight(n)
	if err != nil {
		return Span{}, err
	}
	return Span{start: s.start, end: end}, nil
}

// GrowUntil extends the span to the end of the first occurrence of stop
// found after it.
//
// With allowEscape, a window that starts right after a backslash is not
// tested, so `\` suppresses exactly one match attempt and `\\` escapes
// itself. When the source ends first, matchEOF grows the span to the last
// scalar of the source; otherwise the result wraps ErrUnterminated.
func (s Span) GrowUntil(stop string, allowEscape, matchEOF bool) (Span, error) {
	pattern := []rune(stop)
	if len(pattern) == 0 {
		return Span{}, ErrZeroLengthMatch
	}
	f, err := s.start.owner()
	if err != nil {
		return Span{}, err
	}

	escaping := false
	for w := s.end.pos + 1; ; w++ {
		matched, available, err := f.matchAt(w, pattern)
		if err != nil {
			return Span{}, err
		}
		if !available {
			if !matchEOF {
				return Span{}, fmt.Errorf("%s: %q not found after %d: %w", f.path, stop, s.start.pos, ErrUnterminated)
			}
			last, err := f.End()
			if err != nil {
				return Span{}, err
			}
			return Span{start: s.start, end: last}, nil
		}
		if escaping {
			escaping = false
			continue
		}
		if matched {
			end, err := f.Cursor(w + len(pattern) - 1)
			if err != nil {
				return Span{}, err
			}
			return Span{start: s.start, end: end}, nil
		}
		escaping = allowEscape && f.charAt(w) == '\\'
	}
}

// GrowUntilBlockEnd extends a span that spells open through its balancing
// close, counting nested opens. Escapes work as in GrowUntil. Running out of
// input while still nested returns a *BlockError.
func (s Span) GrowUntilBlockEnd(open, close string, allowEscape bool) (Span, error) {
	o, c := []rune(open), []rune(close)
	switch {
	case len(o) == 0 || len(c) == 0:
		return Span{}, ErrZeroLengthMatch
	case len(o) != len(c):
		return Span{}, fmt.Errorf("%q and %q: %w", open, close, ErrBlockPatternLength)
	case open == close:
		return Span{}, fmt.Errorf("%q: %w", open, ErrBlockPatternEquivalent)
	case !s.IsMatch(open):
		return Span{}, fmt.Errorf("span %q, want %q: %w", s.String(), open, ErrBadBlockMatch)
	}
	f := s.start.file
	width := len(o)

	depth := 1
	escaping := false
	for w := s.end.pos + 1; ; {
		opened, available, err := f.matchAt(w, o)
		if err != nil {
			return Span{}, err
		}
		if !available {
			return Span{}, fmt.Errorf("%s at %d: %w", f.path, s.start.pos, &BlockError{Open: open, Close: close, Depth: depth})
		}
		if escaping {
			escaping = false
			w++
			continue
		}
		if opened {
			depth++
			w += width
			continue
		}
		closed, _, err := f.matchAt(w, c)
		if err != nil {
			return Span{}, err
		}
		if closed {
			depth--
			if depth == 0 {
				end, err := f.Cursor(w + width - 1)
				if err != nil {
					return Span{}, err
				}
				return Span{start: s.start, end: end}, nil
			}
			w += width
			continue
		}
		escaping = allowEscape && f.charAt(w) == '\\'
		w++
	}
}

// IsMatch reports whether the span spells text exactly.
func (s Span) IsMatch(text string) bool {
	if s.IsZero() || utf8.RuneCountInString(text) != s.Len() {
		return false
	}
	i := s.start.pos
	for _, r := range text {
		if s.start.file.charAt(i) != r {
			return false
		}
		i++
	}
	return true
}

// Chars yields the scalars of the span in order. Every range over the
// result walks again from the start cursor.
func (s Span) Chars() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		if s.IsZero() {
			return
		}
		for i := s.start.pos; i <= s.end.pos; i++ {
			if !yield(s.start.file.charAt(i)) {
				return
			}
		}
	}
}

// String returns the text of the span.
func (s Span) String() string {
	var b strings.Builder
	for r := range s.Chars() {
		b.WriteRune(r)
	}
	return b.String()
}
