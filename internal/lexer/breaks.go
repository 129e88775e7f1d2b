package lexer

import (
	"errors"
	"unicode"

	"github.com/hassan/allium/internal/source"
)

const (
	lineCommentOpen  = "//"
	blockCommentOpen = "/*"
	blockCommentEnd  = "*/"
)

// Whitespace claims a maximal run of Unicode whitespace. Line feeds do not
// end the run.
func Whitespace(c source.Cursor) (Munched, error) {
	if !unicode.IsSpace(c.Char()) {
		return noMatch, nil
	}
	end, err := extend(c, unicode.IsSpace)
	if err != nil {
		return Munched{}, err
	}
	span, err := c.SpanTo(end)
	if err != nil {
		return Munched{}, err
	}
	return matched(AtomWhitespace, span)
}

// LineComment claims "//" through the next line feed, or through the end of
// the source when no line feed follows.
func LineComment(c source.Cursor) (Munched, error) {
	ok, err := c.HasPrefix(lineCommentOpen)
	if err != nil || !ok {
		return noMatch, err
	}
	open, err := c.SpanFor(2)
	if err != nil {
		return Munched{}, err
	}
	span, err := open.GrowUntil("\n", false, true)
	if err != nil {
		return Munched{}, err
	}
	return matched(AtomLineComment, span)
}

// BlockComment claims a nested "/* ... */" comment. A backslash escapes the
// delimiter right after it.
func BlockComment(c source.Cursor) (Munched, error) {
	ok, err := c.HasPrefix(blockCommentOpen)
	if err != nil || !ok {
		return noMatch, err
	}
	open, err := c.SpanFor(2)
	if err != nil {
		return Munched{}, err
	}
	span, err := open.GrowUntilBlockEnd(blockCommentOpen, blockCommentEnd, true)
	var be *source.BlockError
	if errors.As(err, &be) {
		if be.Depth > 1 {
			return malformed("unterminated block comment (%d levels still open)", be.Depth), nil
		}
		return malformed("unterminated block comment"), nil
	}
	if err != nil {
		return Munched{}, err
	}
	return matched(AtomBlockComment, span)
}

// extend walks right from c while keep holds and returns the last cursor it
// accepted. The end of the source stops the walk without an error.
func extend(c source.Cursor, keep func(rune) bool) (source.Cursor, error) {
	end := c
	for {
		next, err := end.Next()
		if errors.Is(err, source.ErrEOF) {
			return end, nil
		}
		if err != nil {
			return source.Cursor{}, err
		}
		if !keep(next.Char()) {
			return end, nil
		}
		end = next
	}
}

// peek returns the scalar after c, reporting false at the end of the source.
func peek(c source.Cursor) (rune, bool, error) {
	next, err := c.Next()
	if errors.Is(err, source.ErrEOF) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return next.Char(), true, nil
}
