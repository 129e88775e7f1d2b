package lexer

import (
	"errors"

	"github.com/hassan/allium/internal/source"
)

// Literal claims numeric, string and character literals. Their bodies are
// not interpreted: digit grouping, escapes and suffixes are left to whoever
// consumes the atom. Only escaped closing quotes are honored.
func Literal(c source.Cursor) (Munched, error) {
	switch ch := c.Char(); {
	case ch == '"':
		return quoted(c, AtomString, `"`, "string")
	case ch == '\'':
		return quoted(c, AtomChar, "'", "character")
	case isDigit(ch):
		return number(c)
	}
	return noMatch, nil
}

func quoted(c source.Cursor, kind AtomKind, delim, what string) (Munched, error) {
	span, err := c.AsSpan().GrowUntil(delim, true, false)
	if errors.Is(err, source.ErrUnterminated) {
		return malformed("unterminated %s literal", what), nil
	}
	if err != nil {
		return Munched{}, err
	}
	return matched(kind, span)
}

// number claims a digit followed by any run of ASCII letters, digits and
// '_'. A '.' joins when a digit follows it, and so does a sign after a
// decimal exponent marker.
func number(c source.Cursor) (Munched, error) {
	hex := false
	if c.Char() == '0' {
		next, ok, err := peek(c)
		if err != nil {
			return Munched{}, err
		}
		hex = ok && (next == 'x' || next == 'X')
	}

	end, prev := c, c.Char()
	dot, exp := false, false
scan:
	for {
		next, err := end.Next()
		if errors.Is(err, source.ErrEOF) {
			break
		}
		if err != nil {
			return Munched{}, err
		}

		switch ch := next.Char(); {
		case ch == '.' && !dot && !exp:
			ok, err := digitFollows(next)
			if err != nil {
				return Munched{}, err
			}
			if !ok {
				break scan
			}
			dot = true
		case (ch == '+' || ch == '-') && !hex && (prev == 'e' || prev == 'E'):
			ok, err := digitFollows(next)
			if err != nil {
				return Munched{}, err
			}
			if !ok {
				break scan
			}
		case isDigit(ch) || isASCIILetter(ch) || ch == '_':
			if !hex && (ch == 'e' || ch == 'E') {
				exp = true
			}
		default:
			break scan
		}
		end, prev = next, next.Char()
	}

	span, err := c.SpanTo(end)
	if err != nil {
		return Munched{}, err
	}
	return matched(AtomNumber, span)
}

func digitFollows(c source.Cursor) (bool, error) {
	ch, ok, err := peek(c)
	return ok && isDigit(ch), err
}

func isDigit(ch rune) bool { return '0' <= ch && ch <= '9' }

func isASCIILetter(ch rune) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isPositionError(err error) bool {
	return errors.Is(err, source.ErrInvalidPosition)
}
