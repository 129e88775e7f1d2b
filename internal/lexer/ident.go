package lexer

import (
	"strings"
	"unicode"

	"github.com/hassan/allium/internal/source"
)

// rawMarker prefixes an identifier that may collide with a keyword.
const rawMarker = "r#"

// punctSet is the closed set of single-scalar punctuation.
const punctSet = "{}[]()" + // block delimiters
	"+-*/%=" + // arithmetic
	"<>" + // comparison
	"|&^~!" + // logic
	"_" + // discard
	".@$"

// isIdentStart approximates the Unicode ID_Start property, plus '_'.
func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.In(ch, unicode.L, unicode.Nl, unicode.Other_ID_Start)
}

// isIdentContinue approximates the Unicode ID_Continue property.
func isIdentContinue(ch rune) bool {
	return isIdentStart(ch) ||
		unicode.In(ch, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}

// Punct claims one scalar from the punctuation set. A '_' directly followed
// by an identifier character is left to Ident.
func Punct(c source.Cursor) (Munched, error) {
	ch := c.Char()
	if !strings.ContainsRune(punctSet, ch) {
		return noMatch, nil
	}
	if ch == '_' {
		next, ok, err := peek(c)
		if err != nil {
			return Munched{}, err
		}
		if ok && isIdentContinue(next) {
			return noMatch, nil
		}
	}
	return matched(AtomPunct, c.AsSpan())
}

// Ident claims an identifier, optionally behind the raw marker "r#".
func Ident(c source.Cursor) (Munched, error) {
	kind := AtomIdent
	head := c

	raw, err := c.HasPrefix(rawMarker)
	if err != nil {
		return Munched{}, err
	}
	if raw {
		kind = AtomRawIdent
		head, err = c.SeekRight(len(rawMarker))
		if isPositionError(err) {
			return malformed("raw identifier marker %q at end of input", rawMarker), nil
		}
		if err != nil {
			return Munched{}, err
		}
	}

	if !isIdentStart(head.Char()) {
		if raw {
			return malformed("raw identifier marker %q must be followed by an identifier, found %q", rawMarker, head.Char()), nil
		}
		return noMatch, nil
	}

	end, err := extend(head, isIdentContinue)
	if err != nil {
		return Munched{}, err
	}
	span, err := c.SpanTo(end)
	if err != nil {
		return Munched{}, err
	}
	return matched(kind, span)
}
