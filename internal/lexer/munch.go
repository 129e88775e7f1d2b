// Package lexer splits a source.File into atoms: whitespace, comments,
// punctuation, identifiers and unparsed literals.
//
// Each recognizer is a Muncher that looks at one cursor and either claims
// the input (Matched), claims it but finds it broken (Malformed), or leaves
// it for the next recognizer (NoMatch). Dispatch runs recognizers in a fixed
// priority order and stops at the first one that claims the input.
package lexer

import (
	"errors"
	"fmt"

	"github.com/hassan/allium/internal/source"
)

// Outcome is the result class of one munch attempt.
type Outcome int

const (
	// NoMatch means the recognizer does not claim the input.
	NoMatch Outcome = iota

	// Matched means the recognizer produced an atom.
	Matched

	// Malformed means the input looked like this recognizer's atom but is
	// not a valid one, such as an unterminated block comment.
	Malformed
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case Malformed:
		return "malformed"
	default:
		return "no match"
	}
}

// Munched is what a recognizer reports for one cursor.
type Munched struct {
	Outcome Outcome

	// Atom and Next are set when Outcome is Matched. Next is the cursor
	// right after the atom; it is zero and AtEnd is true when the atom runs
	// to the end of the source.
	Atom  Atom
	Next  source.Cursor
	AtEnd bool

	// Message is a short description of what is wrong when Outcome is
	// Malformed.
	Message string
}

var noMatch = Munched{Outcome: NoMatch}

// matched builds a Matched result for span and locates the cursor after it.
func matched(kind AtomKind, span source.Span) (Munched, error) {
	m := Munched{Outcome: Matched, Atom: Atom{Kind: kind, Span: span}}
	next, err := span.Next()
	switch {
	case err == nil:
		m.Next = next
	case errors.Is(err, source.ErrEOF):
		m.AtEnd = true
	default:
		return Munched{}, err
	}
	return m, nil
}

func malformed(format string, args ...any) Munched {
	return Munched{Outcome: Malformed, Message: fmt.Sprintf(format, args...)}
}

// A Muncher tries to recognize one atom starting at c.
//
// The error return is reserved for conditions that end the scan: I/O
// failures and invalid UTF-8. Bad input that a recognizer can describe is
// reported as a Malformed outcome instead.
type Muncher interface {
	Munch(c source.Cursor) (Munched, error)
}

// MunchFunc adapts a function to the Muncher interface.
type MunchFunc func(c source.Cursor) (Munched, error)

func (f MunchFunc) Munch(c source.Cursor) (Munched, error) { return f(c) }

// Dispatch tries its munchers in order. The first Matched or Malformed
// outcome wins; NoMatch from every muncher is reported as NoMatch.
type Dispatch []Muncher

func (d Dispatch) Munch(c source.Cursor) (Munched, error) {
	for _, m := range d {
		res, err := m.Munch(c)
		if err != nil {
			return Munched{}, err
		}
		if res.Outcome != NoMatch {
			return res, nil
		}
	}
	return noMatch, nil
}

// Breaks recognizes the transparent separators: whitespace, then line
// comments, then block comments.
var Breaks = Dispatch{
	MunchFunc(Whitespace),
	MunchFunc(LineComment),
	MunchFunc(BlockComment),
}

// Default returns the standard recognizer order. Breaks come first so that
// "//" and "/*" are never read as two slashes, then punctuation, then
// identifiers, then literals.
func Default() Dispatch {
	return Dispatch{
		Breaks,
		MunchFunc(Punct),
		MunchFunc(Ident),
		MunchFunc(Literal),
	}
}
