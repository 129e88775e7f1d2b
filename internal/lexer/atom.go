package lexer

import (
	"fmt"

	"github.com/hassan/allium/internal/source"
)

// AtomKind identifies what an Atom is.
type AtomKind int

// Atom kinds, grouped the way Class reports them.
const (
	// AtomEOF marks the end of the input. It carries no span.
	AtomEOF AtomKind = iota

	// AtomInvalid accompanies an error from NextAtom. Its span is the single
	// scalar where scanning stopped.
	AtomInvalid

	// Breaks: transparent separators between structural atoms.

	AtomWhitespace   // maximal run of Unicode whitespace
	AtomLineComment  // "//" through the line feed or end of input
	AtomBlockComment // "/*" ... "*/", nested

	// Literals, left unparsed for the next stage.

	AtomNumber // 42, 0x_ff, 1.5e-3, 10u8
	AtomString // "text", delimiters included
	AtomChar   // 'c', delimiters included

	AtomPunct    // one structural or operator scalar
	AtomIdent    // foo, _bar, héllo
	AtomRawIdent // r#match
)

// Class is the coarse grouping of atom kinds.
type Class int

const (
	ClassNone Class = iota
	ClassBreak
	ClassLiteral
	ClassPunct
	ClassIdent
)

func (c Class) String() string {
	switch c {
	case ClassBreak:
		return "BREAK"
	case ClassLiteral:
		return "LITERAL"
	case ClassPunct:
		return "PUNCT"
	case ClassIdent:
		return "IDENT"
	default:
		return "NONE"
	}
}

// Class returns the group the kind belongs to.
func (k AtomKind) Class() Class {
	switch k {
	case AtomWhitespace, AtomLineComment, AtomBlockComment:
		return ClassBreak
	case AtomNumber, AtomString, AtomChar:
		return ClassLiteral
	case AtomPunct:
		return ClassPunct
	case AtomIdent, AtomRawIdent:
		return ClassIdent
	default:
		return ClassNone
	}
}

func (k AtomKind) String() string {
	switch k {
	case AtomEOF:
		return "EOF"
	case AtomInvalid:
		return "INVALID"
	case AtomWhitespace:
		return "WHITESPACE"
	case AtomLineComment:
		return "LINE_COMMENT"
	case AtomBlockComment:
		return "BLOCK_COMMENT"
	case AtomNumber:
		return "NUMBER"
	case AtomString:
		return "STRING"
	case AtomChar:
		return "CHAR"
	case AtomPunct:
		return "PUNCT"
	case AtomIdent:
		return "IDENT"
	case AtomRawIdent:
		return "RAW_IDENT"
	default:
		return fmt.Sprintf("AtomKind(%d)", int(k))
	}
}

// IsBreak reports whether the kind is whitespace or a comment.
func (k AtomKind) IsBreak() bool { return k.Class() == ClassBreak }

// IsComment reports whether the kind is a line or block comment.
func (k AtomKind) IsComment() bool { return k == AtomLineComment || k == AtomBlockComment }

// IsLiteral reports whether the kind is a numeric, string or char literal.
func (k AtomKind) IsLiteral() bool { return k.Class() == ClassLiteral }

// Atom is one classified span of the source. It holds no characters of its
// own; Text reads them back from the span.
type Atom struct {
	Kind AtomKind
	Span source.Span
}

// Text returns the characters the atom covers.
func (a Atom) Text() string {
	if a.Span.IsZero() {
		return ""
	}
	return a.Span.String()
}

// Name returns the identifier an AtomIdent or AtomRawIdent spells, without
// the raw marker.
func (a Atom) Name() string {
	text := a.Text()
	if a.Kind == AtomRawIdent {
		return text[len(rawMarker):]
	}
	return text
}

// String formats the atom as KIND("text")@offset for debugging.
func (a Atom) String() string {
	if a.Span.IsZero() {
		return a.Kind.String()
	}
	return fmt.Sprintf("%s(%q)@%d", a.Kind, a.Text(), a.Span.Start().Pos())
}
