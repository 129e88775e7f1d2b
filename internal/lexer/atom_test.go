package lexer

import (
	"testing"

	"github.com/hassan/allium/internal/source"
)

func TestAtomKind_String(t *testing.T) {
	tests := []struct {
		kind AtomKind
		want string
	}{
		{AtomEOF, "EOF"},
		{AtomInvalid, "INVALID"},
		{AtomWhitespace, "WHITESPACE"},
		{AtomBlockComment, "BLOCK_COMMENT"},
		{AtomNumber, "NUMBER"},
		{AtomRawIdent, "RAW_IDENT"},
		{AtomKind(99), "AtomKind(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAtomKind_Class(t *testing.T) {
	tests := []struct {
		kind    AtomKind
		class   Class
		comment bool
	}{
		{AtomWhitespace, ClassBreak, false},
		{AtomLineComment, ClassBreak, true},
		{AtomBlockComment, ClassBreak, true},
		{AtomNumber, ClassLiteral, false},
		{AtomString, ClassLiteral, false},
		{AtomChar, ClassLiteral, false},
		{AtomPunct, ClassPunct, false},
		{AtomIdent, ClassIdent, false},
		{AtomRawIdent, ClassIdent, false},
		{AtomEOF, ClassNone, false},
		{AtomInvalid, ClassNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.Class(); got != tt.class {
				t.Errorf("Class() = %v, want %v", got, tt.class)
			}
			if got := tt.kind.IsComment(); got != tt.comment {
				t.Errorf("IsComment() = %v, want %v", got, tt.comment)
			}
			if got := tt.kind.IsBreak(); got != (tt.class == ClassBreak) {
				t.Errorf("IsBreak() = %v", got)
			}
			if got := tt.kind.IsLiteral(); got != (tt.class == ClassLiteral) {
				t.Errorf("IsLiteral() = %v", got)
			}
		})
	}
}

func TestAtom_NameAndString(t *testing.T) {
	atoms, err := NewStream(source.FromString("n.al", "r#type plain")).Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(atoms) != 3 {
		t.Fatalf("got %d atoms, want 3", len(atoms))
	}

	raw, plain := atoms[0], atoms[2]
	if raw.Name() != "type" {
		t.Errorf("raw Name() = %q, want %q", raw.Name(), "type")
	}
	if plain.Name() != "plain" {
		t.Errorf("plain Name() = %q, want %q", plain.Name(), "plain")
	}
	if got, want := plain.String(), `IDENT("plain")@7`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := (Atom{Kind: AtomEOF}).String(); got != "EOF" {
		t.Errorf("EOF String() = %q", got)
	}
}
