package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/allium/internal/source"
)

func startOf(t *testing.T, text string) source.Cursor {
	t.Helper()
	c, err := source.FromString("munch.al", text).Start()
	require.NoError(t, err)
	return c
}

func TestMunchers_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		munch   MunchFunc
		input   string
		outcome Outcome
		text    string
	}{
		{"whitespace claims spaces", Whitespace, " \t\nx", Matched, " \t\n"},
		{"whitespace ignores letters", Whitespace, "x ", NoMatch, ""},
		{"line comment", LineComment, "// c\nx", Matched, "// c\n"},
		{"line comment needs two slashes", LineComment, "/x", NoMatch, ""},
		{"bare line comment at end", LineComment, "//", Matched, "//"},
		{"block comment", BlockComment, "/**/", Matched, "/**/"},
		{"unterminated block comment", BlockComment, "/* x", Malformed, ""},
		{"punct", Punct, "@x", Matched, "@"},
		{"lone underscore", Punct, "_", Matched, "_"},
		{"underscore prefix", Punct, "_x", NoMatch, ""},
		{"comma is not punct", Punct, ",", NoMatch, ""},
		{"ident", Ident, "abc1 ", Matched, "abc1"},
		{"ident rejects digit", Ident, "1abc", NoMatch, ""},
		{"raw ident", Ident, "r#fn(", Matched, "r#fn"},
		{"broken raw marker", Ident, "r# x", Malformed, ""},
		{"number", Literal, "12+", Matched, "12"},
		{"string", Literal, `"x" y`, Matched, `"x"`},
		{"literal ignores idents", Literal, "x", NoMatch, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.munch.Munch(startOf(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, m.Outcome)
			if tt.outcome == Matched {
				assert.Equal(t, tt.text, m.Atom.Text())
			}
			if tt.outcome == Malformed {
				assert.NotEmpty(t, m.Message)
			}
		})
	}
}

func TestMunched_NextAndAtEnd(t *testing.T) {
	m, err := Ident(startOf(t, "ab cd"))
	require.NoError(t, err)
	assert.False(t, m.AtEnd)
	assert.Equal(t, ' ', m.Next.Char())
	assert.Equal(t, 2, m.Next.Pos())

	m, err = Ident(startOf(t, "abcd"))
	require.NoError(t, err)
	assert.True(t, m.AtEnd)
	assert.True(t, m.Next.IsZero())
}

func TestDispatch_PriorityAndShortCircuit(t *testing.T) {
	calls := 0
	counting := MunchFunc(func(c source.Cursor) (Munched, error) {
		calls++
		return noMatch, nil
	})

	d := Dispatch{MunchFunc(BlockComment), counting}
	m, err := d.Munch(startOf(t, "/* open"))
	require.NoError(t, err)
	assert.Equal(t, Malformed, m.Outcome)
	assert.Zero(t, calls, "a malformed claim must stop the dispatch")

	m, err = d.Munch(startOf(t, "x"))
	require.NoError(t, err)
	assert.Equal(t, NoMatch, m.Outcome)
	assert.Equal(t, 1, calls)

	m, err = Default().Munch(startOf(t, "/*x*/"))
	require.NoError(t, err)
	assert.Equal(t, AtomBlockComment, m.Atom.Kind, "comments run before punctuation")
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "matched", Matched.String())
	assert.Equal(t, "malformed", Malformed.String())
	assert.Equal(t, "no match", NoMatch.String())
}
