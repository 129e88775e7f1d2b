package source

import (
	"bytes"
	"errors"
	"testing"
	"testing/iotest"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allScalars encodes every scalar value from 0 to U+10FFFF in order.
func allScalars() []byte {
	buf := make([]byte, 0, 4*0x110000)
	for r := rune(0); r <= utf8.MaxRune; r++ {
		if r >= 0xD800 && r <= 0xDFFF {
			continue
		}
		buf = utf8.AppendRune(buf, r)
	}
	return buf
}

func TestDecode_RoundTrip(t *testing.T) {
	data := allScalars()
	// HalfReader makes chunk boundaries fall inside multi-byte sequences.
	f := Open("all.txt", iotest.HalfReader(bytes.NewReader(data)))

	out := make([]byte, 0, len(data))
	c, err := f.Start()
	require.NoError(t, err)
	for {
		out = utf8.AppendRune(out, c.Char())
		c, err = c.Next()
		if errors.Is(err, ErrEOF) {
			break
		}
		require.NoError(t, err)
	}
	if !bytes.Equal(data, out) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d", len(out), len(data))
	}
}

func TestDecodeAt(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  rune
		width int
		err   error
	}{
		{"ascii", []byte("a"), 'a', 1, nil},
		{"two byte", []byte("é"), 'é', 2, nil},
		{"three byte", []byte("€"), '€', 3, nil},
		{"four byte", []byte("𝄞"), '𝄞', 4, nil},
		{"max scalar", []byte{0xF4, 0x8F, 0xBF, 0xBF}, utf8.MaxRune, 4, nil},
		{"lone continuation", []byte{0x80}, 0, 0, ErrInvalidStartByte},
		{"bad lead", []byte{0xFF}, 0, 0, ErrInvalidStartByte},
		{"truncated", []byte{0xE2, 0x82}, 0, 0, ErrTruncatedSequence},
		{"bad continuation", []byte{0xE2, 0x41, 0x41}, 0, 0, ErrBadContinuationByte},
		{"surrogate", []byte{0xED, 0xA0, 0x80}, 0, 0, ErrSurrogateCodepoint},
		{"above max", []byte{0xF4, 0x90, 0x80, 0x80}, 0, 0, ErrCodepointRange},
		{"overlong slash", []byte{0xC0, 0xAF}, 0, 0, ErrOverlongEncoding},
		{"overlong nul", []byte{0xC0, 0x80}, 0, 0, ErrOverlongEncoding},
		{"overlong three byte", []byte{0xE0, 0x9F, 0xBF}, 0, 0, ErrOverlongEncoding},
		{"overlong four byte", []byte{0xF0, 0x8F, 0xBF, 0xBF}, 0, 0, ErrOverlongEncoding},
		{"shortest two byte", []byte{0xC2, 0x80}, 0x80, 2, nil},
		{"shortest three byte", []byte{0xE0, 0xA0, 0x80}, 0x800, 3, nil},
		{"shortest four byte", []byte{0xF0, 0x90, 0x80, 0x80}, 0x10000, 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, width, err := DecodeAt(Memory(tt.input), 0)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				var de *DecodeError
				require.ErrorAs(t, err, &de)
				assert.Equal(t, 0, de.Offset)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, r)
			assert.Equal(t, tt.width, width)
		})
	}
}

func TestDecode_InvalidLeadBytesFailFirstDecode(t *testing.T) {
	var data []byte
	for b := 0xF0; b < 0xFF; b++ {
		data = append(data, byte(b))
	}
	f := Open("bad.bin", bytes.NewReader(data))

	_, err := f.Start()
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 0, de.Offset)

	// The failure is remembered rather than producing a best-effort scalar.
	_, err = f.Cursor(0)
	require.Error(t, err)
}

func TestDecode_SkipsByteOrderMark(t *testing.T) {
	f := FromString("bom.txt", "\uFEFFHello world")
	c, err := f.Start()
	require.NoError(t, err)
	assert.Equal(t, 0, c.Pos())
	assert.Equal(t, 'H', c.Char())

	end, err := f.End()
	require.NoError(t, err)
	assert.Equal(t, len("Hello world")-1, end.Pos())

	off, err := f.ByteOffset(0)
	require.NoError(t, err)
	assert.Equal(t, 3, off)
}

func TestDecode_BOMOnlyAtStart(t *testing.T) {
	f := FromString("mid.txt", "a\uFEFF")
	end, err := f.End()
	require.NoError(t, err)
	assert.Equal(t, 1, end.Pos())
	assert.Equal(t, BOM, end.Char())
}

func TestDecode_EmptySource(t *testing.T) {
	f := FromString("empty.txt", "")
	_, err := f.Start()
	assert.ErrorIs(t, err, ErrEOF)
	_, err = f.End()
	assert.ErrorIs(t, err, ErrEOF)
	assert.True(t, f.Complete())
}
