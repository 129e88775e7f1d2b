package source

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Encoding failures reported by DecodeAt, always wrapped in a *DecodeError.
var (
	ErrInvalidStartByte    = errors.New("invalid utf-8 start byte")
	ErrTruncatedSequence   = errors.New("input ended inside a utf-8 sequence")
	ErrBadContinuationByte = errors.New("expected utf-8 continuation byte")
	ErrSurrogateCodepoint  = errors.New("utf-8 sequence encodes a surrogate")
	ErrCodepointRange      = errors.New("utf-8 sequence encodes a value above U+10FFFF")
	ErrOverlongEncoding    = errors.New("utf-8 sequence is longer than needed for its value")
)

// minValue is the smallest value each sequence width may encode, indexed by
// width. Anything below it has a shorter encoding.
var minValue = [...]uint32{0, 0, 0x80, 0x800, 0x10000}

// BOM is the byte order mark skipped at the start of a source.
const BOM = '\uFEFF'

// DecodeError locates an encoding failure.
type DecodeError struct {
	Offset int  // byte offset of the sequence start
	Byte   byte // the offending byte
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("byte %d (%#02x): %v", e.Offset, e.Byte, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// sequenceLength classifies a leading byte by its high bits and returns the
// encoded length together with the payload bits it carries.
func sequenceLength(b byte) (int, uint32) {
	switch {
	case b&0x80 == 0x00:
		return 1, uint32(b)
	case b&0xE0 == 0xC0:
		return 2, uint32(b & 0x1F)
	case b&0xF0 == 0xE0:
		return 3, uint32(b & 0x0F)
	case b&0xF8 == 0xF0:
		return 4, uint32(b & 0x07)
	}
	return 0, 0
}

// DecodeAt decodes the UTF-8 sequence starting at byte offset off.
//
// off must be resident; DecodeAt pulls the remaining bytes of the sequence
// through Ensure. It returns the scalar value and its encoded length.
func DecodeAt(b Backing, off int) (rune, int, error) {
	lead, err := b.ByteAt(off)
	if err != nil {
		return 0, 0, err
	}

	width, val := sequenceLength(lead)
	if width == 0 {
		return 0, 0, &DecodeError{Offset: off, Byte: lead, Err: ErrInvalidStartByte}
	}

	ok, err := b.Ensure(off + width)
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return 0, 0, &DecodeError{Offset: off, Byte: lead, Err: ErrTruncatedSequence}
	}

	for i := 1; i < width; i++ {
		cont, err := b.ByteAt(off + i)
		if err != nil {
			return 0, 0, err
		}
		if cont&0xC0 != 0x80 {
			return 0, 0, &DecodeError{Offset: off, Byte: cont, Err: ErrBadContinuationByte}
		}
		val = val<<6 | uint32(cont&0x3F)
	}

	// At most 21 payload bits, so val always fits a rune.
	switch r := rune(val); {
	case val < minValue[width]:
		return 0, 0, &DecodeError{Offset: off, Byte: lead, Err: ErrOverlongEncoding}
	case r > utf8.MaxRune:
		return 0, 0, &DecodeError{Offset: off, Byte: lead, Err: ErrCodepointRange}
	case r >= 0xD800 && r <= 0xDFFF:
		return 0, 0, &DecodeError{Offset: off, Byte: lead, Err: ErrSurrogateCodepoint}
	default:
		return r, width, nil
	}
}
