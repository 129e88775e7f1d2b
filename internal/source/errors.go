package source

import (
	"errors"
	"fmt"
)

// ErrEOF signals that a cursor would move past the last scalar of a source.
var ErrEOF = errors.New("reached the end of the source")

// Positional and range errors. These are contract violations by the caller,
// not bad input data.
var (
	ErrInvalidPosition        = errors.New("invalid position")
	ErrSpanMismatch           = errors.New("cursors belong to different sources")
	ErrReversedSpan           = errors.New("span end precedes its start")
	ErrZeroLengthSpan         = errors.New("cannot create a zero length span")
	ErrNegativeLengthSpan     = errors.New("cannot create a negative length span")
	ErrDiscontinuousSpans     = errors.New("cannot merge spans that neither overlap nor touch")
	ErrSeekOverflow           = errors.New("seek would overflow the position")
	ErrZeroLengthMatch        = errors.New("cannot match a zero length pattern")
	ErrBlockPatternLength     = errors.New("block open and close patterns differ in length")
	ErrBlockPatternEquivalent = errors.New("block open and close patterns are identical")
	ErrBadBlockMatch          = errors.New("span does not match the block open pattern")
)

// ErrUnterminated signals that a scan reached the end of the source before
// its closing pattern. Scanners report it as malformed input.
var ErrUnterminated = errors.New("reached the end of the source before the closing pattern")

// PositionError reports a scalar offset outside the known source.
type PositionError struct {
	Path string
	Pos  int
	Len  int // scalars known when the error was raised
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("invalid position %d for %s of length %d", e.Pos, e.Path, e.Len)
}

func (e *PositionError) Unwrap() error { return ErrInvalidPosition }

// MismatchError reports an operation across two different sources.
type MismatchError struct {
	A, B string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("cannot relate %s and %s: %v", e.A, e.B, ErrSpanMismatch)
}

func (e *MismatchError) Unwrap() error { return ErrSpanMismatch }

// BlockError reports a block scan that ran out of input while still nested.
type BlockError struct {
	Open, Close string
	Depth       int
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("unbalanced %s ... %s block: depth %d at end of source", e.Open, e.Close, e.Depth)
}

func (e *BlockError) Unwrap() error { return ErrUnterminated }
