package lexer

import (
	"errors"
	"fmt"

	"github.com/hassan/allium/internal/source"
)

var (
	// ErrMalformed is wrapped by every *MalformedError.
	ErrMalformed = errors.New("malformed atom")

	// ErrNoAtom is wrapped by every *NoAtomError.
	ErrNoAtom = errors.New("no atom could be parsed")
)

// MalformedError reports input that a recognizer claimed but could not
// accept. Scanning may continue after Recover.
type MalformedError struct {
	At      source.Cursor
	Message string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: %s", where(e.At), e.Message)
}

func (e *MalformedError) Unwrap() error { return ErrMalformed }

// NoAtomError reports a scalar that no recognizer claims.
type NoAtomError struct {
	At source.Cursor
}

func (e *NoAtomError) Error() string {
	return fmt.Sprintf("%s: unexpected character %q", where(e.At), e.At.Char())
}

func (e *NoAtomError) Unwrap() error { return ErrNoAtom }

// where formats a cursor as file:line:col with 1-based line and column.
func where(c source.Cursor) string {
	if c.IsZero() {
		return "<unknown>"
	}
	line, col, err := c.Location()
	if err != nil {
		return c.String()
	}
	return fmt.Sprintf("%s:%d:%d", c.File().Path(), line+1, col+1)
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithMunchers replaces the default recognizers. They run in the given
// order.
func WithMunchers(m ...Muncher) Option {
	return func(s *Scanner) {
		s.munch = Dispatch(m)
	}
}

// Scanner produces atoms from a source.File one at a time.
//
// RESPONSIBILITIES:
// 1. Walk the file from its first scalar, asking the recognizers for an atom
// 2. Advance past every atom it hands out, breaks included
// 3. Stop at a recoverable problem until the caller decides what to do
// 4. Remember fatal I/O and encoding errors
//
// The Scanner does NOT:
// - Filter whitespace or comments (Stream.Structural does that)
// - Interpret literal bodies (numbers and strings stay as text)
// - Build any tree over the atoms
//
// NextAtom returns AtomEOF once the source is exhausted. On a recoverable
// problem it returns an AtomInvalid at the offending scalar together with a
// *MalformedError or *NoAtomError, and stays there until Recover is called.
// I/O and encoding errors are returned unchanged and end the scan.
//
// CONCURRENCY: A Scanner is not safe for concurrent use. Several Scanners
// may share one File, each with its own cursor.
type Scanner struct {
	// file is the source being scanned. It is shared, never copied.
	file *source.File

	// munch is the recognizer set, tried in priority order on every call.
	// Default() unless WithMunchers replaced it.
	munch Muncher

	// cur is the scalar the next atom starts at. It is the zero Cursor until
	// the first call and after the end of an empty file.
	cur source.Cursor

	// started is set by the first NextAtom, which decodes the first scalar.
	// New does no I/O.
	started bool

	// done is set once an atom reaching the last scalar has been returned.
	// Every later NextAtom yields AtomEOF.
	done bool

	// err is the first fatal error. Once set, NextAtom and Recover return it
	// on every call.
	err error
}

// New returns a Scanner positioned at the start of f.
func New(f *source.File, opts ...Option) *Scanner {
	s := &Scanner{file: f, munch: Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// File returns the source being scanned.
func (s *Scanner) File() *source.File { return s.file }

// start positions the scanner at the first scalar of the file on first use.
func (s *Scanner) start() error {
	if s.started {
		return nil
	}
	s.started = true
	c, err := s.file.Start()
	switch {
	case errors.Is(err, source.ErrEOF):
		s.done = true
	case err != nil:
		s.err = err
		return err
	default:
		s.cur = c
	}
	return nil
}

// NextAtom returns the next atom in the source.
func (s *Scanner) NextAtom() (Atom, error) {
	if err := s.start(); err != nil {
		return Atom{Kind: AtomInvalid}, err
	}
	if s.err != nil {
		return s.invalid(), s.err
	}
	if s.done {
		return Atom{Kind: AtomEOF}, nil
	}

	m, err := s.munch.Munch(s.cur)
	if err != nil {
		s.err = err
		return s.invalid(), err
	}

	switch m.Outcome {
	case Matched:
		if m.AtEnd {
			s.done = true
		} else {
			s.cur = m.Next
		}
		return m.Atom, nil
	case Malformed:
		return s.invalid(), &MalformedError{At: s.cur, Message: m.Message}
	default:
		return s.invalid(), &NoAtomError{At: s.cur}
	}
}

func (s *Scanner) invalid() Atom {
	if s.cur.IsZero() {
		return Atom{Kind: AtomInvalid}
	}
	return Atom{Kind: AtomInvalid, Span: s.cur.AsSpan()}
}

// Recover skips the scalar the scanner is stuck on so scanning can resume
// after a *MalformedError or *NoAtomError. It has no effect after a fatal
// error or at the end of the source.
func (s *Scanner) Recover() error {
	if s.err != nil {
		return s.err
	}
	if !s.started || s.done {
		return nil
	}
	next, err := s.cur.Next()
	switch {
	case errors.Is(err, source.ErrEOF):
		s.done = true
	case err != nil:
		s.err = err
		return err
	default:
		s.cur = next
	}
	return nil
}

// Reset moves the scanner to c, clearing any recorded error. A zero cursor
// rewinds to the start of the current file.
func (s *Scanner) Reset(c source.Cursor) {
	s.err = nil
	s.done = false
	if c.IsZero() {
		s.started = false
		s.cur = source.Cursor{}
		return
	}
	s.file = c.File()
	s.cur = c
	s.started = true
}

// Pos returns the cursor the next atom will start at. It is zero before the
// first call to NextAtom and once the source is exhausted.
func (s *Scanner) Pos() source.Cursor {
	if s.done {
		return source.Cursor{}
	}
	return s.cur
}
