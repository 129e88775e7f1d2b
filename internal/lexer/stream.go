package lexer

import (
	"iter"

	"github.com/hassan/allium/internal/source"
)

// Stream is the ordered atom sequence of one file. Every traversal starts a
// fresh Scanner at the beginning of the file, so a Stream can be walked any
// number of times; decoded input is shared through the File.
type Stream struct {
	file *source.File
	opts []Option
}

// NewStream returns the atom sequence of f. The options are applied to each
// Scanner the stream creates.
func NewStream(f *source.File, opts ...Option) *Stream {
	return &Stream{file: f, opts: opts}
}

// All yields every atom, breaks included, up to but excluding AtomEOF. The
// first error is yielded with its AtomInvalid and ends the sequence.
func (st *Stream) All() iter.Seq2[Atom, error] {
	return func(yield func(Atom, error) bool) {
		s := New(st.file, st.opts...)
		for {
			a, err := s.NextAtom()
			if err != nil {
				yield(a, err)
				return
			}
			if a.Kind == AtomEOF || !yield(a, nil) {
				return
			}
		}
	}
}

// Structural is All without whitespace and comments.
func (st *Stream) Structural() iter.Seq2[Atom, error] {
	return func(yield func(Atom, error) bool) {
		for a, err := range st.All() {
			if err == nil && a.Kind.IsBreak() {
				continue
			}
			if !yield(a, err) {
				return
			}
		}
	}
}

// Collect gathers All into a slice. On error it returns the atoms read so
// far.
func (st *Stream) Collect() ([]Atom, error) {
	var atoms []Atom
	for a, err := range st.All() {
		if err != nil {
			return atoms, err
		}
		atoms = append(atoms, a)
	}
	return atoms, nil
}
