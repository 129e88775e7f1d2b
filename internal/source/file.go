package source

import (
	"fmt"
	"io"
	"math"
	"sync"
)

// scalar is one decoded position: where it starts in the byte stream and
// the value found there.
type scalar struct {
	off int
	ch  rune
}

// File exposes a Backing as a sequence of scalar values.
//
// Decoding is lazy and append-only. The first decode checks for a byte order
// mark and hides it, so scalar offset 0 is always the first real character.
//
// POSITIONS: Every position handed out by a File (Cursor.Pos, Span.Len,
// line starts) counts scalars, not bytes. ByteOffset maps a scalar back to
// the byte where its encoding starts.
//
// CONCURRENCY: A File is safe for concurrent use by any number of cursors.
// Readers of already decoded scalars take the read lock only. Decoding
// further takes the write lock and appends; nothing decoded is ever changed.
type File struct {
	// path names the source in positions and diagnostics. It is never opened.
	path string

	// data holds the raw bytes. The File pulls them through Ensure as
	// decoding moves forward.
	data Backing

	// mu guards everything below.
	mu sync.RWMutex

	// scalars is the decoded prefix of the source: entry i is scalar i,
	// together with its byte offset.
	scalars []scalar

	// lines records the scalar offset of every line start seen so far.
	// A line starts at scalar 0 and after each '\n'.
	lines LineIndex

	// next is the byte offset of the first undecoded byte.
	next int

	// started is set once the byte order mark check has run.
	started bool

	// done is set when the backing has no bytes left after next.
	done bool

	// err is the first decode or I/O error. Once set, decoding further
	// returns it without touching the backing.
	err error
}

// New creates a File named path over b.
func New(path string, b Backing) *File {
	return &File{path: path, data: b}
}

// Open wraps a stream in the default caching backing.
func Open(path string, r io.Reader) *File {
	return New(path, NewCachedReader(r))
}

// FromString creates an in-memory File, mostly for tests and interactive use.
func FromString(path, text string) *File {
	return New(path, Memory(text))
}

// Path returns the name the File was created with.
func (f *File) Path() string { return f.path }

func (f *File) String() string { return f.path }

// Len returns the number of scalars decoded so far. More may follow.
func (f *File) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.scalars)
}

// Complete reports whether the whole stream has been decoded.
func (f *File) Complete() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.done
}

// materialize decodes forward until scalar i is known or the stream ends,
// and reports whether i is known.
func (f *File) materialize(i int) (bool, error) {
	f.mu.RLock()
	if i < len(f.scalars) {
		f.mu.RUnlock()
		return true, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.scalars) <= i {
		if f.err != nil {
			return false, f.err
		}
		if f.done {
			return false, nil
		}
		if err := f.decodeNext(); err != nil {
			f.err = err
			return false, err
		}
	}
	return true, nil
}

// decodeNext appends one scalar. Callers hold mu for writing.
func (f *File) decodeNext() error {
	ok, err := f.data.Ensure(f.next + 1)
	if err != nil {
		return err
	}
	if !ok {
		f.done = true
		return nil
	}

	r, width, err := DecodeAt(f.data, f.next)
	if err != nil {
		return err
	}
	if !f.started {
		f.started = true
		if r == BOM {
			f.next += width
			return nil
		}
	}

	pos := len(f.scalars)
	if pos == 0 || f.scalars[pos-1].ch == '\n' {
		f.lines.Add(pos)
	}
	f.scalars = append(f.scalars, scalar{off: f.next, ch: r})
	f.next += width
	return nil
}

// charAt returns the value of an already decoded scalar.
func (f *File) charAt(i int) rune {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.scalars[i].ch
}

// ByteOffset returns where scalar i starts in the underlying byte stream.
func (f *File) ByteOffset(i int) (int, error) {
	if _, err := f.Cursor(i); err != nil {
		return 0, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.scalars[i].off, nil
}

// matchAt compares pattern against the scalars starting at i. available is
// false when the source ends before the whole window.
func (f *File) matchAt(i int, pattern []rune) (matched, available bool, err error) {
	ok, err := f.materialize(i + len(pattern) - 1)
	if err != nil || !ok {
		return false, false, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for k, r := range pattern {
		if f.scalars[i+k].ch != r {
			return false, true, nil
		}
	}
	return true, true, nil
}

// Cursor returns a cursor at scalar offset i, decoding as far as needed.
func (f *File) Cursor(i int) (Cursor, error) {
	if i < 0 {
		return Cursor{}, &PositionError{Path: f.path, Pos: i, Len: f.Len()}
	}
	ok, err := f.materialize(i)
	if err != nil {
		return Cursor{}, err
	}
	if !ok {
		return Cursor{}, &PositionError{Path: f.path, Pos: i, Len: f.Len()}
	}
	return Cursor{file: f, pos: i, ch: f.charAt(i)}, nil
}

// Start returns a cursor at the first scalar after any byte order mark.
func (f *File) Start() (Cursor, error) {
	ok, err := f.materialize(0)
	if err != nil {
		return Cursor{}, err
	}
	if !ok {
		return Cursor{}, fmt.Errorf("%s is empty: %w", f.path, ErrEOF)
	}
	return Cursor{file: f, pos: 0, ch: f.charAt(0)}, nil
}

// End decodes the rest of the stream and returns a cursor at its last scalar.
func (f *File) End() (Cursor, error) {
	if _, err := f.materialize(math.MaxInt - 1); err != nil {
		return Cursor{}, err
	}
	n := f.Len()
	if n == 0 {
		return Cursor{}, fmt.Errorf("%s is empty: %w", f.path, ErrEOF)
	}
	return Cursor{file: f, pos: n - 1, ch: f.charAt(n - 1)}, nil
}

// Span returns the span covering scalars start through end inclusive.
func (f *File) Span(start, end int) (Span, error) {
	if end < start {
		return Span{}, fmt.Errorf("span %d..%d: %w", start, end, ErrReversedSpan)
	}
	last, err := f.Cursor(end)
	if err != nil {
		return Span{}, err
	}
	first, err := f.Cursor(start)
	if err != nil {
		return Span{}, err
	}
	return Span{start: first, end: last}, nil
}

// LineOf returns the 0-based line holding scalar i.
func (f *File) LineOf(i int) (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	k, err := f.lines.Lookup(i, len(f.scalars))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", f.path, err)
	}
	return k, nil
}

// LineCount returns the number of lines known so far.
func (f *File) LineCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lines.Len()
}

// lineStart decodes until line k is known and returns its first offset.
func (f *File) lineStart(k int) (int, bool, error) {
	for {
		f.mu.RLock()
		start, ok := f.lines.Start(k)
		known := len(f.scalars)
		f.mu.RUnlock()
		if ok {
			return start, true, nil
		}
		more, err := f.materialize(known)
		if err != nil || !more {
			return 0, false, err
		}
	}
}

// Line returns the span of line k, including its terminating line feed when
// there is one.
func (f *File) Line(k int) (Span, error) {
	start, ok, err := f.lineStart(k)
	if err != nil {
		return Span{}, err
	}
	if !ok {
		return Span{}, fmt.Errorf("%s has no line %d: %w", f.path, k+1, ErrEOF)
	}
	c, err := f.Cursor(start)
	if err != nil {
		return Span{}, err
	}
	if c.Char() == '\n' {
		return c.AsSpan(), nil
	}
	return c.AsSpan().GrowUntil("\n", false, true)
}
