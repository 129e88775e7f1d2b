// Package source turns a byte stream into a randomly addressable sequence of
// Unicode scalar values. Bytes are pulled lazily from a Backing, decoded as
// UTF-8 on demand, and exposed through immutable Cursor and Span values.
package source

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"fortio.org/safecast"
)

// ChunkSize is the number of bytes a CachedReader pulls from its stream per read.
const ChunkSize = 4096

// maxEmptyReads bounds how many (0, nil) reads a stream may return in a row,
// the same guard bufio uses.
const maxEmptyReads = 100

// ErrNotResident is returned by ByteAt for an offset that has not been
// pulled from the stream yet. Call Ensure to find out whether it ever will be.
var ErrNotResident = errors.New("byte not yet resident")

// Backing is the byte store a File decodes from.
//
// Implementations must be safe for concurrent use and must never mutate or
// drop a byte once Ensure has reported it resident.
type Backing interface {
	// Ensure reports whether at least n bytes are resident, reading more
	// from the underlying stream if needed.
	Ensure(n int) (bool, error)

	// ByteAt returns the byte at offset i, or ErrNotResident.
	ByteAt(i int) (byte, error)

	// Len returns the number of bytes currently resident.
	Len() int
}

// CachedReader is the default Backing. It grows an append-only buffer from an
// io.Reader in ChunkSize pieces, so any prefix can be re-traversed without
// touching the stream again.
//
// READING: Ensure(n) reads whole chunks until n bytes are resident or the
// stream ends. A short read is kept and reading continues; a reader that
// returns no bytes and no error too many times in a row fails with
// io.ErrNoProgress.
//
// CONCURRENCY: ByteAt and Len take the read lock. Ensure first checks under
// the read lock and only takes the write lock when it has to read.
type CachedReader struct {
	// mu guards buf, done and err. Stream reads happen while holding it,
	// so only one caller touches r at a time.
	mu sync.RWMutex

	// r is the underlying stream. It is read forward only and never closed
	// by the CachedReader.
	r io.Reader

	// buf holds every byte read so far. It only grows; a byte at index i
	// never changes once it is there.
	buf []byte

	// done is set once r has returned io.EOF.
	done bool

	// err is the first error from r other than io.EOF, returned by every
	// later Ensure that needs more bytes.
	err error
}

// NewCachedReader wraps r. Nothing is read until the first Ensure.
func NewCachedReader(r io.Reader) *CachedReader {
	return &CachedReader{r: r}
}

// Ensure implements Backing.
//
// I/O failures are returned verbatim and remembered: later calls that need
// more bytes get the same error without reading again.
func (c *CachedReader) Ensure(n int) (bool, error) {
	c.mu.RLock()
	if n <= len(c.buf) {
		c.mu.RUnlock()
		return true, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	empty := 0
	for len(c.buf) < n && !c.done {
		if c.err != nil {
			return false, c.err
		}
		if cap(c.buf)-len(c.buf) < ChunkSize {
			grown := make([]byte, len(c.buf), 2*cap(c.buf)+ChunkSize)
			copy(grown, c.buf)
			c.buf = grown
		}
		read, err := c.r.Read(c.buf[len(c.buf) : len(c.buf)+ChunkSize])
		c.buf = c.buf[:len(c.buf)+read]

		switch {
		case errors.Is(err, io.EOF):
			c.done = true
		case err != nil:
			c.err = err
			return len(c.buf) >= n, err
		case read == 0:
			empty++
			if empty >= maxEmptyReads {
				c.err = io.ErrNoProgress
				return false, c.err
			}
		default:
			empty = 0
		}
	}
	return len(c.buf) >= n, nil
}

// ByteAt implements Backing.
func (c *CachedReader) ByteAt(i int) (byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.buf) {
		return 0, ErrNotResident
	}
	return c.buf[i], nil
}

// Len implements Backing.
func (c *CachedReader) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.buf)
}

// Exhausted reports whether the stream has signalled end of input.
func (c *CachedReader) Exhausted() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.done
}

// Memory is a Backing over a byte slice that is fully resident from the start.
type Memory []byte

// Ensure implements Backing.
func (m Memory) Ensure(n int) (bool, error) { return n <= len(m), nil }

// ByteAt implements Backing.
func (m Memory) ByteAt(i int) (byte, error) {
	if i < 0 || i >= len(m) {
		return 0, ErrNotResident
	}
	return m[i], nil
}

// Len implements Backing.
func (m Memory) Len() int { return len(m) }

// ReadSeeker is a Backing that caches nothing: every ByteAt seeks the
// underlying stream and reads one byte. It is only suitable for sources that
// are cheap to seek, such as local files.
type ReadSeeker struct {
	mu   sync.Mutex
	rs   io.ReadSeeker
	size int
	err  error
}

// NewReadSeeker wraps rs and measures its size once.
func NewReadSeeker(rs io.ReadSeeker) (*ReadSeeker, error) {
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	size, err := safecast.Conv[int](end)
	if err != nil {
		return nil, fmt.Errorf("stream size %d: %w", end, err)
	}
	return &ReadSeeker{rs: rs, size: size}, nil
}

// Ensure implements Backing. All bytes up to the measured size count as
// resident because they can be fetched on demand.
func (r *ReadSeeker) Ensure(n int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	return n <= r.size, nil
}

// ByteAt implements Backing.
func (r *ReadSeeker) ByteAt(i int) (byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= r.size {
		return 0, ErrNotResident
	}
	if r.err != nil {
		return 0, r.err
	}
	off, err := safecast.Conv[int64](i)
	if err != nil {
		return 0, err
	}
	if _, err := r.rs.Seek(off, io.SeekStart); err != nil {
		r.err = err
		return 0, err
	}
	var one [1]byte
	if _, err := io.ReadFull(r.rs, one[:]); err != nil {
		r.err = err
		return 0, err
	}
	return one[0], nil
}

// Len implements Backing.
func (r *ReadSeeker) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}
