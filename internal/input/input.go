// Package input resolves command-line names to byte streams and wraps them
// in source files.
//
// A name is "-" for standard input, an s3://bucket/key URL, or a local path.
// Names ending in .gz or .zst are decompressed on the fly.
package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/hassan/allium/internal/source"
)

// Stdin is the name that selects standard input.
const Stdin = "-"

var (
	// ErrNotSeekable is returned when the seek strategy is asked for a stream
	// that cannot seek: stdin, S3 objects and compressed files.
	ErrNotSeekable = errors.New("input does not support seeking")

	// ErrBadS3URL is returned for s3:// names without a bucket or key.
	ErrBadS3URL = errors.New("s3 URL must have the form s3://bucket/key")
)

// Strategy selects the source.Backing used for an input.
type Strategy int

const (
	// Cached reads the stream lazily and keeps what it has read.
	Cached Strategy = iota
	// Memory reads the whole stream up front.
	Memory
	// Seek re-reads bytes from a seekable file on demand.
	Seek
)

func (s Strategy) String() string {
	switch s {
	case Memory:
		return "memory"
	case Seek:
		return "seek"
	default:
		return "cached"
	}
}

// ParseStrategy accepts the names produced by Strategy.String.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "", "cached":
		return Cached, nil
	case "memory":
		return Memory, nil
	case "seek":
		return Seek, nil
	}
	return Cached, fmt.Errorf("unknown backing %q: want cached, memory or seek", s)
}

// Opener opens named inputs. The zero value reads stdin from os.Stdin and
// creates an S3 client from the default AWS configuration on first use.
type Opener struct {
	// S3 serves s3:// names.
	S3 s3iface.S3API

	// Stdin serves the name "-".
	Stdin io.Reader

	once   sync.Once
	s3err  error
	client s3iface.S3API
}

func (o *Opener) s3Client() (s3iface.S3API, error) {
	o.once.Do(func() {
		if o.S3 != nil {
			o.client = o.S3
			return
		}
		sess, err := session.NewSessionWithOptions(session.Options{
			SharedConfigState: session.SharedConfigEnable,
		})
		if err != nil {
			o.s3err = fmt.Errorf("creating AWS session: %w", err)
			return
		}
		o.client = s3.New(sess)
	})
	return o.client, o.s3err
}

// Open returns the decompressed byte stream for name. The caller closes it.
func (o *Opener) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	raw, err := o.openRaw(ctx, name)
	if err != nil {
		return nil, err
	}
	rc, err := decompress(name, raw)
	if err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return rc, nil
}

func (o *Opener) openRaw(ctx context.Context, name string) (io.ReadCloser, error) {
	switch {
	case name == Stdin:
		r := o.Stdin
		if r == nil {
			r = os.Stdin
		}
		return io.NopCloser(r), nil
	case strings.HasPrefix(name, "s3://"):
		return o.openS3(ctx, name)
	default:
		return os.Open(name)
	}
}

func (o *Opener) openS3(ctx context.Context, name string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3URL(name)
	if err != nil {
		return nil, err
	}
	client, err := o.s3Client()
	if err != nil {
		return nil, err
	}
	out, err := client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", name, err)
	}
	return out.Body, nil
}

// ParseS3URL splits s3://bucket/key into its bucket and key.
func ParseS3URL(name string) (bucket, key string, err error) {
	u, err := url.Parse(name)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", name, err)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || u.Host == "" || key == "" {
		return "", "", fmt.Errorf("%s: %w", name, ErrBadS3URL)
	}
	return u.Host, key, nil
}

// compression returns the compression suffix of name, if any.
func compression(name string) string {
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case ".gz", ".zst", ".zstd":
		return ext
	}
	return ""
}

func decompress(name string, raw io.ReadCloser) (io.ReadCloser, error) {
	switch compression(name) {
	case ".gz":
		zr, err := gzip.NewReader(raw)
		if err != nil {
			return nil, err
		}
		return &stacked{Reader: zr, closers: []io.Closer{zr, raw}}, nil
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(raw)
		if err != nil {
			return nil, err
		}
		return &stacked{Reader: zr, closers: []io.Closer{zr.IOReadCloser(), raw}}, nil
	}
	return raw, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// stacked is a decompressing reader that closes its layers innermost last.
type stacked struct {
	io.Reader
	closers []io.Closer
}

func (s *stacked) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Source opens name and wraps it in a source.File using strategy. The
// returned closer releases the underlying stream once scanning is done; with
// Cached it must stay open while the file is still being read.
func (o *Opener) Source(ctx context.Context, name string, strategy Strategy) (*source.File, io.Closer, error) {
	display := name
	if name == Stdin {
		display = "<stdin>"
	}

	if strategy == Seek {
		if name == Stdin || strings.HasPrefix(name, "s3://") || compression(name) != "" {
			return nil, nil, fmt.Errorf("%s: %w", name, ErrNotSeekable)
		}
		f, err := os.Open(name)
		if err != nil {
			return nil, nil, err
		}
		rs, err := source.NewReadSeeker(f)
		if err != nil {
			_ = f.Close()
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
		return source.New(display, rs), f, nil
	}

	rc, err := o.Open(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	if strategy == Memory {
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", name, err)
		}
		return source.New(display, source.Memory(data)), nopCloser{}, nil
	}
	return source.Open(display, rc), rc, nil
}
