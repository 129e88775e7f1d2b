package input

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hassan/allium/internal/source"
)

type fakeS3 struct {
	s3iface.S3API
	objects map[string][]byte
	calls   int
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	f.calls++
	body, ok := f.objects[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "key does not exist", nil)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func gzipped(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func zstded(t *testing.T, text string) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll([]byte(text), nil)
}

func readAll(t *testing.T, o *Opener, name string) string {
	t.Helper()
	rc, err := o.Open(context.Background(), name)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestOpen_LocalAndCompressed(t *testing.T) {
	const text = "fn main() { 42 }\n"
	o := &Opener{}

	assert.Equal(t, text, readAll(t, o, writeFile(t, "plain.al", []byte(text))))
	assert.Equal(t, text, readAll(t, o, writeFile(t, "packed.al.gz", gzipped(t, text))))
	assert.Equal(t, text, readAll(t, o, writeFile(t, "packed.al.zst", zstded(t, text))))

	_, err := o.Open(context.Background(), writeFile(t, "broken.al.gz", []byte("not gzip")))
	assert.Error(t, err)

	_, err = o.Open(context.Background(), filepath.Join(t.TempDir(), "missing.al"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen_Stdin(t *testing.T) {
	o := &Opener{Stdin: strings.NewReader("from stdin")}
	assert.Equal(t, "from stdin", readAll(t, o, Stdin))
}

func TestOpen_S3(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{
		"code/src/main.al":    []byte("let x = 1"),
		"code/src/big.al.zst": zstded(t, "let y = 2"),
	}}
	o := &Opener{S3: fake}

	assert.Equal(t, "let x = 1", readAll(t, o, "s3://code/src/main.al"))
	assert.Equal(t, "let y = 2", readAll(t, o, "s3://code/src/big.al.zst"))
	assert.Equal(t, 2, fake.calls)

	_, err := o.Open(context.Background(), "s3://code/nope.al")
	var aerr awserr.Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, s3.ErrCodeNoSuchKey, aerr.Code())
}

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		name        string
		bucket, key string
		wantErr     bool
	}{
		{"s3://bucket/a/b.al", "bucket", "a/b.al", false},
		{"s3://bucket/", "", "", true},
		{"s3:///key", "", "", true},
		{"http://bucket/key", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, key, err := ParseS3URL(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadS3URL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestSource_Strategies(t *testing.T) {
	const text = "héllo wörld"
	p := writeFile(t, "s.al", []byte(text))
	o := &Opener{}

	for _, strategy := range []Strategy{Cached, Memory, Seek} {
		t.Run(strategy.String(), func(t *testing.T) {
			f, closer, err := o.Source(context.Background(), p, strategy)
			require.NoError(t, err)
			defer closer.Close()

			start, err := f.Start()
			require.NoError(t, err)
			end, err := f.End()
			require.NoError(t, err)
			span, err := start.SpanTo(end)
			require.NoError(t, err)
			assert.Equal(t, text, span.String())
			assert.Equal(t, p, f.Path())
		})
	}
}

func TestSource_SeekRejectsStreams(t *testing.T) {
	o := &Opener{Stdin: strings.NewReader("x"), S3: &fakeS3{}}
	for _, name := range []string{Stdin, "s3://b/k", "file.al.gz"} {
		_, _, err := o.Source(context.Background(), name, Seek)
		assert.ErrorIs(t, err, ErrNotSeekable, name)
	}
}

func TestSource_StdinName(t *testing.T) {
	o := &Opener{Stdin: strings.NewReader("a")}
	f, closer, err := o.Source(context.Background(), Stdin, Cached)
	require.NoError(t, err)
	defer closer.Close()
	assert.Equal(t, "<stdin>", f.Path())

	c, err := f.Start()
	require.NoError(t, err)
	_, err = c.Next()
	assert.ErrorIs(t, err, source.ErrEOF)
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []Strategy{Cached, Memory, Seek} {
		got, err := ParseStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStrategy("mmap")
	assert.Error(t, err)
}
