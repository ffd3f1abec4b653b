// upload.go
// ----------
// Upload sources: the inputs accepted by Add and Update. A source knows its
// size (for the framing decision), whether it can be reopened (for
// retries), and how to produce a fresh reader for one attempt.
package cognee

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// uploadFieldName is the multipart field the server expects data under.
const uploadFieldName = "data"

// UploadSource is one item of data to upload.
type UploadSource interface {
	// Name is the file name used in the multipart part.
	Name() string
	// ContentType is the MIME type of the part.
	ContentType() string
	// Size is the payload size in bytes, 0 when unknown.
	Size() int64
	// Open returns a fresh reader positioned at the start of the data.
	Open() (io.ReadCloser, error)
	// Rewindable reports whether Open may be called more than once. A
	// non-rewindable source that already produced its reader makes a retry
	// fail fast instead of resending a partial stream.
	Rewindable() bool
}

// TextSource uploads a plain string.
func TextSource(text string) UploadSource {
	return &bytesSource{name: "data.txt", contentType: "text/plain", data: []byte(text)}
}

// BytesSource uploads an in-memory byte slice.
func BytesSource(data []byte) UploadSource {
	return &bytesSource{name: "data.bin", contentType: "application/octet-stream", data: data}
}

type bytesSource struct {
	name        string
	contentType string
	data        []byte
}

func (s *bytesSource) Name() string        { return s.name }
func (s *bytesSource) ContentType() string { return s.contentType }
func (s *bytesSource) Size() int64         { return int64(len(s.data)) }
func (s *bytesSource) Rewindable() bool    { return true }

func (s *bytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

// FileSource uploads a file by path. The file is opened per attempt, so
// retries always restart from the beginning. "file://" prefixes are
// accepted and stripped.
func FileSource(path string) (UploadSource, error) {
	path = strings.TrimPrefix(path, "file://")
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &fileSource{path: path, size: info.Size(), contentType: ct}, nil
}

type fileSource struct {
	path        string
	size        int64
	contentType string
}

func (s *fileSource) Name() string        { return filepath.Base(s.path) }
func (s *fileSource) ContentType() string { return s.contentType }
func (s *fileSource) Size() int64         { return s.size }
func (s *fileSource) Rewindable() bool    { return true }

func (s *fileSource) Open() (io.ReadCloser, error) {
	return os.Open(s.path)
}

// ReaderSource uploads from an arbitrary reader. The size may be 0 when
// unknown, in which case the body is buffered. Reader sources cannot be
// reopened: a failed attempt cannot be retried.
func ReaderSource(name string, size int64, r io.Reader) UploadSource {
	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &readerSource{name: name, size: size, contentType: ct, r: r}
}

type readerSource struct {
	name        string
	size        int64
	contentType string
	r           io.Reader
	consumed    bool
}

func (s *readerSource) Name() string        { return s.name }
func (s *readerSource) ContentType() string { return s.contentType }
func (s *readerSource) Size() int64         { return s.size }
func (s *readerSource) Rewindable() bool    { return !s.consumed }

func (s *readerSource) Open() (io.ReadCloser, error) {
	if s.consumed {
		return nil, fmt.Errorf("reader source %s already consumed", s.name)
	}
	s.consumed = true
	return io.NopCloser(s.r), nil
}

// partHeader builds the MIME header for one upload part.
func partHeader(p UploadSource) textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadFieldName, p.Name()))
	h.Set("Content-Type", p.ContentType())
	return h
}
