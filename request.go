// request.go
// -----------
// Request descriptors: the normalized form of one logical API call that the
// pipeline executes. A descriptor is immutable once built; every attempt
// frames a fresh body from it, so a retry never resends a half-consumed
// stream.
package cognee

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
)

// requestDescriptor is the normalized form of one API call.
type requestDescriptor struct {
	method  string
	path    string
	query   url.Values
	headers map[string]string

	// jsonBody is the serialized JSON payload, nil when the call has no
	// body or uses multipart framing.
	jsonBody []byte

	// form and parts describe a multipart/form-data body. Multipart bodies
	// are never compressed and carry no explicit content type; the boundary
	// is negotiated by mime/multipart.
	form  map[string]string
	parts []UploadSource

	// cacheable marks idempotent read-like calls eligible for the response
	// cache.
	cacheable bool
}

func (d *requestDescriptor) isMultipart() bool {
	return len(d.parts) > 0 || len(d.form) > 0
}

// bodySize is the payload size driving the framing decision: the summed
// part sizes for multipart bodies, the serialized length otherwise.
func (d *requestDescriptor) bodySize() int64 {
	if !d.isMultipart() {
		return int64(len(d.jsonBody))
	}
	var total int64
	for _, p := range d.parts {
		total += p.Size()
	}
	return total
}

// rewindable reports whether a fresh body can be framed for another
// attempt. JSON bodies always can; multipart bodies can only when every
// part source can be reopened.
func (d *requestDescriptor) rewindable() bool {
	for _, p := range d.parts {
		if !p.Rewindable() {
			return false
		}
	}
	return true
}

// framedBody is one attempt's wire body.
type framedBody struct {
	reader        io.ReadCloser
	contentType   string // empty for JSON bodies; headers are set by the pipeline
	contentLength int64  // -1 when unknown (streamed)
}

// frameMultipart builds the multipart body for one attempt. Buffered framing
// assembles the whole body in memory and reports its exact length; streamed
// framing writes parts through a pipe so large files never sit in memory.
func (d *requestDescriptor) frameMultipart(framing Framing) (*framedBody, error) {
	if framing == FramingBuffered {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		if err := d.writeMultipart(w); err != nil {
			return nil, err
		}
		return &framedBody{
			reader:        io.NopCloser(bytes.NewReader(buf.Bytes())),
			contentType:   w.FormDataContentType(),
			contentLength: int64(buf.Len()),
		}, nil
	}

	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)
	go func() {
		err := d.writeMultipart(w)
		pw.CloseWithError(err)
	}()
	return &framedBody{
		reader:        pr,
		contentType:   w.FormDataContentType(),
		contentLength: -1,
	}, nil
}

// writeMultipart writes form fields then file parts and closes the writer.
func (d *requestDescriptor) writeMultipart(w *multipart.Writer) error {
	for field, value := range d.form {
		if err := w.WriteField(field, value); err != nil {
			return fmt.Errorf("write form field %s: %w", field, err)
		}
	}
	for _, p := range d.parts {
		part, err := w.CreatePart(partHeader(p))
		if err != nil {
			return fmt.Errorf("create part %s: %w", p.Name(), err)
		}
		src, err := p.Open()
		if err != nil {
			return fmt.Errorf("open part %s: %w", p.Name(), err)
		}
		_, copyErr := io.Copy(part, src)
		closeErr := src.Close()
		if copyErr != nil {
			return fmt.Errorf("copy part %s: %w", p.Name(), copyErr)
		}
		if closeErr != nil {
			return fmt.Errorf("close part %s: %w", p.Name(), closeErr)
		}
	}
	return w.Close()
}
