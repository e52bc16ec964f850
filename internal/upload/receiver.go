package upload

import (
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultMimeType = "application/octet-stream"
	defaultEncoding = "7bit"
	storedFileMode  = 0o644
)

// Receiver reads a multipart body and stores at most one file part under fieldName.
type Receiver struct {
	fieldName    string
	policy       Policy
	maxFileSize  int64
	maxFieldSize int64
	now          func() time.Time
}

// NewReceiver creates a receiver for the given field. A limit of 0 disables it.
func NewReceiver(fieldName string, policy Policy, maxFileSize, maxFieldSize int64) *Receiver {
	return &Receiver{
		fieldName:    fieldName,
		policy:       policy,
		maxFileSize:  maxFileSize,
		maxFieldSize: maxFieldSize,
		now:          time.Now,
	}
}

// WithClock replaces the time source used for generated filenames.
func (r *Receiver) WithClock(now func() time.Time) *Receiver {
	r.now = now
	return r
}

// Receive consumes the request body.
//
// It returns (nil, nil) when no file part was sent, including requests that are
// not multipart at all. Failures are an Error (*ParserError or *FilterError);
// any other error comes from the filesystem. When an upload fails after a file
// was already stored, that file is removed again.
func (r *Receiver) Receive(req *http.Request) (*UploadedFile, error) {
	reader, err := req.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, &ParserError{Code: CodeMalformed, Err: err}
	}

	var received *UploadedFile
	fail := func(err error) (*UploadedFile, error) {
		if received != nil {
			_ = os.Remove(received.StoragePath)
		}
		return nil, err
	}

	for {
		// raw parts keep their Content-Transfer-Encoding header, decoding happens in partBody
		part, err := reader.NextRawPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(&ParserError{Code: CodeMalformed, Err: err})
		}

		if part.FileName() == "" {
			err = r.discardField(part)
			_ = part.Close()
			if err != nil {
				return fail(err)
			}
			continue
		}

		if part.FormName() != r.fieldName || received != nil {
			_ = part.Close()
			return fail(&ParserError{Code: CodeUnexpectedFile, Field: part.FormName()})
		}

		file, err := r.store(part)
		_ = part.Close()
		if err != nil {
			return fail(err)
		}
		received = file
	}

	return received, nil
}

func (r *Receiver) discardField(part *multipart.Part) error {
	body, _ := partBody(part)
	n, err := io.Copy(io.Discard, limitReader(body, r.maxFieldSize))
	if err != nil {
		return &ParserError{Code: CodeMalformed, Field: part.FormName(), Err: err}
	}
	if r.maxFieldSize > 0 && n > r.maxFieldSize {
		return &ParserError{Code: CodeFieldValue, Field: part.FormName()}
	}
	return nil
}

func (r *Receiver) store(part *multipart.Part) (*UploadedFile, error) {
	fieldName := part.FormName()
	mimeType := partMimeType(part.Header)

	if filterErr := r.policy.Filter(fieldName, mimeType); filterErr != nil {
		return nil, filterErr
	}

	receivedAt := r.now()
	dir := r.policy.Destination(fieldName, mimeType)
	name := r.policy.Filename(fieldName, mimeType, receivedAt)
	target := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, "."+name+".*.part")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	body, encoding := partBody(part)
	size, err := r.copyPart(tmp, body, fieldName)
	if err == nil {
		err = tmp.Chmod(storedFileMode)
	}
	if closeErr := tmp.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close %s: %w", tmpName, closeErr)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return nil, err
	}

	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return nil, fmt.Errorf("failed to move upload to %s: %w", target, err)
	}

	return &UploadedFile{
		FieldName:     fieldName,
		OriginalName:  part.FileName(),
		Encoding:      encoding,
		MimeType:      mimeType,
		Destination:   dir,
		GeneratedName: name,
		StoragePath:   target,
		Size:          size,
	}, nil
}

// copyPart writes body to dst, enforcing the file size limit.
// Read failures are parser errors, write failures are returned as-is.
func (r *Receiver) copyPart(dst io.Writer, body io.Reader, fieldName string) (int64, error) {
	src := &trackingReader{reader: body}

	n, err := io.Copy(dst, limitReader(src, r.maxFileSize))
	if err != nil {
		if src.err != nil {
			return n, &ParserError{Code: CodeMalformed, Field: fieldName, Err: src.err}
		}
		return n, fmt.Errorf("failed to write upload: %w", err)
	}
	if r.maxFileSize > 0 && n > r.maxFileSize {
		return n, &ParserError{Code: CodeFileSize, Field: fieldName}
	}
	return n, nil
}

// limitReader lets one byte past max through so that an oversized body can be detected.
// A max of 0, or one that leaves no room for that byte, reads everything.
func limitReader(r io.Reader, max int64) io.Reader {
	if max <= 0 || max == math.MaxInt64 {
		return r
	}
	return io.LimitReader(r, max+1)
}

// partBody returns the decoded body of a raw part and its transfer encoding.
func partBody(part *multipart.Part) (io.Reader, string) {
	encoding := strings.ToLower(strings.TrimSpace(part.Header.Get("Content-Transfer-Encoding")))
	switch encoding {
	case "":
		return part, defaultEncoding
	case "quoted-printable":
		return quotedprintable.NewReader(part), encoding
	default:
		return part, encoding
	}
}

// trackingReader remembers the last non-EOF read error.
type trackingReader struct {
	reader io.Reader
	err    error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.reader.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		t.err = err
	}
	return n, err
}

// partMimeType returns the lower-cased "type/subtype" declared for a part, without parameters.
func partMimeType(header textproto.MIMEHeader) string {
	raw := strings.TrimSpace(header.Get("Content-Type"))
	if raw == "" {
		return defaultMimeType
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		mediaType, _, _ = strings.Cut(raw, ";")
		mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	}
	return mediaType
}
