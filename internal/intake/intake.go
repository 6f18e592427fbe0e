// Package intake accepts résumé uploads: it checks the file type, enforces
// the size limit while streaming, names the file and hands it to a storage
// backend.
package intake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/virajo/backoffice/internal/storage"
	"github.com/virajo/backoffice/pkg/logger"
	"github.com/virajo/backoffice/pkg/metrics"
)

var (
	ErrUnsupportedType = errors.New("only .pdf, .doc and .docx files are allowed")
	ErrTooLarge        = errors.New("file exceeds the upload size limit")
)

// PublicPrefix is the URL and record path under which stored files are served.
const PublicPrefix = "uploads/resumes/"

const DefaultMaxBytes int64 = 5 * 1024 * 1024

var allowed = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Stored describes a file accepted by Store.
type Stored struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Intake accepts résumé uploads into a Storage backend.
type Intake struct {
	storage  storage.Storage
	maxBytes int64
	field    string
	nowFun   func() time.Time
}

// New returns an Intake writing to s. A non-positive maxBytes means DefaultMaxBytes.
func New(s storage.Storage, maxBytes int64) *Intake {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Intake{storage: s, maxBytes: maxBytes, field: "resume", nowFun: time.Now}
}

// MaxBytes is the largest file Store accepts.
func (in *Intake) MaxBytes() int64 { return in.maxBytes }

// Store validates and saves r. The declared MIME type is informational; the
// extension of originalName decides whether the file is accepted.
func (in *Intake) Store(ctx context.Context, r io.Reader, declaredMIME, originalName string) (*Stored, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	contentType, ok := allowed[ext]
	if !ok {
		metrics.UploadsRejected.WithLabelValues("unsupported_type").Inc()
		return nil, ErrUnsupportedType
	}
	if declaredMIME != "" && !strings.EqualFold(declaredMIME, contentType) {
		logger.Debugf("intake: %q declared as %s, expected %s", originalName, declaredMIME, contentType)
	}

	name := in.fileName(ext)
	n, err := in.storage.Put(ctx, name, &limitReader{r: r, remaining: in.maxBytes}, contentType)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			metrics.UploadsRejected.WithLabelValues("too_large").Inc()
			return nil, ErrTooLarge
		}
		return nil, fmt.Errorf("store upload: %w", err)
	}
	return &Stored{Path: PublicPrefix + name, Name: name, Size: n}, nil
}

// Release deletes a stored file. Failures are logged and swallowed.
func (in *Intake) Release(ctx context.Context, p string) {
	if p == "" {
		return
	}
	name := path.Base(filepath.ToSlash(p))
	if err := in.storage.Remove(ctx, name); err != nil {
		logger.Warnf("intake: release %s: %v", p, err)
	}
}

// Open returns the stored file called name.
func (in *Intake) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return in.storage.Open(ctx, name)
}

// ContentType returns the MIME type served for name.
func ContentType(name string) string {
	if ct, ok := allowed[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

func (in *Intake) fileName(ext string) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s-%d-%s%s", in.field, in.nowFun().UnixMilli(), suffix, ext)
}

// limitReader fails with ErrTooLarge as soon as more than remaining bytes
// have been read, without buffering the rest of the upload.
type limitReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrTooLarge
	}
	return n, err
}
