// Package storage handles uploaded file persistence behind a pluggable
// backend, with validation and naming applied uniformly in front of it.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"

	"github.com/google/uuid"
)

// Kind selects the validation rules applied to an upload.
type Kind string

const (
	KindImage    Kind = "image"
	KindMusic    Kind = "music"
	KindDocument Kind = "document"
)

var allowedExts = map[Kind][]string{
	KindImage:    {"jpg", "jpeg", "png", "gif", "webp"},
	KindMusic:    {"mp3", "wav", "flac", "aac", "ogg"},
	KindDocument: {"pdf", "doc", "docx", "txt", "zip", "rar"},
}

// errTooLarge is reported by maxReader when a stream outgrows its budget.
var errTooLarge = errors.New("stream exceeds size limit")

// Backend persists and removes named objects. Put must not leave partial
// objects behind when it returns an error.
type Backend interface {
	Put(ctx context.Context, subfolder, name string, r io.Reader, contentType string) error
	Delete(ctx context.Context, subfolder, name string) error
}

// Limits caps upload sizes in bytes per kind.
type Limits struct {
	Image    int64
	Music    int64
	Document int64
}

// SavedFile describes a stored upload.
type SavedFile struct {
	URL  string
	Name string
	Size int64
}

// Handler validates uploads, assigns collision-free names, and delegates the
// bytes to a backend. Served URLs always take the form
// /uploads/<subfolder>/<name>.
type Handler struct {
	backend Backend
	limits  Limits
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewHandler builds an upload handler around a backend.
func NewHandler(backend Backend, limits Limits, logger *slog.Logger, metrics *observability.Metrics) *Handler {
	return &Handler{backend: backend, limits: limits, logger: logger, metrics: metrics}
}

// Save validates and persists a multipart upload, returning the public URL,
// stored name, and streamed byte count. The size limit is enforced both on
// the declared size and incrementally while streaming, so a lying
// Content-Length cannot bypass it.
func (h *Handler) Save(ctx context.Context, fh *multipart.FileHeader, kind Kind, subfolder string) (*SavedFile, error) {
	ext, err := h.validateExt(fh.Filename, kind)
	if err != nil {
		h.rejected("type")
		return nil, err
	}

	max := h.maxSize(kind)
	if fh.Size > max {
		h.rejected("size")
		return nil, models.NewValidationError(fmt.Sprintf("file exceeds maximum size of %d bytes", max))
	}

	src, err := fh.Open()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer src.Close()

	name := fmt.Sprintf("%s_%d.%s", uuid.NewString(), time.Now().Unix(), ext)
	contentType := fh.Header.Get("Content-Type")

	mr := &maxReader{r: src, remaining: max}
	err = h.backend.Put(ctx, subfolder, name, mr, contentType)
	if errors.Is(err, errTooLarge) {
		h.rejected("size")
		return nil, models.NewValidationError(fmt.Sprintf("file exceeds maximum size of %d bytes", max))
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if h.metrics != nil {
		h.metrics.UploadsTotal.WithLabelValues(string(kind)).Inc()
	}
	return &SavedFile{
		URL:  fmt.Sprintf("/uploads/%s/%s", subfolder, name),
		Name: name,
		Size: max - mr.remaining,
	}, nil
}

// DeleteByURL removes the object a previously returned URL points at. The
// delete is best-effort: failures are logged and counted but never returned,
// because callers run it after their database state is already committed.
func (h *Handler) DeleteByURL(ctx context.Context, url string) {
	subfolder, name, ok := splitUploadURL(url)
	if !ok {
		h.deleteOutcome("skipped")
		return
	}
	if err := h.backend.Delete(ctx, subfolder, name); err != nil {
		h.deleteOutcome("error")
		h.logger.WarnContext(ctx, "failed to delete stored file",
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
		return
	}
	h.deleteOutcome("ok")
}

func (h *Handler) validateExt(filename string, kind Kind) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return "", models.NewValidationError("file has no extension")
	}
	for _, allowed := range allowedExts[kind] {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", models.NewValidationError(fmt.Sprintf("unsupported %s type: %s", kind, ext))
}

func (h *Handler) maxSize(kind Kind) int64 {
	switch kind {
	case KindImage:
		return h.limits.Image
	case KindMusic:
		return h.limits.Music
	default:
		return h.limits.Document
	}
}

func (h *Handler) rejected(reason string) {
	if h.metrics != nil {
		h.metrics.UploadsRejected.WithLabelValues(reason).Inc()
	}
}

func (h *Handler) deleteOutcome(outcome string) {
	if h.metrics != nil {
		h.metrics.StorageDeletes.WithLabelValues(outcome).Inc()
	}
}

// splitUploadURL extracts subfolder and object name from /uploads/<sub>/<name>.
func splitUploadURL(url string) (string, string, bool) {
	cleaned := path.Clean(strings.TrimPrefix(url, "/"))
	parts := strings.Split(cleaned, "/")
	if len(parts) != 3 || parts[0] != "uploads" || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// maxReader fails the read once more than remaining bytes have been consumed.
type maxReader struct {
	r         io.Reader
	remaining int64
}

func (m *maxReader) Read(p []byte) (int, error) {
	if m.remaining < 0 {
		return 0, errTooLarge
	}
	if int64(len(p)) > m.remaining+1 {
		p = p[:m.remaining+1]
	}
	n, err := m.r.Read(p)
	m.remaining -= int64(n)
	if m.remaining < 0 {
		return n, errTooLarge
	}
	return n, err
}
