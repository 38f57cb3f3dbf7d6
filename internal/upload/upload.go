// internal/upload/upload.go
package upload

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/user/datify/internal/api"
)

// MaxFileSize is the upload size cap.
const MaxFileSize = 10 << 20 // 10 MiB

var (
	ErrUnsupportedType = errors.New("only PDF and TXT files are supported")
	ErrTooLarge        = errors.New("file exceeds the 10 MB size limit")
	ErrBusy            = errors.New("an upload is already in progress")
)

// Uploader submits a validated file to the backend.
type Uploader interface {
	UploadDocument(ctx context.Context, filename string, r io.Reader) (*api.Document, error)
}

// Pipeline validates and submits one file at a time and tracks a
// user-visible status line. Success status clears itself after a fixed
// delay; failure status stays until the next attempt.
type Pipeline struct {
	uploader   Uploader
	onDocument func(api.Document)
	clearDelay time.Duration

	mu        sync.Mutex
	uploading bool
	status    string
	statusGen uint64
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithOnDocument sets a callback invoked with each successfully uploaded
// document.
func WithOnDocument(fn func(api.Document)) Option {
	return func(p *Pipeline) { p.onDocument = fn }
}

// WithClearDelay overrides how long a success status lingers.
func WithClearDelay(d time.Duration) Option {
	return func(p *Pipeline) { p.clearDelay = d }
}

// NewPipeline creates a pipeline over the given uploader.
func NewPipeline(uploader Uploader, opts ...Option) *Pipeline {
	p := &Pipeline{
		uploader:   uploader,
		clearDelay: 3 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MediaType derives a media type from the filename extension. The drop
// surface has no browser to declare one for us.
func MediaType(filename string) string {
	return mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
}

// Validate checks a candidate file before any network call. The media type
// must denote PDF or text and the size must not exceed MaxFileSize.
func Validate(filename, mediaType string, size int64) error {
	if mediaType == "" {
		mediaType = MediaType(filename)
	}
	if !strings.Contains(mediaType, "pdf") && !strings.Contains(mediaType, "text") {
		return ErrUnsupportedType
	}
	if size > MaxFileSize {
		return ErrTooLarge
	}
	return nil
}

// Upload validates and submits a single file. Exactly one upload may be
// outstanding at a time; further calls fail with ErrBusy without touching
// the network. On success the new document is emitted through the
// OnDocument callback; it is never auto-selected.
func (p *Pipeline) Upload(ctx context.Context, filename string, size int64, r io.Reader) (*api.Document, error) {
	p.mu.Lock()
	if p.uploading {
		p.mu.Unlock()
		return nil, ErrBusy
	}
	if err := Validate(filename, "", size); err != nil {
		p.setStatusLocked("Upload failed: " + err.Error())
		p.mu.Unlock()
		return nil, err
	}
	p.uploading = true
	p.setStatusLocked("Uploading document...")
	p.mu.Unlock()

	doc, err := p.uploader.UploadDocument(ctx, filename, r)

	p.mu.Lock()
	p.uploading = false
	if err != nil {
		p.setStatusLocked("Upload failed: " + err.Error())
		p.mu.Unlock()
		return nil, err
	}
	p.setStatusLocked("Document uploaded successfully!")
	gen := p.statusGen
	p.mu.Unlock()

	if p.onDocument != nil {
		p.onDocument(*doc)
	}

	// Success status self-clears; a newer status wins over the timer.
	time.AfterFunc(p.clearDelay, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.statusGen == gen {
			p.status = ""
		}
	})

	return doc, nil
}

func (p *Pipeline) setStatusLocked(status string) {
	p.statusGen++
	p.status = status
}

// Status returns the current status line ("" when there is nothing to
// show).
func (p *Pipeline) Status() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Uploading reports whether an upload is outstanding.
func (p *Pipeline) Uploading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uploading
}
