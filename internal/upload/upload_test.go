package upload

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/user/datify/internal/api"
)

type stubUploader struct {
	mu    sync.Mutex
	doc   *api.Document
	err   error
	block chan struct{}
	calls int
}

func (u *stubUploader) UploadDocument(ctx context.Context, filename string, r io.Reader) (*api.Document, error) {
	u.mu.Lock()
	u.calls++
	block := u.block
	u.mu.Unlock()
	if block != nil {
		<-block
	}
	if u.err != nil {
		return nil, u.err
	}
	return u.doc, nil
}

func (u *stubUploader) callCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		size     int64
		wantErr  error
	}{
		{"pdf ok", "report.pdf", 1024, nil},
		{"txt ok", "notes.txt", 1024, nil},
		{"image rejected", "scan.png", 1024, ErrUnsupportedType},
		{"binary rejected", "tool.exe", 1024, ErrUnsupportedType},
		{"too large", "big.pdf", MaxFileSize + 1, ErrTooLarge},
		{"exactly at cap", "cap.pdf", MaxFileSize, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.filename, "", tc.size)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Validate(%s, %d) = %v, want %v", tc.filename, tc.size, err, tc.wantErr)
			}
		})
	}
}

func TestPipeline_RejectsWithoutNetworkCall(t *testing.T) {
	uploader := &stubUploader{}
	p := NewPipeline(uploader)

	if _, err := p.Upload(context.Background(), "scan.png", 100, strings.NewReader("x")); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
	if _, err := p.Upload(context.Background(), "big.pdf", MaxFileSize+1, strings.NewReader("x")); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
	if uploader.callCount() != 0 {
		t.Errorf("expected no upload requests, got %d", uploader.callCount())
	}
	if p.Status() == "" {
		t.Error("expected a validation error status")
	}
}

func TestPipeline_SuccessEmitsDocumentAndClearsStatus(t *testing.T) {
	uploader := &stubUploader{doc: &api.Document{ID: 9, Filename: "report.pdf"}}
	var emitted []api.Document
	var mu sync.Mutex
	p := NewPipeline(uploader,
		WithOnDocument(func(d api.Document) {
			mu.Lock()
			emitted = append(emitted, d)
			mu.Unlock()
		}),
		WithClearDelay(30*time.Millisecond),
	)

	doc, err := p.Upload(context.Background(), "report.pdf", 512, strings.NewReader("%PDF"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if doc.ID != 9 {
		t.Errorf("unexpected document: %+v", doc)
	}
	mu.Lock()
	if len(emitted) != 1 || emitted[0].ID != 9 {
		t.Errorf("expected exactly one emitted document, got %+v", emitted)
	}
	mu.Unlock()

	if !strings.Contains(p.Status(), "successfully") {
		t.Errorf("expected success status, got %q", p.Status())
	}

	time.Sleep(100 * time.Millisecond)
	if p.Status() != "" {
		t.Errorf("expected status to self-clear, got %q", p.Status())
	}
}

func TestPipeline_FailureStatusPersists(t *testing.T) {
	uploader := &stubUploader{err: errors.New("Text extraction failed")}
	p := NewPipeline(uploader, WithClearDelay(10*time.Millisecond))

	if _, err := p.Upload(context.Background(), "report.pdf", 512, strings.NewReader("%PDF")); err == nil {
		t.Fatal("expected upload error")
	}

	time.Sleep(50 * time.Millisecond)
	if !strings.Contains(p.Status(), "Text extraction failed") {
		t.Errorf("expected persistent failure status, got %q", p.Status())
	}
}

func TestPipeline_SecondUploadWhileOutstandingRejected(t *testing.T) {
	uploader := &stubUploader{doc: &api.Document{ID: 1}, block: make(chan struct{})}
	p := NewPipeline(uploader, WithClearDelay(10*time.Millisecond))

	first := make(chan error, 1)
	go func() {
		_, err := p.Upload(context.Background(), "a.pdf", 10, strings.NewReader("x"))
		first <- err
	}()

	// Wait for the first upload to reach the uploader.
	deadline := time.After(time.Second)
	for uploader.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("first upload never started")
		case <-time.After(time.Millisecond):
		}
	}

	if _, err := p.Upload(context.Background(), "b.pdf", 10, strings.NewReader("x")); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}

	close(uploader.block)
	if err := <-first; err != nil {
		t.Fatalf("first upload failed: %v", err)
	}
	if uploader.callCount() != 1 {
		t.Errorf("expected one upload request, got %d", uploader.callCount())
	}
}

func TestPipeline_ErrorAfterSuccessNotCleared(t *testing.T) {
	uploader := &stubUploader{doc: &api.Document{ID: 1}}
	p := NewPipeline(uploader, WithClearDelay(30*time.Millisecond))

	if _, err := p.Upload(context.Background(), "a.pdf", 10, strings.NewReader("x")); err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	// A failure right after a success must survive the success timer.
	uploader.err = errors.New("backend down")
	if _, err := p.Upload(context.Background(), "b.pdf", 10, strings.NewReader("x")); err == nil {
		t.Fatal("expected upload error")
	}

	time.Sleep(100 * time.Millisecond)
	if !strings.Contains(p.Status(), "backend down") {
		t.Errorf("expected failure status to survive the clear timer, got %q", p.Status())
	}
}
