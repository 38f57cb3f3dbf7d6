// internal/app/app.go
package app

import (
	"context"
	"io"

	"github.com/user/datify/internal/api"
	"github.com/user/datify/internal/catalog"
	"github.com/user/datify/internal/chat"
	"github.com/user/datify/internal/upload"
)

// Gateway is the backend surface the session depends on.
type Gateway interface {
	chat.Asker
	upload.Uploader
	ListDocuments(ctx context.Context) ([]api.Document, error)
}

// App wires the document catalog, chat session, and upload pipeline over
// one backend client. It holds the session-scoped state that the CLI and
// the Telegram bridge share.
type App struct {
	gateway Gateway
	Catalog *catalog.Catalog
	Chat    *chat.Session
	Upload  *upload.Pipeline
}

// Option configures an App.
type Option func(*options)

type options struct {
	uploadOpts []upload.Option
}

// WithUploadOptions forwards options to the upload pipeline.
func WithUploadOptions(opts ...upload.Option) Option {
	return func(o *options) { o.uploadOpts = append(o.uploadOpts, opts...) }
}

// New builds a session over the given gateway. Uploaded documents land in
// the catalog without being selected.
func New(gateway Gateway, opts ...Option) *App {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{
		gateway: gateway,
		Catalog: catalog.New(),
		Chat:    chat.New(gateway),
	}
	uploadOpts := append([]upload.Option{
		upload.WithOnDocument(a.Catalog.Append),
	}, o.uploadOpts...)
	a.Upload = upload.NewPipeline(gateway, uploadOpts...)
	return a
}

// LoadDocuments refreshes the catalog from the backend. The previous
// selection does not survive a refresh.
func (a *App) LoadDocuments(ctx context.Context) error {
	docs, err := a.gateway.ListDocuments(ctx)
	if err != nil {
		return err
	}
	a.Catalog.Reset(docs)
	if _, ok := a.Chat.Selected(); ok {
		a.Chat.SelectDocument(nil)
	}
	return nil
}

// SelectDocument points the catalog and the chat session at the given
// document. An unknown id clears the selection instead of failing.
func (a *App) SelectDocument(id api.DocumentID) {
	a.Catalog.Select(id)
	doc, _ := a.Catalog.Selected()
	a.Chat.SelectDocument(doc)
}

// UploadFile runs one file through the upload pipeline.
func (a *App) UploadFile(ctx context.Context, filename string, size int64, r io.Reader) (*api.Document, error) {
	return a.Upload.Upload(ctx, filename, size, r)
}
