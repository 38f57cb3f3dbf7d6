package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/user/datify/internal/api"
	"github.com/user/datify/internal/chat"
)

type stubGateway struct {
	docs    []api.Document
	listErr error
	nextID  api.DocumentID
}

func (g *stubGateway) Ask(ctx context.Context, question string) (*api.Answer, error) {
	return &api.Answer{Answer: "ok"}, nil
}

func (g *stubGateway) AskDocument(ctx context.Context, id api.DocumentID, question string) (*api.Answer, error) {
	return &api.Answer{Answer: "ok"}, nil
}

func (g *stubGateway) UploadDocument(ctx context.Context, filename string, r io.Reader) (*api.Document, error) {
	io.Copy(io.Discard, r)
	g.nextID++
	return &api.Document{ID: g.nextID, Filename: filename}, nil
}

func (g *stubGateway) ListDocuments(ctx context.Context) ([]api.Document, error) {
	return g.docs, g.listErr
}

func TestLoadDocuments_PopulatesCatalog(t *testing.T) {
	g := &stubGateway{docs: []api.Document{
		{ID: 1, Filename: "a.pdf"},
		{ID: 2, Filename: "b.txt"},
	}}
	a := New(g)

	if err := a.LoadDocuments(context.Background()); err != nil {
		t.Fatalf("LoadDocuments failed: %v", err)
	}
	if a.Catalog.Len() != 2 {
		t.Fatalf("expected 2 documents, got %d", a.Catalog.Len())
	}
	if _, ok := a.Catalog.Selected(); ok {
		t.Error("fresh load should not select anything")
	}
}

func TestLoadDocuments_Error(t *testing.T) {
	g := &stubGateway{listErr: errors.New("backend down")}
	a := New(g)
	if err := a.LoadDocuments(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadDocuments_DropsStaleSelection(t *testing.T) {
	g := &stubGateway{docs: []api.Document{{ID: 1, Filename: "a.pdf"}}}
	a := New(g)
	if err := a.LoadDocuments(context.Background()); err != nil {
		t.Fatal(err)
	}
	a.SelectDocument(1)
	if _, ok := a.Chat.Selected(); !ok {
		t.Fatal("expected selection")
	}

	g.docs = []api.Document{{ID: 2, Filename: "b.pdf"}}
	if err := a.LoadDocuments(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := a.Chat.Selected(); ok {
		t.Error("refresh should drop the previous selection")
	}
}

func TestSelectDocument_PointsChatAtDocument(t *testing.T) {
	g := &stubGateway{docs: []api.Document{
		{ID: 1, Filename: "invoice.pdf"},
		{ID: 2, Filename: "notes.txt"},
	}}
	a := New(g)
	if err := a.LoadDocuments(context.Background()); err != nil {
		t.Fatal(err)
	}

	a.Chat.SwitchMode(chat.ModeDocument)
	a.SelectDocument(2)

	doc, ok := a.Chat.Selected()
	if !ok {
		t.Fatal("expected chat selection")
	}
	if doc.Filename != "notes.txt" {
		t.Errorf("wrong document selected: %s", doc.Filename)
	}
}

func TestSelectDocument_UnknownClearsSelection(t *testing.T) {
	g := &stubGateway{docs: []api.Document{{ID: 1, Filename: "a.pdf"}}}
	a := New(g)
	if err := a.LoadDocuments(context.Background()); err != nil {
		t.Fatal(err)
	}
	a.SelectDocument(1)
	a.SelectDocument(999)

	if _, ok := a.Catalog.Selected(); ok {
		t.Error("catalog selection should be cleared")
	}
	if _, ok := a.Chat.Selected(); ok {
		t.Error("chat selection should be cleared")
	}
}

func TestUploadFile_AppendsWithoutSelecting(t *testing.T) {
	g := &stubGateway{}
	a := New(g)

	doc, err := a.UploadFile(context.Background(), "report.pdf", 128, strings.NewReader(strings.Repeat("x", 128)))
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if doc.Filename != "report.pdf" {
		t.Errorf("unexpected filename: %s", doc.Filename)
	}
	if a.Catalog.Len() != 1 {
		t.Fatalf("uploaded document should land in the catalog, got %d", a.Catalog.Len())
	}
	if _, ok := a.Catalog.Selected(); ok {
		t.Error("upload must not change the selection")
	}
}

func TestUploadFile_RejectedFileStaysOut(t *testing.T) {
	g := &stubGateway{}
	a := New(g)

	_, err := a.UploadFile(context.Background(), "image.png", 64, strings.NewReader("data"))
	if err == nil {
		t.Fatal("expected rejection for unsupported type")
	}
	if a.Catalog.Len() != 0 {
		t.Error("rejected upload must not touch the catalog")
	}
	// Failure status persists
	time.Sleep(10 * time.Millisecond)
	if a.Upload.Status() == "" {
		t.Error("expected a lingering failure status")
	}
}
