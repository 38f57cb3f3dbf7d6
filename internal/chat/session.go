// internal/chat/session.go
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/user/datify/internal/api"
)

// Mode selects which corpus a question is answered against.
type Mode string

const (
	// ModeGlobal answers across all uploaded documents.
	ModeGlobal Mode = "global"
	// ModeDocument answers against the single selected document.
	ModeDocument Mode = "document"
)

// State is the submission state of the session.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingResponse State = "awaiting_response"
)

// Asker issues question-answering calls against the backend.
type Asker interface {
	Ask(ctx context.Context, question string) (*api.Answer, error)
	AskDocument(ctx context.Context, id api.DocumentID, question string) (*api.Answer, error)
}

// Session is the query-session state machine: mode, selected document,
// transcript and submission state live in one value and change only
// through the defined transitions (SwitchMode, SelectDocument, Submit,
// response arrival).
//
// Every transcript reset bumps an internal epoch. An in-flight ask carries
// the epoch it was issued under; if the epoch has moved by the time its
// response arrives, the response belongs to a discarded context and is
// dropped.
type Session struct {
	mu         sync.Mutex
	asker      Asker
	mode       Mode
	selected   *api.Document
	transcript []Message
	state      State
	epoch      uint64
}

// New creates a session in global mode with a fresh transcript.
func New(asker Asker) *Session {
	s := &Session{asker: asker, mode: ModeGlobal, state: StateIdle}
	s.reset()
	return s
}

// reset discards the transcript in favor of a single system banner for the
// current mode and selection. Caller must hold the mutex (or own the
// session exclusively, as in New).
func (s *Session) reset() {
	s.epoch++
	s.state = StateIdle
	s.transcript = []Message{{ID: NewMessageID(), Kind: KindSystem, Text: s.banner()}}
}

func (s *Session) banner() string {
	if s.mode == ModeDocument {
		if s.selected != nil {
			return fmt.Sprintf("Document %q selected. Ask questions about this specific document.", s.selected.Filename)
		}
		return "Document mode active. Select a document to ask questions about it."
	}
	return "Global search mode active. Ask questions across all documents."
}

// SwitchMode changes the query mode. Always legal; discards the current
// conversation and starts a fresh transcript for the new context.
func (s *Session) SwitchMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = mode
	s.reset()
}

// SelectDocument records the selected document (nil clears it) and starts a
// fresh transcript for the new context.
func (s *Session) SelectDocument(doc *api.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = doc
	s.reset()
}

// SubmitOption configures optional behavior on a submission.
type SubmitOption func(*submission)

type submission struct {
	onComplete func(Message)
}

// WithOnComplete sets a callback invoked with the assistant or error
// message once the response is applied to the transcript. It is not
// invoked for responses discarded after a context switch.
func WithOnComplete(fn func(Message)) SubmitOption {
	return func(sub *submission) { sub.onComplete = fn }
}

// Submit appends the question to the transcript and dispatches it to the
// backend. It reports whether the submission was accepted: submissions are
// silently ignored while a question is outstanding, when the text is blank,
// or in document mode with no selection.
func (s *Session) Submit(ctx context.Context, text string, opts ...SubmitOption) bool {
	s.mu.Lock()
	if s.state != StateIdle ||
		strings.TrimSpace(text) == "" ||
		(s.mode == ModeDocument && s.selected == nil) {
		s.mu.Unlock()
		return false
	}

	// The user message goes in before the request is dispatched so a slow
	// response can never reorder it relative to the reply.
	s.transcript = append(s.transcript, Message{ID: NewMessageID(), Kind: KindUser, Text: text})
	s.state = StateAwaitingResponse
	epoch := s.epoch
	mode := s.mode
	var docID api.DocumentID
	if s.selected != nil {
		docID = s.selected.ID
	}
	s.mu.Unlock()

	var sub submission
	for _, opt := range opts {
		opt(&sub)
	}

	go func() {
		var ans *api.Answer
		var err error
		if mode == ModeGlobal {
			ans, err = s.asker.Ask(ctx, text)
		} else {
			ans, err = s.asker.AskDocument(ctx, docID, text)
		}

		var msg Message
		if err != nil {
			msg = Message{ID: NewMessageID(), Kind: KindError, Text: "Error: " + err.Error()}
		} else {
			msg = Message{ID: NewMessageID(), Kind: KindAssistant, Text: ans.Answer}
		}

		if s.apply(epoch, msg) && sub.onComplete != nil {
			sub.onComplete(msg)
		}
	}()
	return true
}

// apply delivers a response to the transcript. Responses issued under an
// older epoch are dropped: the context they belong to no longer exists.
func (s *Session) apply(epoch uint64, msg Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		return false
	}
	s.transcript = append(s.transcript, msg)
	s.state = StateIdle
	return true
}

// Mode returns the current query mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Selected returns the currently selected document, if any.
func (s *Session) Selected() (*api.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil, false
	}
	return s.selected, true
}

// Pending reports whether a question is outstanding.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateAwaitingResponse
}

// Transcript returns a copy of the transcript in insertion order.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}
