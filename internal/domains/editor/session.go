package editor

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/voxlab/voxnote/internal/domains/note"
	"github.com/voxlab/voxnote/internal/domains/recorder"
	"github.com/voxlab/voxnote/pkg/Logger"
	"github.com/voxlab/voxnote/pkg/tts"
)

var (
	ErrNothingToSpeak = errors.New("nothing to read aloud")
	ErrNoOpenNote     = errors.New("no note is open in the editor")
)

// Event is pushed to transcript stream subscribers.
type Event struct {
	Type    string      `json:"type"` // fragment | status | recorder_state
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

// BufferSnapshot is a copy of the open-note buffer.
type BufferSnapshot struct {
	NoteID string   `json:"noteId,omitempty"`
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Tags   []string `json:"tags"`
	Dirty  bool     `json:"dirty"`
}

// BufferPatch is a partial edit from the front-end; nil fields are untouched.
type BufferPatch struct {
	Title *string   `json:"title,omitempty"`
	Body  *string   `json:"body,omitempty"`
	Tags  *[]string `json:"tags,omitempty"`
}

// Session owns the open-note buffer. Background transcription appends and
// user edits serialize on the session lock; appends always land at the end
// of the body. That is the whole merge rule.
type Session struct {
	notes       note.NoteService
	rec         *recorder.Recorder
	synthesizer tts.Synthesizer
	voice       string
	logger      *Logger.Logger

	mu     sync.Mutex
	noteID string
	title  string
	body   string
	tags   []string
	dirty  bool

	subMu sync.RWMutex
	subs  map[uuid.UUID]chan Event
}

func NewSession(notes note.NoteService, rec *recorder.Recorder, synthesizer tts.Synthesizer, voice string, logger *Logger.Logger) *Session {
	return &Session{
		notes:       notes,
		rec:         rec,
		synthesizer: synthesizer,
		voice:       voice,
		logger:      logger,
		tags:        []string{},
		subs:        make(map[uuid.UUID]chan Event),
	}
}

// Run pumps recorder output into the buffer and out to subscribers until the
// context ends. This is the only writer the recording loop ever reaches the
// buffer through.
func (s *Session) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case frag := <-s.rec.Fragments():
			s.AppendFragment(frag.Text)
			s.broadcast(Event{Type: "fragment", Payload: frag, At: time.Now()})
		case st := <-s.rec.Statuses():
			s.broadcast(Event{Type: "status", Payload: st, At: time.Now()})
		}
	}
}

// Subscribe registers a transcript stream consumer.
func (s *Session) Subscribe() (uuid.UUID, <-chan Event) {
	id := uuid.New()
	ch := make(chan Event, 32)
	s.subMu.Lock()
	s.subs[id] = ch
	s.subMu.Unlock()
	return id, ch
}

func (s *Session) Unsubscribe(id uuid.UUID) {
	s.subMu.Lock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
	s.subMu.Unlock()
}

func (s *Session) broadcast(ev Event) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			// slow consumer, drop
		}
	}
}

// NotifyRecorderState pushes a recorder state change to subscribers.
func (s *Session) NotifyRecorderState(state string) {
	s.broadcast(Event{Type: "recorder_state", Payload: state, At: time.Now()})
}

// Snapshot returns a copy of the buffer.
func (s *Session) Snapshot() BufferSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() BufferSnapshot {
	tags := make([]string, len(s.tags))
	copy(tags, s.tags)
	return BufferSnapshot{
		NoteID: s.noteID,
		Title:  s.title,
		Body:   s.body,
		Tags:   tags,
		Dirty:  s.dirty,
	}
}

// NewNote clears the buffer and detaches it from any stored note.
func (s *Session) NewNote() BufferSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noteID = ""
	s.title = ""
	s.body = ""
	s.tags = []string{}
	s.dirty = false
	return s.snapshotLocked()
}

// LoadNote pulls a stored note into the buffer.
func (s *Session) LoadNote(ctx context.Context, noteID string) (BufferSnapshot, error) {
	n, err := s.notes.GetNote(ctx, noteID)
	if err != nil {
		return BufferSnapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.noteID = n.ID
	s.title = n.Title
	s.body = n.Body
	s.tags = n.Tags
	s.dirty = false
	return s.snapshotLocked(), nil
}

// UpdateBuffer applies a user edit.
func (s *Session) UpdateBuffer(patch BufferPatch) BufferSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if patch.Title != nil {
		s.title = *patch.Title
	}
	if patch.Body != nil {
		s.body = *patch.Body
	}
	if patch.Tags != nil {
		s.tags = *patch.Tags
	}
	s.dirty = true
	return s.snapshotLocked()
}

// AppendFragment adds recognized text to the end of the body, space
// separated once the body is non-empty.
func (s *Session) AppendFragment(text string) {
	if text == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.body == "" {
		s.body = text
	} else {
		s.body = s.body + " " + text
	}
	s.dirty = true
}

// Save persists the buffer: insert on first save, update in place after.
// The buffer adopts the storage-assigned id.
func (s *Session) Save(ctx context.Context) (*note.NoteResponse, error) {
	s.mu.Lock()
	req := note.SaveNoteRequest{
		ID:    s.noteID,
		Title: s.title,
		Body:  s.body,
		Tags:  append([]string(nil), s.tags...),
	}
	s.mu.Unlock()

	saved, err := s.notes.SaveNote(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.noteID = saved.ID
	s.title = saved.Title
	s.dirty = false
	s.mu.Unlock()

	return saved, nil
}

// Speak reads the current body aloud. A synthesis failure is returned to the
// caller; the buffer is never touched here, so it cannot be corrupted.
func (s *Session) Speak(ctx context.Context) (io.ReadCloser, string, error) {
	s.mu.Lock()
	body := s.body
	s.mu.Unlock()

	if body == "" {
		return nil, "", ErrNothingToSpeak
	}

	return s.synthesizer.Synthesize(ctx, body, s.voice)
}

// Export renders the open note for download.
func (s *Session) Export(ctx context.Context) (string, string, error) {
	s.mu.Lock()
	noteID := s.noteID
	s.mu.Unlock()

	if noteID == "" {
		return "", "", ErrNoOpenNote
	}
	return s.notes.ExportNote(ctx, noteID)
}
