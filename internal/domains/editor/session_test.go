package editor

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voxlab/voxnote/internal/domains/note"
	"github.com/voxlab/voxnote/internal/domains/recorder"
	"github.com/voxlab/voxnote/pkg/Logger"
	"github.com/voxlab/voxnote/pkg/audio/ring"
	"github.com/voxlab/voxnote/pkg/stt"
)

type fakeNoteService struct {
	saved  map[string]note.NoteResponse
	lastID string
}

func newFakeNoteService() *fakeNoteService {
	return &fakeNoteService{saved: make(map[string]note.NoteResponse)}
}

func (f *fakeNoteService) SaveNote(ctx context.Context, req note.SaveNoteRequest) (*note.NoteResponse, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	} else if _, ok := f.saved[id]; !ok {
		return nil, note.ErrNoteNotFound
	}
	title := req.Title
	if strings.TrimSpace(title) == "" {
		title = note.DefaultTitle(req.Body)
	}
	resp := note.NoteResponse{ID: id, Title: title, Body: req.Body, Tags: req.Tags}
	f.saved[id] = resp
	f.lastID = id
	return &resp, nil
}

func (f *fakeNoteService) UpdateNote(ctx context.Context, noteID string, req note.UpdateNoteRequest) (*note.NoteResponse, error) {
	resp, ok := f.saved[noteID]
	if !ok {
		return nil, note.ErrNoteNotFound
	}
	if req.Title != nil {
		resp.Title = *req.Title
	}
	if req.Body != nil {
		resp.Body = *req.Body
	}
	if req.Tags != nil {
		resp.Tags = *req.Tags
	}
	f.saved[noteID] = resp
	return &resp, nil
}

func (f *fakeNoteService) GetNote(ctx context.Context, noteID string) (*note.NoteResponse, error) {
	resp, ok := f.saved[noteID]
	if !ok {
		return nil, note.ErrNoteNotFound
	}
	return &resp, nil
}

func (f *fakeNoteService) DeleteNote(ctx context.Context, noteID string) error {
	if _, ok := f.saved[noteID]; !ok {
		return note.ErrNoteNotFound
	}
	delete(f.saved, noteID)
	return nil
}

func (f *fakeNoteService) ListNotes(ctx context.Context, filters note.ListNotesRequest) ([]note.NoteResponse, int64, error) {
	return nil, 0, nil
}

func (f *fakeNoteService) SearchNotes(ctx context.Context, query string, offset, limit int) ([]note.NoteResponse, int64, error) {
	return nil, 0, nil
}

func (f *fakeNoteService) ExportNote(ctx context.Context, noteID string) (string, string, error) {
	resp, ok := f.saved[noteID]
	if !ok {
		return "", "", note.ErrNoteNotFound
	}
	return "note.txt", resp.Body, nil
}

type fakeSynthesizer struct {
	err   error
	calls int
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, voice string) (io.ReadCloser, string, error) {
	f.calls++
	if f.err != nil {
		return nil, "", f.err
	}
	return io.NopCloser(strings.NewReader("RIFF")), "audio/wav", nil
}

// pushSource feeds one phrase per send into the recording loop.
type pushSource struct {
	phrases chan []ring.Frame
}

func (s *pushSource) Name() string { return "push" }
func (s *pushSource) Start() error { return nil }
func (s *pushSource) Stop() error  { return nil }

func (s *pushSource) ReadPhrase(ctx context.Context) ([]ring.Frame, error) {
	select {
	case frames := <-s.phrases:
		return frames, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type echoRecognizer struct {
	texts chan string
}

func (r *echoRecognizer) Transcribe(ctx context.Context, frames []ring.Frame) (*stt.Transcription, error) {
	select {
	case text := <-r.texts:
		return &stt.Transcription{Text: text, GeneratedAt: time.Now()}, nil
	default:
		return nil, stt.ErrNoSpeech
	}
}

func (r *echoRecognizer) IsAlive() bool { return true }

func newTestSession(synth *fakeSynthesizer) (*Session, *fakeNoteService, *recorder.Recorder, *pushSource, *echoRecognizer) {
	notes := newFakeNoteService()
	source := &pushSource{phrases: make(chan []ring.Frame, 4)}
	recog := &echoRecognizer{texts: make(chan string, 4)}
	rec := recorder.New(source, recog, Logger.New(false))
	if synth == nil {
		synth = &fakeSynthesizer{}
	}
	session := NewSession(notes, rec, synth, "", Logger.New(false))
	return session, notes, rec, source, recog
}

func TestAppendFragmentSpacing(t *testing.T) {
	session, _, _, _, _ := newTestSession(nil)

	session.AppendFragment("hello")
	session.AppendFragment("world")
	session.AppendFragment("")

	snap := session.Snapshot()
	assert.Equal(t, "hello world", snap.Body)
	assert.True(t, snap.Dirty)
}

func TestAppendAfterManualEdit(t *testing.T) {
	session, _, _, _, _ := newTestSession(nil)

	body := "edited by hand"
	session.UpdateBuffer(BufferPatch{Body: &body})
	session.AppendFragment("and dictated")

	assert.Equal(t, "edited by hand and dictated", session.Snapshot().Body)
}

func TestSaveAdoptsStoredID(t *testing.T) {
	session, notes, _, _, _ := newTestSession(nil)

	session.AppendFragment("buy more coffee")
	saved, err := session.Save(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, notes.lastID, saved.ID)

	snap := session.Snapshot()
	assert.Equal(t, saved.ID, snap.NoteID)
	assert.False(t, snap.Dirty)

	// second save updates the same note
	session.AppendFragment("and filters")
	again, err := session.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID)
	assert.Len(t, notes.saved, 1)
}

func TestNewNoteClearsBuffer(t *testing.T) {
	session, _, _, _, _ := newTestSession(nil)

	session.AppendFragment("old content")
	_, err := session.Save(context.Background())
	require.NoError(t, err)

	snap := session.NewNote()
	assert.Equal(t, "", snap.NoteID)
	assert.Equal(t, "", snap.Body)
	assert.False(t, snap.Dirty)
}

func TestLoadNote(t *testing.T) {
	session, notes, _, _, _ := newTestSession(nil)

	stored, err := notes.SaveNote(context.Background(), note.SaveNoteRequest{
		Title: "Reading list",
		Body:  "some books",
		Tags:  []string{"books"},
	})
	require.NoError(t, err)

	snap, err := session.LoadNote(context.Background(), stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, snap.NoteID)
	assert.Equal(t, "some books", snap.Body)
	assert.False(t, snap.Dirty)

	_, err = session.LoadNote(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, note.ErrNoteNotFound)
}

func TestSpeakEmptyBody(t *testing.T) {
	synth := &fakeSynthesizer{}
	session, _, _, _, _ := newTestSession(synth)

	_, _, err := session.Speak(context.Background())
	assert.ErrorIs(t, err, ErrNothingToSpeak)
	assert.Zero(t, synth.calls)
}

func TestSpeakFailureLeavesBufferIntact(t *testing.T) {
	synth := &fakeSynthesizer{err: errors.New("tts down")}
	session, _, _, _, _ := newTestSession(synth)

	session.AppendFragment("read this back")
	_, _, err := session.Speak(context.Background())
	require.Error(t, err)

	assert.Equal(t, "read this back", session.Snapshot().Body)
}

func TestExportWithoutOpenNote(t *testing.T) {
	session, _, _, _, _ := newTestSession(nil)

	_, _, err := session.Export(context.Background())
	assert.ErrorIs(t, err, ErrNoOpenNote)
}

func TestRunPumpsFragmentsIntoBuffer(t *testing.T) {
	session, _, rec, source, recog := newTestSession(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go session.Run(ctx)

	subID, events := session.Subscribe()
	defer session.Unsubscribe(subID)

	require.NoError(t, rec.Start(context.Background()))
	defer rec.Stop()

	recog.texts <- "dictated phrase"
	source.phrases <- []ring.Frame{{Data: []byte{1, 2}, SampleRate: 16000, Channels: 1}}

	select {
	case ev := <-events:
		assert.Equal(t, "fragment", ev.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no fragment event arrived")
	}

	// the buffer picked it up too
	deadline := time.Now().Add(2 * time.Second)
	for session.Snapshot().Body == "" && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, "dictated phrase", session.Snapshot().Body)
}
