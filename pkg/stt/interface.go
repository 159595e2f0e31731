package stt

import (
	"context"
	"errors"
	"time"

	"github.com/voxlab/voxnote/pkg/audio/ring"
)

// ErrNoSpeech means the service heard nothing intelligible in the phrase.
// The recording loop skips these silently.
var ErrNoSpeech = errors.New("no speech detected")

// Transcription is the recognized text for one captured phrase.
type Transcription struct {
	Text        string
	Language    string
	GeneratedAt time.Time
}

// Recognizer turns captured audio frames into text via a remote service.
type Recognizer interface {
	Transcribe(ctx context.Context, frames []ring.Frame) (*Transcription, error)
	IsAlive() bool
}
