//go:build !portaudio
// +build !portaudio

package capture

import (
	"context"

	"github.com/voxlab/voxnote/pkg/Logger"
	"github.com/voxlab/voxnote/pkg/audio/ring"
)

// Microphone stub when portaudio is not compiled in. Recording stays
// disabled; the rest of the app works normally.
type Microphone struct {
	logger *Logger.Logger
}

func NewMicrophone(cfg Config, logger *Logger.Logger) *Microphone {
	return &Microphone{logger: logger}
}

func (m *Microphone) Name() string {
	return "microphone"
}

func (m *Microphone) Start() error {
	return ErrUnavailable
}

func (m *Microphone) Stop() error {
	return nil
}

func (m *Microphone) ReadPhrase(_ context.Context) ([]ring.Frame, error) {
	return nil, ErrUnavailable
}
