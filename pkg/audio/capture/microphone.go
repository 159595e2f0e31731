//go:build portaudio
// +build portaudio

package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/voxlab/voxnote/pkg/Logger"
	"github.com/voxlab/voxnote/pkg/audio/ring"
)

// Microphone captures phrases from the default input device via portaudio.
type Microphone struct {
	cfg    Config
	logger *Logger.Logger

	stream  *portaudio.Stream
	samples []int16
	frames  ring.Buffer
}

func NewMicrophone(cfg Config, logger *Logger.Logger) *Microphone {
	return &Microphone{
		cfg:     cfg,
		logger:  logger,
		samples: make([]int16, cfg.FrameSize),
		frames:  ring.New(cfg.BufferBytes),
	}
}

func (m *Microphone) Name() string {
	return "microphone"
}

func (m *Microphone) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: initializing portaudio: %v", ErrUnavailable, err)
	}

	stream, err := portaudio.OpenDefaultStream(
		m.cfg.Channels,
		0, // no output
		float64(m.cfg.SampleRate),
		m.cfg.FrameSize,
		m.samples,
	)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("%w: opening stream: %v", ErrUnavailable, err)
	}
	m.stream = stream

	if err := m.stream.Start(); err != nil {
		m.stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("%w: starting stream: %v", ErrUnavailable, err)
	}

	m.logger.Infof("microphone started, sample rate %d", m.cfg.SampleRate)
	return nil
}

func (m *Microphone) Stop() error {
	if m.stream != nil {
		m.stream.Stop()
		m.stream.Close()
		m.stream = nil
	}
	portaudio.Terminate()
	return nil
}

// ReadPhrase pulls frames off the device until a silence run ends the phrase
// or the phrase hits its max duration.
func (m *Microphone) ReadPhrase(ctx context.Context) ([]ring.Frame, error) {
	if m.stream == nil {
		return nil, ErrUnavailable
	}

	frameDur := time.Duration(m.cfg.FrameSize) * time.Second / time.Duration(m.cfg.SampleRate)
	silentRun := time.Duration(0)
	captured := time.Duration(0)
	heardVoice := false

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := m.stream.Read(); err != nil {
			return nil, fmt.Errorf("reading from stream: %w", err)
		}

		data := make([]byte, len(m.samples)*2)
		silent := true
		for i, s := range m.samples {
			data[2*i] = byte(s)
			data[2*i+1] = byte(s >> 8)
			if s > m.cfg.SilenceThreshold || s < -m.cfg.SilenceThreshold {
				silent = false
			}
		}

		if err := m.frames.Enqueue(ring.Frame{
			Data:       data,
			Timestamp:  time.Now(),
			SampleRate: int32(m.cfg.SampleRate),
			Channels:   int16(m.cfg.Channels),
		}); err != nil {
			m.logger.Debugf("frame buffer issue: %v", err)
		}

		captured += frameDur
		if silent {
			silentRun += frameDur
		} else {
			silentRun = 0
			heardVoice = true
		}

		if heardVoice && silentRun >= m.cfg.SilenceDur {
			break
		}
		if captured >= m.cfg.MaxPhraseDur {
			break
		}
	}

	phrase := make([]ring.Frame, 0, m.frames.Len())
	for {
		frame, ok := m.frames.Dequeue()
		if !ok {
			break
		}
		phrase = append(phrase, frame)
	}
	return phrase, nil
}
