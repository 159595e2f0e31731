package openai

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/voxlab/voxnote/pkg/Logger"
	"github.com/voxlab/voxnote/pkg/audio/ring"
	"github.com/voxlab/voxnote/pkg/stt"
)

// Client recognizes speech through the OpenAI audio transcription API.
type Client struct {
	client   openai.Client
	language string
	logger   *Logger.Logger
}

func New(apiKey, language string, logger *Logger.Logger) *Client {
	return &Client{
		client:   openai.NewClient(option.WithAPIKey(apiKey)),
		language: language,
		logger:   logger,
	}
}

// Transcribe implements stt.Recognizer.
func (c *Client) Transcribe(ctx context.Context, frames []ring.Frame) (*stt.Transcription, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no audio frames provided")
	}

	wavData, err := stt.EncodeWAV(frames)
	if err != nil {
		return nil, fmt.Errorf("failed to convert audio to WAV: %w", err)
	}

	transcription, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:     openai.File(bytes.NewReader(wavData), "phrase.wav", "audio/wav"),
		Model:    openai.AudioModelWhisper1,
		Language: openai.String(c.language),
	})
	if err != nil {
		return nil, fmt.Errorf("openai transcription failed: %w", err)
	}

	text := strings.TrimSpace(transcription.Text)
	if text == "" {
		return nil, stt.ErrNoSpeech
	}

	c.logger.Debugf("openai transcription: %s", text)

	return &stt.Transcription{
		Text:        text,
		Language:    c.language,
		GeneratedAt: time.Now(),
	}, nil
}

// IsAlive implements stt.Recognizer. The hosted API has no cheap health
// probe, so reachability is assumed and failures surface per call.
func (c *Client) IsAlive() bool {
	return true
}
