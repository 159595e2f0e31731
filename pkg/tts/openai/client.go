package openai

import (
	"context"
	"fmt"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client speaks through the OpenAI speech API.
type Client struct {
	client       openai.Client
	defaultVoice string
}

func New(apiKey, defaultVoice string) *Client {
	if defaultVoice == "" {
		defaultVoice = "alloy"
	}
	return &Client{
		client:       openai.NewClient(option.WithAPIKey(apiKey)),
		defaultVoice: defaultVoice,
	}
}

// Synthesize implements tts.Synthesizer.
func (c *Client) Synthesize(ctx context.Context, text string, voice string) (io.ReadCloser, string, error) {
	if text == "" {
		return nil, "", fmt.Errorf("empty text")
	}
	if voice == "" {
		voice = c.defaultVoice
	}

	resp, err := c.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModelTTS1,
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatWAV,
	})
	if err != nil {
		return nil, "", fmt.Errorf("openai speech request failed: %w", err)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "audio/wav"
	}
	return resp.Body, ct, nil
}
