package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/voxlab/voxnote/pkg/Logger"
	"github.com/voxlab/voxnote/pkg/audio/ring"
	"github.com/voxlab/voxnote/pkg/stt"
)

// transcriptionResponse is the JSON body of a self-hosted whisper ASR service.
type transcriptionResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Client talks to a self-hosted whisper STT service over HTTP.
type Client struct {
	baseURL    string
	language   string
	httpClient *http.Client
	logger     *Logger.Logger
}

func New(baseURL, language string, timeout time.Duration, logger *Logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  baseURL,
		language: language,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
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

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("audio_file", "phrase.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := part.Write(wavData); err != nil {
		return nil, fmt.Errorf("failed to write audio data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	requestURL := fmt.Sprintf("%s/asr?encode=true&task=transcribe&language=%s&output=json",
		c.baseURL, url.QueryEscape(c.language))
	req, err := http.NewRequestWithContext(ctx, "POST", requestURL, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Errorf("whisper service error (status %d): %s", resp.StatusCode, string(responseBody))
		return nil, fmt.Errorf("whisper service returned status %d: %s", resp.StatusCode, string(responseBody))
	}

	if len(responseBody) == 0 {
		return nil, fmt.Errorf("whisper service returned empty response")
	}

	var parsed transcriptionResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		// Some deployments answer with bare text instead of JSON.
		parsed.Text = string(responseBody)
		parsed.Language = c.language
	}

	text := strings.TrimSpace(parsed.Text)
	if text == "" {
		return nil, stt.ErrNoSpeech
	}

	c.logger.Debugf("whisper transcription: %s (language: %s)", text, parsed.Language)

	return &stt.Transcription{
		Text:        text,
		Language:    parsed.Language,
		GeneratedAt: time.Now(),
	}, nil
}

// IsAlive implements stt.Recognizer.
func (c *Client) IsAlive() bool {
	req, err := http.NewRequest("GET", c.baseURL+"/docs", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}
