package tts

import (
	"context"
	"io"
)

// Synthesizer turns note text into spoken audio. Implementations stream the
// audio body; callers must Close it.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice string) (io.ReadCloser, string, error)
}
