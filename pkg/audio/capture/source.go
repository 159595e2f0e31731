package capture

import (
	"context"
	"errors"
	"time"

	"github.com/voxlab/voxnote/pkg/audio/ring"
)

// ErrUnavailable is returned when no working audio input device exists.
// The app keeps running with recording disabled.
var ErrUnavailable = errors.New("audio capture unavailable")

// Source produces bounded phrases of audio for the recognition loop.
type Source interface {
	Name() string
	Start() error
	Stop() error
	// ReadPhrase blocks until a phrase ends (silence run or max duration)
	// and returns the captured frames, oldest first.
	ReadPhrase(ctx context.Context) ([]ring.Frame, error)
}

// Config bounds phrase capture.
type Config struct {
	SampleRate       int
	Channels         int
	FrameSize        int           // samples per read
	MaxPhraseDur     time.Duration // hard cap per phrase
	SilenceThreshold int16         // peak amplitude below which a frame counts as silence
	SilenceDur       time.Duration // silence run that ends a phrase
	BufferBytes      int           // ring buffer capacity between reads and phrase assembly
}
