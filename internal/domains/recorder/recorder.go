package recorder

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/looplab/fsm"
	"github.com/voxlab/voxnote/pkg/Logger"
	"github.com/voxlab/voxnote/pkg/audio/capture"
	"github.com/voxlab/voxnote/pkg/stt"
)

// Recorder states. A single guarded transition pair replaces the bare
// boolean flag a naive implementation would share between goroutines.
const (
	StateIdle      = "idle"
	StateRecording = "recording"

	eventStart = "start"
	eventStop  = "stop"
)

var (
	ErrAlreadyRecording = errors.New("already recording")
	ErrNotRecording     = errors.New("not recording")
	ErrNoCaptureSource  = errors.New("no capture source available")
)

// Fragment is one recognized phrase. Recognized text never touches shared
// buffers directly; consumers drain these on their own turn.
type Fragment struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// StatusEvent is a transient report from the loop (recognition failures etc).
type StatusEvent struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Recorder owns the background capture/recognize loop.
type Recorder struct {
	source     capture.Source
	recognizer stt.Recognizer
	logger     *Logger.Logger

	machine *fsm.FSM
	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}

	fragments chan Fragment
	statuses  chan StatusEvent
}

func New(source capture.Source, recognizer stt.Recognizer, logger *Logger.Logger) *Recorder {
	return &Recorder{
		source:     source,
		recognizer: recognizer,
		logger:     logger,
		machine: fsm.NewFSM(
			StateIdle,
			fsm.Events{
				{Name: eventStart, Src: []string{StateIdle}, Dst: StateRecording},
				{Name: eventStop, Src: []string{StateRecording}, Dst: StateIdle},
			},
			fsm.Callbacks{},
		),
		fragments: make(chan Fragment, 64),
		statuses:  make(chan StatusEvent, 16),
	}
}

// Fragments is the stream of recognized phrases.
func (r *Recorder) Fragments() <-chan Fragment {
	return r.fragments
}

// Statuses is the stream of transient loop reports.
func (r *Recorder) Statuses() <-chan StatusEvent {
	return r.statuses
}

// RecognizerAlive reports whether the recognition backend answers.
func (r *Recorder) RecognizerAlive() bool {
	if r.recognizer == nil {
		return false
	}
	return r.recognizer.IsAlive()
}

// State reports the current machine state: idle or recording.
func (r *Recorder) State() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.machine.Current()
}

// Start transitions idle -> recording and launches the loop goroutine.
// A second Start while recording returns ErrAlreadyRecording.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.source == nil {
		return ErrNoCaptureSource
	}

	if err := r.machine.Event(ctx, eventStart); err != nil {
		return ErrAlreadyRecording
	}

	if err := r.source.Start(); err != nil {
		// Roll the machine back; the transition only holds with a live source.
		_ = r.machine.Event(ctx, eventStop)
		if errors.Is(err, capture.ErrUnavailable) {
			return ErrNoCaptureSource
		}
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})

	go r.loop(loopCtx, r.done)

	r.logger.Infof("recording started via %s", r.source.Name())
	return nil
}

// Stop transitions recording -> idle, cancels the loop and waits for it to
// drain. An in-flight recognition call runs to its own timeout; its result
// is discarded.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.machine.Event(context.Background(), eventStop); err != nil {
		return ErrNotRecording
	}

	r.cancel()
	<-r.done
	if err := r.source.Stop(); err != nil {
		r.logger.Warnf("stopping capture source: %v", err)
	}

	r.logger.Info("recording stopped")
	return nil
}

// loop captures one bounded phrase at a time and hands it to the recognizer.
// Failures are reported as transient status and never end the loop; only
// Stop (context cancel) or a vanished device does.
func (r *Recorder) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frames, err := r.source.ReadPhrase(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, capture.ErrUnavailable) {
				r.pushStatus("audio device unavailable, recording halted")
				return
			}
			r.pushStatus("capture failed: " + err.Error())
			continue
		}

		if len(frames) == 0 {
			continue
		}

		transcription, err := r.recognizer.Transcribe(ctx, frames)
		if ctx.Err() != nil {
			// Stopped while the call was in flight; discard the result.
			return
		}
		if err != nil {
			if errors.Is(err, stt.ErrNoSpeech) {
				continue
			}
			r.logger.Warnf("recognition failed: %v", err)
			r.pushStatus("recognition failed, still listening")
			continue
		}

		select {
		case r.fragments <- Fragment{Text: transcription.Text, At: transcription.GeneratedAt}:
		default:
			r.logger.Warnf("fragment channel full, dropping phrase")
		}
	}
}

func (r *Recorder) pushStatus(msg string) {
	select {
	case r.statuses <- StatusEvent{Message: msg, At: time.Now()}:
	default:
	}
}
