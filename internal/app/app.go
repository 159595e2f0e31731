package app

import (
	"fmt"
	"time"

	"github.com/voxlab/voxnote/internal/config"
	"github.com/voxlab/voxnote/internal/domains/editor"
	"github.com/voxlab/voxnote/internal/domains/note"
	"github.com/voxlab/voxnote/internal/domains/recorder"
	noteRepo "github.com/voxlab/voxnote/internal/repository/note"
	"github.com/voxlab/voxnote/internal/server"
	"github.com/voxlab/voxnote/pkg/Logger"
	"github.com/voxlab/voxnote/pkg/audio/capture"
	"github.com/voxlab/voxnote/pkg/stt"
	sttopenai "github.com/voxlab/voxnote/pkg/stt/openai"
	"github.com/voxlab/voxnote/pkg/stt/whisper"
	"github.com/voxlab/voxnote/pkg/tts"
	ttsopenai "github.com/voxlab/voxnote/pkg/tts/openai"
	"github.com/voxlab/voxnote/pkg/tts/piper"
	"gorm.io/gorm"
)

// App represents the application with all its dependencies
type App struct {
	Config *config.Settings
	Logger *Logger.Logger
	DB     *gorm.DB

	NoteRepo    note.NoteRepository
	NoteService note.NoteService
	Source      capture.Source
	Recognizer  stt.Recognizer
	Synthesizer tts.Synthesizer
	Recorder    *recorder.Recorder
	Session     *editor.Session

	ServerDeps server.Dependencies
}

// NewApp creates a new application instance with all dependencies properly wired
func NewApp(cfg *config.Settings, logger *Logger.Logger, db *gorm.DB) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
	}

	if err := app.setupDependencies(); err != nil {
		return nil, err
	}

	return app, nil
}

// setupDependencies initializes all application dependencies
func (a *App) setupDependencies() error {
	// storage
	a.NoteRepo = noteRepo.NewGormNoteRepo(a.DB)
	a.NoteService = note.NewNoteService(a.NoteRepo, a.Logger)

	// voice backends
	recognizer, err := a.setupRecognizer()
	if err != nil {
		return err
	}
	a.Recognizer = recognizer

	synthesizer, err := a.setupSynthesizer()
	if err != nil {
		return err
	}
	a.Synthesizer = synthesizer

	// microphone; a missing device only disables recording
	a.Source = capture.NewMicrophone(capture.Config{
		SampleRate:       a.Config.Audio.SampleRate,
		Channels:         a.Config.Audio.Channels,
		FrameSize:        a.Config.Audio.FrameSize,
		MaxPhraseDur:     time.Duration(a.Config.Audio.MaxPhraseSecs) * time.Second,
		SilenceThreshold: int16(a.Config.Audio.SilenceThreshold),
		SilenceDur:       time.Duration(a.Config.Audio.SilenceSecs * float64(time.Second)),
		BufferBytes:      a.Config.Audio.BufferKB * 1024,
	}, a.Logger)

	a.Recorder = recorder.New(a.Source, a.Recognizer, a.Logger.Named("recorder"))
	a.Session = editor.NewSession(a.NoteService, a.Recorder, a.Synthesizer, a.Config.Voice.TTSVoice, a.Logger.Named("editor"))

	a.ServerDeps = server.NewServerDependencies(
		a.NoteService,
		a.Session,
		a.Recorder,
		a.Logger,
		a.Config,
	)

	return nil
}

func (a *App) setupRecognizer() (stt.Recognizer, error) {
	vc := a.Config.Voice
	switch vc.STTProvider {
	case "whisper":
		if vc.STTURL == "" {
			return nil, fmt.Errorf("stt_url is required for the whisper provider")
		}
		return whisper.New(vc.STTURL, vc.Language, vc.Timeout(), a.Logger.Named("whisper")), nil
	case "openai":
		if vc.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("open_ai_api_key is required for the openai provider")
		}
		return sttopenai.New(vc.OpenAIAPIKey, vc.Language, a.Logger.Named("openai-stt")), nil
	default:
		return nil, fmt.Errorf("unknown stt provider %q", vc.STTProvider)
	}
}

func (a *App) setupSynthesizer() (tts.Synthesizer, error) {
	vc := a.Config.Voice
	switch vc.TTSProvider {
	case "piper":
		if vc.TTSURL == "" {
			return nil, fmt.Errorf("tts_url is required for the piper provider")
		}
		p := piper.New(vc.TTSURL)
		p.Voice = vc.TTSVoice
		p.Timeout = vc.Timeout()
		return &p, nil
	case "openai":
		if vc.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("open_ai_api_key is required for the openai provider")
		}
		return ttsopenai.New(vc.OpenAIAPIKey, vc.TTSVoice), nil
	default:
		return nil, fmt.Errorf("unknown tts provider %q", vc.TTSProvider)
	}
}

// GetServerDependencies returns the server dependencies
func (a *App) GetServerDependencies() server.Dependencies {
	return a.ServerDeps
}
