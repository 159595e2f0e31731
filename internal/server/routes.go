package server

import (
	"github.com/gin-gonic/gin"
	"github.com/voxlab/voxnote/internal/config"
	"github.com/voxlab/voxnote/internal/domains/editor"
	"github.com/voxlab/voxnote/internal/domains/note"
	"github.com/voxlab/voxnote/internal/domains/recorder"
	"github.com/voxlab/voxnote/internal/handlers"
	"github.com/voxlab/voxnote/pkg/Logger"
)

// Dependencies carries everything the HTTP layer needs.
type Dependencies struct {
	NoteService note.NoteService
	Session     *editor.Session
	Recorder    *recorder.Recorder
	Logger      *Logger.Logger
	Configs     *config.Settings
}

func NewServerDependencies(
	noteService note.NoteService,
	session *editor.Session,
	rec *recorder.Recorder,
	logger *Logger.Logger,
	cfg *config.Settings,
) Dependencies {
	return Dependencies{
		NoteService: noteService,
		Session:     session,
		Recorder:    rec,
		Logger:      logger,
		Configs:     cfg,
	}
}

func InitializeRoutes(cfg *config.Settings, r *gin.Engine, dep Dependencies) {
	r.GET("/", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"message": "Server healthy"}) })
	r.GET("/health", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"status": "ok"}) })

	noteHandler := handlers.NewNoteHandler(dep.NoteService, dep.Logger)
	sessionHandler := handlers.NewSessionHandler(dep.Session, dep.Recorder, dep.Logger)

	v1 := r.Group("/api/v1")
	noteHandler.RegisterNoteRoutes(v1)
	sessionHandler.RegisterSessionRoutes(v1)

	// Live transcript stream for the front-end editor.
	r.GET("/ws/transcript", sessionHandler.TranscriptStream)
}
