package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/voxlab/voxnote/internal/domains/editor"
	"github.com/voxlab/voxnote/internal/domains/note"
	"github.com/voxlab/voxnote/internal/domains/recorder"
	"github.com/voxlab/voxnote/pkg/Logger"
)

// SessionHandler exposes the editor buffer and the recorder over HTTP, plus
// the live transcript stream over a websocket.
type SessionHandler struct {
	session  *editor.Session
	recorder *recorder.Recorder
	logger   *Logger.Logger
	upgrader websocket.Upgrader
}

func NewSessionHandler(session *editor.Session, rec *recorder.Recorder, logger *Logger.Logger) *SessionHandler {
	return &SessionHandler{
		session:  session,
		recorder: rec,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Local-only service, same-origin checks don't apply.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GetSession returns the buffer snapshot plus recorder state.
func (h *SessionHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, SessionResponse{
		Buffer:   h.session.Snapshot(),
		Recorder: h.recorder.State(),
	})
}

// UpdateSession applies a manual edit to the open-note buffer.
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	var patch editor.BufferPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	snapshot := h.session.UpdateBuffer(patch)
	c.JSON(http.StatusOK, SessionResponse{Buffer: snapshot, Recorder: h.recorder.State()})
}

// NewSessionNote clears the buffer for a fresh note.
func (h *SessionHandler) NewSessionNote(c *gin.Context) {
	snapshot := h.session.NewNote()
	c.JSON(http.StatusOK, SessionResponse{Buffer: snapshot, Recorder: h.recorder.State()})
}

// LoadSessionNote pulls a stored note into the buffer.
func (h *SessionHandler) LoadSessionNote(c *gin.Context) {
	noteID := c.Param("id")
	if noteID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Note ID is required"})
		return
	}

	snapshot, err := h.session.LoadNote(c.Request.Context(), noteID)
	if err != nil {
		switch {
		case errors.Is(err, note.ErrNoteNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Note not found"})
		default:
			h.logger.Errorf("load note into session error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, SessionResponse{Buffer: snapshot, Recorder: h.recorder.State()})
}

// SaveSession persists the buffer; the buffer adopts the stored id.
func (h *SessionHandler) SaveSession(c *gin.Context) {
	saved, err := h.session.Save(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, note.ErrNoteNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Note not found"})
		case errors.Is(err, note.ErrInvalidNoteData):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid note data"})
		default:
			h.logger.Errorf("save session error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, SaveNoteResponse{Message: "Note saved successfully", Note: *saved})
}

// SpeakSession synthesizes the buffer body and streams the audio back.
func (h *SessionHandler) SpeakSession(c *gin.Context) {
	stream, contentType, err := h.session.Speak(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, editor.ErrNothingToSpeak):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Nothing to read aloud"})
		default:
			h.logger.Errorf("speech synthesis error: %v", err)
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Speech synthesis failed"})
		}
		return
	}
	defer stream.Close()

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		h.logger.Warnf("streaming synthesized audio: %v", err)
	}
}

// ExportSession renders the open note as a plain-text attachment.
func (h *SessionHandler) ExportSession(c *gin.Context) {
	filename, content, err := h.session.Export(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, editor.ErrNoOpenNote):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No note is open"})
		case errors.Is(err, note.ErrNoteNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Note not found"})
		default:
			h.logger.Errorf("export session error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}

// StartRecording flips the recorder to recording and reports the new state.
func (h *SessionHandler) StartRecording(c *gin.Context) {
	if err := h.recorder.Start(c.Request.Context()); err != nil {
		switch {
		case errors.Is(err, recorder.ErrAlreadyRecording):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Already recording"})
		case errors.Is(err, recorder.ErrNoCaptureSource):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "No audio input device available"})
		default:
			h.logger.Errorf("start recording error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	h.session.NotifyRecorderState(recorder.StateRecording)
	c.JSON(http.StatusOK, RecorderStateResponse{State: h.recorder.State()})
}

// StopRecording flips the recorder back to idle.
func (h *SessionHandler) StopRecording(c *gin.Context) {
	if err := h.recorder.Stop(); err != nil {
		switch {
		case errors.Is(err, recorder.ErrNotRecording):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Not recording"})
		default:
			h.logger.Errorf("stop recording error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	h.session.NotifyRecorderState(recorder.StateIdle)
	c.JSON(http.StatusOK, RecorderStateResponse{State: h.recorder.State()})
}

// RecorderStatus reports the state machine and recognizer liveness without
// touching either.
func (h *SessionHandler) RecorderStatus(c *gin.Context) {
	c.JSON(http.StatusOK, RecorderStatusResponse{
		State:           h.recorder.State(),
		RecognizerAlive: h.recorder.RecognizerAlive(),
	})
}

// TranscriptStream upgrades to a websocket and relays session events until
// the client disconnects.
func (h *SessionHandler) TranscriptStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	id, events := h.session.Subscribe()
	defer h.session.Unsubscribe(id)

	// Drain reads so pings and close frames are processed.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-readerDone:
			return
		case <-c.Request.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debugf("transcript stream write failed: %v", err)
				return
			}
		}
	}
}

// RegisterSessionRoutes registers editor session and recorder routes.
func (h *SessionHandler) RegisterSessionRoutes(r *gin.RouterGroup) {
	session := r.Group("/session")
	{
		session.GET("", h.GetSession)
		session.PUT("", h.UpdateSession)
		session.POST("/new", h.NewSessionNote)
		session.POST("/load/:id", h.LoadSessionNote)
		session.POST("/save", h.SaveSession)
		session.POST("/speak", h.SpeakSession)
		session.GET("/export", h.ExportSession)
	}

	rec := r.Group("/recorder")
	{
		rec.POST("/start", h.StartRecording)
		rec.POST("/stop", h.StopRecording)
		rec.GET("/status", h.RecorderStatus)
	}
}
