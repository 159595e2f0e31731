package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/voxlab/voxnote/internal/domains/note"
	"github.com/voxlab/voxnote/pkg/Logger"
)

// NoteHandler handles note-related HTTP requests
type NoteHandler struct {
	noteService note.NoteService
	logger      *Logger.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteService note.NoteService, logger *Logger.Logger) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		logger:      logger,
	}
}

// SaveNote handles note creation and in-place updates. A request without an
// id inserts; with an id it updates that row.
func (h *NoteHandler) SaveNote(c *gin.Context) {
	var req note.SaveNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	saved, err := h.noteService.SaveNote(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, note.ErrNoteNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Note not found"})
		case errors.Is(err, note.ErrInvalidNoteData):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid note data"})
		default:
			h.logger.Errorf("save note error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	status := http.StatusOK
	message := "Note updated successfully"
	if req.ID == "" {
		status = http.StatusCreated
		message = "Note created successfully"
	}
	c.JSON(status, SaveNoteResponse{Message: message, Note: *saved})
}

// GetNote returns a single note by id.
func (h *NoteHandler) GetNote(c *gin.Context) {
	noteID := c.Param("id")
	if noteID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Note ID is required"})
		return
	}

	n, err := h.noteService.GetNote(c.Request.Context(), noteID)
	if err != nil {
		switch {
		case errors.Is(err, note.ErrNoteNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Note not found"})
		default:
			h.logger.Errorf("get note error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, NoteEnvelope{Note: *n})
}

// UpdateNote applies a partial update to a stored note.
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	noteID := c.Param("id")
	if noteID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Note ID is required"})
		return
	}

	var req note.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	updated, err := h.noteService.UpdateNote(c.Request.Context(), noteID, req)
	if err != nil {
		switch {
		case errors.Is(err, note.ErrNoteNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Note not found"})
		default:
			h.logger.Errorf("update note error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, SaveNoteResponse{Message: "Note updated successfully", Note: *updated})
}

// DeleteNote handles note deletion
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	noteID := c.Param("id")
	if noteID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Note ID is required"})
		return
	}

	if err := h.noteService.DeleteNote(c.Request.Context(), noteID); err != nil {
		switch {
		case errors.Is(err, note.ErrNoteNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Note not found"})
		default:
			h.logger.Errorf("delete note error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Note deleted successfully"})
}

// ListNotes lists stored notes, newest first.
func (h *NoteHandler) ListNotes(c *gin.Context) {
	var filters note.ListNotesRequest
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid query parameters",
			Details: err.Error(),
		})
		return
	}

	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 20
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	notes, total, err := h.noteService.ListNotes(c.Request.Context(), filters)
	if err != nil {
		h.logger.Errorf("list notes error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, ListNotesResponse{
		Notes: notes,
		Pagination: PaginationInfo{
			Total:  total,
			Offset: filters.Offset,
			Limit:  filters.Limit,
		},
	})
}

// SearchNotes matches the query against title, body and tags.
func (h *NoteHandler) SearchNotes(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Search query is required"})
		return
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}

	notes, total, err := h.noteService.SearchNotes(c.Request.Context(), query, offset, limit)
	if err != nil {
		h.logger.Errorf("search notes error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, SearchNotesResponse{
		Notes: notes,
		Pagination: PaginationInfo{
			Total:  total,
			Offset: offset,
			Limit:  limit,
		},
		Query: query,
	})
}

// ExportNote streams a note as a plain-text attachment.
func (h *NoteHandler) ExportNote(c *gin.Context) {
	noteID := c.Param("id")
	if noteID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Note ID is required"})
		return
	}

	filename, content, err := h.noteService.ExportNote(c.Request.Context(), noteID)
	if err != nil {
		switch {
		case errors.Is(err, note.ErrNoteNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Note not found"})
		default:
			h.logger.Errorf("export note error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}

// RegisterNoteRoutes registers all note-related routes
func (h *NoteHandler) RegisterNoteRoutes(r *gin.RouterGroup) {
	notes := r.Group("/notes")
	{
		notes.POST("", h.SaveNote)
		notes.GET("", h.ListNotes)
		notes.GET("/search", h.SearchNotes)
		notes.GET("/:id", h.GetNote)
		notes.PUT("/:id", h.UpdateNote)
		notes.DELETE("/:id", h.DeleteNote)
		notes.GET("/:id/export", h.ExportNote)
	}
}
