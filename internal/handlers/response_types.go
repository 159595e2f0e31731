package handlers

import (
	"github.com/voxlab/voxnote/internal/domains/editor"
	"github.com/voxlab/voxnote/internal/domains/note"
)

// Response wrapper types

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// PaginationInfo represents pagination information
type PaginationInfo struct {
	Total  int64 `json:"total"`
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
}

// NoteEnvelope wraps a single note
type NoteEnvelope struct {
	Note note.NoteResponse `json:"note"`
}

// SaveNoteResponse wraps the result of a save
type SaveNoteResponse struct {
	Message string            `json:"message"`
	Note    note.NoteResponse `json:"note"`
}

// ListNotesResponse wraps a note listing
type ListNotesResponse struct {
	Notes      []note.NoteResponse `json:"notes"`
	Pagination PaginationInfo      `json:"pagination"`
}

// SearchNotesResponse wraps search results
type SearchNotesResponse struct {
	Notes      []note.NoteResponse `json:"notes"`
	Pagination PaginationInfo      `json:"pagination"`
	Query      string              `json:"query"`
}

// SessionResponse is the editor buffer plus recorder state
type SessionResponse struct {
	Buffer   editor.BufferSnapshot `json:"buffer"`
	Recorder string                `json:"recorder"`
}

// RecorderStateResponse reports the recording state machine
type RecorderStateResponse struct {
	State string `json:"state"`
}

// RecorderStatusResponse adds recognition backend liveness to the state
type RecorderStatusResponse struct {
	State           string `json:"state"`
	RecognizerAlive bool   `json:"recognizerAlive"`
}
