package note

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Note is a user-created text record (pure domain model). The body may be
// empty; a note exists as soon as the editor buffer is first saved.
type Note struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SaveNoteRequest carries the editor buffer into storage. An empty ID means
// insert; a present ID means update-in-place.
type SaveNoteRequest struct {
	ID    string   `json:"id,omitempty"`
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags,omitempty"`
}

// UpdateNoteRequest applies a partial update; nil fields are left untouched.
type UpdateNoteRequest struct {
	Title *string   `json:"title,omitempty"`
	Body  *string   `json:"body,omitempty"`
	Tags  *[]string `json:"tags,omitempty"`
}

// NoteResponse is the note shape returned over the API.
type NoteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListNotesRequest represents filters for listing notes.
type ListNotesRequest struct {
	Search  string `form:"search"`
	Offset  int    `form:"offset"`
	Limit   int    `form:"limit"`
	OrderBy string `form:"orderBy"` // created_at, title
	Order   string `form:"order"`   // asc, desc
}

// ToResponse converts a Note to NoteResponse.
func (n *Note) ToResponse() NoteResponse {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return NoteResponse{
		ID:        n.ID.String(),
		Title:     n.Title,
		Body:      n.Body,
		Tags:      tags,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// NewNote creates a new note from a save request. Storage assigns the ID.
func NewNote(req SaveNoteRequest) *Note {
	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	return &Note{
		Title:     req.Title,
		Body:      req.Body,
		Tags:      tags,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// DefaultTitle derives a title from the body when the user left it blank:
// first line, capped at 60 runes.
func DefaultTitle(body string) string {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return "(no title)"
	}
	firstLine := strings.SplitN(trimmed, "\n", 2)[0]
	runes := []rune(firstLine)
	if len(runes) > 60 {
		runes = runes[:60]
	}
	return string(runes)
}

// NoteRepository defines the interface for note data operations.
type NoteRepository interface {
	// Create a new note; storage assigns the ID.
	Create(note *Note) error

	// Get note by ID
	GetByID(id string) (*Note, error)

	// Update note in place
	Update(id string, updates UpdateNoteRequest) (*Note, error)

	// Delete note (hard delete)
	Delete(id string) error

	// List all notes, newest first, with pagination and filters
	List(filters ListNotesRequest) ([]Note, int64, error)

	// Search notes by title, body and tags
	Search(query string, offset, limit int) ([]Note, int64, error)
}
