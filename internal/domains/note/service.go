package note

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/voxlab/voxnote/pkg/Logger"
)

// Common errors
var (
	ErrNoteNotFound    = errors.New("note not found")
	ErrInvalidNoteData = errors.New("invalid note data")
)

// NoteService defines the interface for note business logic
type NoteService interface {
	// SaveNote inserts when req.ID is empty, else updates in place.
	SaveNote(ctx context.Context, req SaveNoteRequest) (*NoteResponse, error)
	// UpdateNote applies a partial update; nil fields keep their stored values.
	UpdateNote(ctx context.Context, noteID string, req UpdateNoteRequest) (*NoteResponse, error)
	GetNote(ctx context.Context, noteID string) (*NoteResponse, error)
	DeleteNote(ctx context.Context, noteID string) error

	ListNotes(ctx context.Context, filters ListNotesRequest) ([]NoteResponse, int64, error)
	SearchNotes(ctx context.Context, query string, offset, limit int) ([]NoteResponse, int64, error)

	// ExportNote renders a note as a plain-text document for download.
	ExportNote(ctx context.Context, noteID string) (filename string, content string, err error)
}

type noteService struct {
	repository NoteRepository
	logger     *Logger.Logger
}

// SaveNote implements NoteService
func (s *noteService) SaveNote(ctx context.Context, req SaveNoteRequest) (*NoteResponse, error) {
	// An empty body is a valid note; only the title gets defaulted.
	if strings.TrimSpace(req.Title) == "" {
		req.Title = DefaultTitle(req.Body)
	}

	if req.ID == "" {
		n := NewNote(req)
		if err := s.repository.Create(n); err != nil {
			s.logger.Errorf("error creating note: %v", err)
			return nil, fmt.Errorf("failed to create note: %w", err)
		}
		s.logger.Infof("note created: %s", n.ID)
		response := n.ToResponse()
		return &response, nil
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	updated, err := s.repository.Update(req.ID, UpdateNoteRequest{
		Title: &req.Title,
		Body:  &req.Body,
		Tags:  &tags,
	})
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		s.logger.Errorf("error updating note: %v", err)
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	s.logger.Infof("note updated: %s", req.ID)
	response := updated.ToResponse()
	return &response, nil
}

// UpdateNote implements NoteService
func (s *noteService) UpdateNote(ctx context.Context, noteID string, req UpdateNoteRequest) (*NoteResponse, error) {
	updated, err := s.repository.Update(noteID, req)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		s.logger.Errorf("error updating note: %v", err)
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	s.logger.Infof("note updated: %s", noteID)
	response := updated.ToResponse()
	return &response, nil
}

// GetNote implements NoteService
func (s *noteService) GetNote(ctx context.Context, noteID string) (*NoteResponse, error) {
	n, err := s.repository.GetByID(noteID)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		s.logger.Errorf("error getting note: %v", err)
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	response := n.ToResponse()
	return &response, nil
}

// DeleteNote implements NoteService
func (s *noteService) DeleteNote(ctx context.Context, noteID string) error {
	if err := s.repository.Delete(noteID); err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return ErrNoteNotFound
		}
		s.logger.Errorf("error deleting note: %v", err)
		return fmt.Errorf("failed to delete note: %w", err)
	}

	s.logger.Infof("note deleted: %s", noteID)
	return nil
}

// ListNotes implements NoteService
func (s *noteService) ListNotes(ctx context.Context, filters ListNotesRequest) ([]NoteResponse, int64, error) {
	notes, total, err := s.repository.List(filters)
	if err != nil {
		s.logger.Errorf("error listing notes: %v", err)
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}

	responses := make([]NoteResponse, len(notes))
	for i, n := range notes {
		responses[i] = n.ToResponse()
	}

	return responses, total, nil
}

// SearchNotes implements NoteService
func (s *noteService) SearchNotes(ctx context.Context, query string, offset, limit int) ([]NoteResponse, int64, error) {
	notes, total, err := s.repository.Search(query, offset, limit)
	if err != nil {
		s.logger.Errorf("error searching notes: %v", err)
		return nil, 0, fmt.Errorf("failed to search notes: %w", err)
	}

	responses := make([]NoteResponse, len(notes))
	for i, n := range notes {
		responses[i] = n.ToResponse()
	}

	return responses, total, nil
}

// ExportNote implements NoteService
func (s *noteService) ExportNote(ctx context.Context, noteID string) (string, string, error) {
	n, err := s.repository.GetByID(noteID)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return "", "", ErrNoteNotFound
		}
		s.logger.Errorf("error exporting note: %v", err)
		return "", "", fmt.Errorf("failed to export note: %w", err)
	}

	filename := exportFilename(n.Title)
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", n.Title)
	fmt.Fprintf(&b, "Tags: %s\n", strings.Join(n.Tags, ","))
	fmt.Fprintf(&b, "Created: %s\n\n", n.CreatedAt.Format("2006-01-02 15:04:05"))
	b.WriteString(n.Body)

	return filename, b.String(), nil
}

func exportFilename(title string) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = "note"
	}
	name = strings.ReplaceAll(name, " ", "_")
	runes := []rune(name)
	if len(runes) > 40 {
		runes = runes[:40]
	}
	return string(runes) + ".txt"
}

// NewNoteService creates a new note service
func NewNoteService(repository NoteRepository, logger *Logger.Logger) NoteService {
	return &noteService{
		repository: repository,
		logger:     logger,
	}
}
