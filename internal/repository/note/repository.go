package note

import (
	"errors"
	"fmt"

	"github.com/voxlab/voxnote/internal/domains/note"
	"gorm.io/gorm"
)

type GormNoteRepo struct {
	db *gorm.DB
}

// Create implements note.NoteRepository
func (g *GormNoteRepo) Create(n *note.Note) error {
	entity := NewNoteEntityFromDomain(n)
	if err := g.db.Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	// Adopt storage-assigned fields (ID, timestamps) back into the domain object.
	*n = *entity.ToDomain()
	return nil
}

// GetByID implements note.NoteRepository
func (g *GormNoteRepo) GetByID(id string) (*note.Note, error) {
	var entity NoteEntity
	if err := g.db.Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, note.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note by ID: %w", err)
	}
	return entity.ToDomain(), nil
}

// Update implements note.NoteRepository
func (g *GormNoteRepo) Update(id string, updates note.UpdateNoteRequest) (*note.Note, error) {
	var entity NoteEntity

	if err := g.db.Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, note.ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note for update: %w", err)
	}

	// Apply updates only for non-nil fields
	updateMap := make(map[string]interface{})

	if updates.Title != nil {
		updateMap["title"] = *updates.Title
	}
	if updates.Body != nil {
		updateMap["body"] = *updates.Body
	}
	if updates.Tags != nil {
		updateMap["tags"] = TagList(*updates.Tags)
	}

	if len(updateMap) > 0 {
		if err := g.db.Model(&entity).Updates(updateMap).Error; err != nil {
			return nil, fmt.Errorf("failed to update note: %w", err)
		}
	}

	if err := g.db.Where("id = ?", id).First(&entity).Error; err != nil {
		return nil, fmt.Errorf("failed to get updated note: %w", err)
	}

	return entity.ToDomain(), nil
}

// Delete implements note.NoteRepository (hard delete)
func (g *GormNoteRepo) Delete(id string) error {
	result := g.db.Unscoped().Where("id = ?", id).Delete(&NoteEntity{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete note: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return note.ErrNoteNotFound
	}
	return nil
}

// List implements note.NoteRepository
func (g *GormNoteRepo) List(filters note.ListNotesRequest) ([]note.Note, int64, error) {
	var entities []NoteEntity
	var total int64

	query := g.db.Model(&NoteEntity{})

	if filters.Search != "" {
		kw := "%" + filters.Search + "%"
		query = query.Where("title LIKE ? OR body LIKE ? OR tags LIKE ?", kw, kw, kw)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notes: %w", err)
	}

	// Recency first unless the caller asked otherwise.
	orderBy := "created_at"
	if filters.OrderBy == "created_at" || filters.OrderBy == "title" {
		orderBy = filters.OrderBy
	}

	order := "DESC"
	if filters.Order == "asc" || filters.Order == "desc" {
		order = filters.Order
	}

	query = query.Order(fmt.Sprintf("%s %s", orderBy, order))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&entities).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}

	notes := make([]note.Note, len(entities))
	for i, entity := range entities {
		notes[i] = *entity.ToDomain()
	}

	return notes, total, nil
}

// Search implements note.NoteRepository
func (g *GormNoteRepo) Search(query string, offset, limit int) ([]note.Note, int64, error) {
	return g.List(note.ListNotesRequest{
		Search: query,
		Offset: offset,
		Limit:  limit,
	})
}

// NewGormNoteRepo creates a new GORM-based note repository
func NewGormNoteRepo(db *gorm.DB) note.NoteRepository {
	return &GormNoteRepo{db: db}
}
