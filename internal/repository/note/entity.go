package note

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/voxlab/voxnote/internal/domains/note"
	"gorm.io/gorm"
)

// TagList is a custom type for handling JSON serialization of string slices
type TagList []string

// Value implements driver.Valuer interface for GORM
func (t TagList) Value() (driver.Value, error) {
	if len(t) == 0 {
		return "[]", nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner interface for GORM
func (t *TagList) Scan(value interface{}) error {
	if value == nil {
		*t = TagList{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		*t = TagList{}
		return nil
	}
}

// NoteEntity represents the database row for Note with GORM tags
type NoteEntity struct {
	ID        uuid.UUID `gorm:"primaryKey;type:char(36);not null"`
	Title     string    `gorm:"column:title;type:text"`
	Body      string    `gorm:"column:body;type:text"`
	Tags      TagList   `gorm:"type:text;column:tags"`
	CreatedAt time.Time `gorm:"autoCreateTime(3);index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime(3)"`
}

// TableName returns the table name for GORM
func (NoteEntity) TableName() string {
	return "notes"
}

// BeforeCreate is a GORM hook; the ID is assigned here, by storage.
func (n *NoteEntity) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// ToDomain converts NoteEntity to domain Note
func (n *NoteEntity) ToDomain() *note.Note {
	tags := []string(n.Tags)
	if tags == nil {
		tags = []string{}
	}

	return &note.Note{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		Tags:      tags,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// FromDomain converts domain Note to NoteEntity
func (n *NoteEntity) FromDomain(domainNote *note.Note) {
	n.ID = domainNote.ID
	n.Title = domainNote.Title
	n.Body = domainNote.Body
	n.Tags = TagList(domainNote.Tags)
	n.CreatedAt = domainNote.CreatedAt
	n.UpdatedAt = domainNote.UpdatedAt
}

// NewNoteEntityFromDomain creates a new NoteEntity from domain Note
func NewNoteEntityFromDomain(domainNote *note.Note) *NoteEntity {
	entity := &NoteEntity{}
	entity.FromDomain(domainNote)
	return entity
}
