package database

import (
	noterepo "github.com/voxlab/voxnote/internal/repository/note"
	"gorm.io/gorm"
)

func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&noterepo.NoteEntity{},
	)
}
