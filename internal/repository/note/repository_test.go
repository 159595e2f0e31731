package note

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "github.com/voxlab/voxnote/internal/domains/note"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&NoteEntity{}))
	return db
}

func TestCreateAssignsID(t *testing.T) {
	repo := NewGormNoteRepo(setupTestDB(t))

	n := domain.NewNote(domain.SaveNoteRequest{
		Title: "Groceries",
		Body:  "milk and eggs",
		Tags:  []string{"shopping"},
	})
	require.NoError(t, repo.Create(n))

	assert.NotEmpty(t, n.ID.String())
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", n.ID.String())

	got, err := repo.GetByID(n.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Title)
	assert.Equal(t, "milk and eggs", got.Body)
	assert.Equal(t, []string{"shopping"}, got.Tags)
}

func TestUpdateInPlace(t *testing.T) {
	repo := NewGormNoteRepo(setupTestDB(t))

	n := domain.NewNote(domain.SaveNoteRequest{Title: "Draft", Body: "v1"})
	require.NoError(t, repo.Create(n))

	body := "v2"
	updated, err := repo.Update(n.ID.String(), domain.UpdateNoteRequest{Body: &body})
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Body)
	assert.Equal(t, "Draft", updated.Title)
	assert.Equal(t, n.ID, updated.ID)

	// still exactly one row
	_, total, err := repo.List(domain.ListNotesRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestUpdateMissingNote(t *testing.T) {
	repo := NewGormNoteRepo(setupTestDB(t))

	title := "x"
	_, err := repo.Update("3b0b9a3e-0000-0000-0000-000000000000", domain.UpdateNoteRequest{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNoteNotFound)
}

func TestDeleteRemovesNote(t *testing.T) {
	repo := NewGormNoteRepo(setupTestDB(t))

	n := domain.NewNote(domain.SaveNoteRequest{Title: "Gone"})
	require.NoError(t, repo.Create(n))

	require.NoError(t, repo.Delete(n.ID.String()))

	_, err := repo.GetByID(n.ID.String())
	assert.ErrorIs(t, err, domain.ErrNoteNotFound)

	assert.ErrorIs(t, repo.Delete(n.ID.String()), domain.ErrNoteNotFound)
}

func TestEmptyBodyIsValid(t *testing.T) {
	repo := NewGormNoteRepo(setupTestDB(t))

	n := domain.NewNote(domain.SaveNoteRequest{Title: "Placeholder", Body: ""})
	require.NoError(t, repo.Create(n))

	got, err := repo.GetByID(n.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "", got.Body)
}

func TestListNewestFirst(t *testing.T) {
	repo := NewGormNoteRepo(setupTestDB(t))

	for _, title := range []string{"first", "second", "third"} {
		n := domain.NewNote(domain.SaveNoteRequest{Title: title})
		require.NoError(t, repo.Create(n))
	}

	notes, total, err := repo.List(domain.ListNotesRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, notes, 3)
	for i := 1; i < len(notes); i++ {
		assert.False(t, notes[i].CreatedAt.After(notes[i-1].CreatedAt))
	}
}

func TestSearchMatchesTitleBodyAndTags(t *testing.T) {
	repo := NewGormNoteRepo(setupTestDB(t))

	seed := []domain.SaveNoteRequest{
		{Title: "meeting notes", Body: "discuss roadmap"},
		{Title: "recipe", Body: "pasta with garlic"},
		{Title: "misc", Body: "nothing here", Tags: []string{"garlic"}},
	}
	for _, req := range seed {
		n := domain.NewNote(req)
		require.NoError(t, repo.Create(n))
	}

	byTitle, total, err := repo.Search("meeting", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "meeting notes", byTitle[0].Title)

	// matches the body of one note and the tags of another
	_, total, err = repo.Search("garlic", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = repo.Search("no such text", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestListPagination(t *testing.T) {
	repo := NewGormNoteRepo(setupTestDB(t))

	for i := 0; i < 5; i++ {
		n := domain.NewNote(domain.SaveNoteRequest{Title: "note"})
		require.NoError(t, repo.Create(n))
	}

	page, total, err := repo.List(domain.ListNotesRequest{Offset: 3, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page, 2)
}
