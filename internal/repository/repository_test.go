package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"biblioteca/internal/database"
	"biblioteca/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "x",
		Role:      models.RoleOrdinary,
	}
	require.NoError(t, NewUserRepository(db).Create(user))
	return user
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	createUser(t, db, "alice@example.com")

	err := repo.Create(&models.User{
		FirstName: "Other",
		LastName:  "Alice",
		Email:     "alice@example.com",
		Password:  "y",
	})

	// the unique index is the guard, surfaced as a translated conflict
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	created := createUser(t, db, "alice@example.com")

	found, err := repo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDocumentRepository_DuplicateFilename(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepository(db)

	require.NoError(t, repo.Create(&models.Document{Title: "Notes", Filename: "notes.pdf"}))

	err := repo.Create(&models.Document{Title: "Other", Filename: "notes.pdf"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestDocumentRepository_ListInsertionOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepository(db)

	require.NoError(t, repo.Create(&models.Document{Title: "First", Filename: "a.pdf"}))
	require.NoError(t, repo.Create(&models.Document{Title: "Second", Filename: "b.pdf"}))
	require.NoError(t, repo.Create(&models.Document{Title: "Third", Filename: "c.pdf"}))

	documents, err := repo.ListAll()
	require.NoError(t, err)
	require.Len(t, documents, 3)
	assert.Equal(t, "First", documents[0].Title)
	assert.Equal(t, "Second", documents[1].Title)
	assert.Equal(t, "Third", documents[2].Title)
}

func TestCommentRepository_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice@example.com")
	docRepo := NewDocumentRepository(db)
	commentRepo := NewCommentRepository(db)

	doc := &models.Document{Title: "Notes", Filename: "notes.pdf"}
	require.NoError(t, docRepo.Create(doc))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, content := range []string{"t1", "t2", "t3"} {
		require.NoError(t, commentRepo.Create(&models.Comment{
			UserID:     user.ID,
			DocumentID: doc.ID,
			Content:    content,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	comments, err := commentRepo.GetByDocument(doc.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "t3", comments[0].Content)
	assert.Equal(t, "t2", comments[1].Content)
	assert.Equal(t, "t1", comments[2].Content)
}

func TestCommentRepository_TimestampTiesKeepInsertionOrder(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice@example.com")
	docRepo := NewDocumentRepository(db)
	commentRepo := NewCommentRepository(db)

	doc := &models.Document{Title: "Notes", Filename: "notes.pdf"}
	require.NoError(t, docRepo.Create(doc))

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, content := range []string{"first", "second"} {
		require.NoError(t, commentRepo.Create(&models.Comment{
			UserID:     user.ID,
			DocumentID: doc.ID,
			Content:    content,
			CreatedAt:  at,
		}))
	}

	comments, err := commentRepo.GetByDocument(doc.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
}

func TestDocumentRepository_DeleteCascadesComments(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice@example.com")
	docRepo := NewDocumentRepository(db)
	commentRepo := NewCommentRepository(db)

	doomed := &models.Document{Title: "Doomed", Filename: "doomed.pdf"}
	kept := &models.Document{Title: "Kept", Filename: "kept.pdf"}
	require.NoError(t, docRepo.Create(doomed))
	require.NoError(t, docRepo.Create(kept))

	now := time.Now().UTC()
	require.NoError(t, commentRepo.Create(&models.Comment{UserID: user.ID, DocumentID: doomed.ID, Content: "on doomed", CreatedAt: now}))
	require.NoError(t, commentRepo.Create(&models.Comment{UserID: user.ID, DocumentID: kept.ID, Content: "on kept", CreatedAt: now}))

	require.NoError(t, docRepo.DeleteWithComments(doomed.ID))

	remaining, err := commentRepo.ListAll()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].DocumentID)

	_, err = docRepo.GetByID(doomed.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDocumentRepository_DeleteMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepository(db)

	err := repo.DeleteWithComments(404)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCommentRepository_DeleteMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)

	err := repo.Delete(404)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
