package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"biblioteca/internal/models"
	"biblioteca/internal/storage"
)

// MockDocumentRepository mocks the DocumentRepository interface
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(document *models.Document) error {
	args := m.Called(document)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetByID(id int64) (*models.Document, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListAll() ([]models.Document, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Document), args.Error(1)
}

func (m *MockDocumentRepository) DeleteWithComments(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

// fakeStorage is an in-memory Storage with the same collision semantics as
// the disk implementation.
type fakeStorage struct {
	files map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: map[string][]byte{}}
}

func (s *fakeStorage) Save(ctx context.Context, name string, r io.Reader) error {
	if _, ok := s.files[name]; ok {
		return storage.ErrExists
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.files[name] = data
	return nil
}

func (s *fakeStorage) Remove(ctx context.Context, name string) error {
	if _, ok := s.files[name]; !ok {
		return storage.ErrNotExist
	}
	delete(s.files, name)
	return nil
}

func (s *fakeStorage) Exists(ctx context.Context, name string) (bool, error) {
	_, ok := s.files[name]
	return ok, nil
}

var (
	ordinaryUser   = &models.User{ID: "u-1", Role: models.RoleOrdinary}
	privilegedUser = &models.User{ID: "u-2", Role: models.RolePrivileged}
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUpload_OrdinaryUserRejected(t *testing.T) {
	repo := new(MockDocumentRepository)
	store := newFakeStorage()
	svc := NewCatalogService(repo, store, testLogger())

	doc, err := svc.Upload(context.Background(), ordinaryUser, "Notes", "", "notes.pdf", strings.NewReader("%PDF"))

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Nil(t, doc)
	assert.Empty(t, store.files)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUpload_UnsupportedExtension(t *testing.T) {
	repo := new(MockDocumentRepository)
	svc := NewCatalogService(repo, newFakeStorage(), testLogger())

	_, err := svc.Upload(context.Background(), privilegedUser, "Notes", "", "notes.exe", strings.NewReader("x"))

	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestUpload_Success(t *testing.T) {
	repo := new(MockDocumentRepository)
	store := newFakeStorage()
	svc := NewCatalogService(repo, store, testLogger())

	repo.On("Create", mock.AnythingOfType("*models.Document")).Return(nil)

	doc, err := svc.Upload(context.Background(), privilegedUser, "Notes", "course notes", "notes.pdf", strings.NewReader("%PDF"))

	assert.NoError(t, err)
	assert.Equal(t, "Notes", doc.Title)
	assert.Equal(t, "notes.pdf", doc.Filename)
	assert.Contains(t, store.files, "notes.pdf")
	repo.AssertExpectations(t)
}

func TestUpload_SanitizesTraversal(t *testing.T) {
	repo := new(MockDocumentRepository)
	store := newFakeStorage()
	svc := NewCatalogService(repo, store, testLogger())

	repo.On("Create", mock.AnythingOfType("*models.Document")).Return(nil)

	doc, err := svc.Upload(context.Background(), privilegedUser, "Notes", "", "../../etc/notes.pdf", strings.NewReader("%PDF"))

	assert.NoError(t, err)
	assert.NotContains(t, doc.Filename, "/")
	assert.NotContains(t, doc.Filename, "..")
	assert.Contains(t, store.files, doc.Filename)
}

func TestUpload_DuplicateFilename(t *testing.T) {
	repo := new(MockDocumentRepository)
	store := newFakeStorage()
	store.files["notes.pdf"] = []byte("existing")
	svc := NewCatalogService(repo, store, testLogger())

	_, err := svc.Upload(context.Background(), privilegedUser, "Notes", "", "notes.pdf", strings.NewReader("%PDF"))

	assert.ErrorIs(t, err, ErrDuplicateFilename)
	// the existing file stays untouched
	assert.Equal(t, []byte("existing"), store.files["notes.pdf"])
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUpload_MetadataFailureRollsBackFile(t *testing.T) {
	repo := new(MockDocumentRepository)
	store := newFakeStorage()
	svc := NewCatalogService(repo, store, testLogger())

	repo.On("Create", mock.AnythingOfType("*models.Document")).Return(errors.New("db down"))

	_, err := svc.Upload(context.Background(), privilegedUser, "Notes", "", "notes.pdf", strings.NewReader("%PDF"))

	assert.Error(t, err)
	assert.NotContains(t, store.files, "notes.pdf")
}

func TestUpload_MetadataDuplicateRowIsDuplicateFilename(t *testing.T) {
	repo := new(MockDocumentRepository)
	store := newFakeStorage()
	svc := NewCatalogService(repo, store, testLogger())

	repo.On("Create", mock.AnythingOfType("*models.Document")).Return(gorm.ErrDuplicatedKey)

	_, err := svc.Upload(context.Background(), privilegedUser, "Notes", "", "notes.pdf", strings.NewReader("%PDF"))

	assert.ErrorIs(t, err, ErrDuplicateFilename)
	assert.NotContains(t, store.files, "notes.pdf")
}

func TestDelete_FileMissingIsSoft(t *testing.T) {
	repo := new(MockDocumentRepository)
	store := newFakeStorage()
	svc := NewCatalogService(repo, store, testLogger())

	repo.On("GetByID", int64(7)).Return(&models.Document{ID: 7, Filename: "gone.pdf"}, nil)
	repo.On("DeleteWithComments", int64(7)).Return(nil)

	fileMissing, err := svc.Delete(context.Background(), privilegedUser, 7)

	assert.NoError(t, err)
	assert.True(t, fileMissing)
	repo.AssertExpectations(t)
}

func TestDelete_RemovesFile(t *testing.T) {
	repo := new(MockDocumentRepository)
	store := newFakeStorage()
	store.files["notes.pdf"] = []byte("%PDF")
	svc := NewCatalogService(repo, store, testLogger())

	repo.On("GetByID", int64(7)).Return(&models.Document{ID: 7, Filename: "notes.pdf"}, nil)
	repo.On("DeleteWithComments", int64(7)).Return(nil)

	fileMissing, err := svc.Delete(context.Background(), privilegedUser, 7)

	assert.NoError(t, err)
	assert.False(t, fileMissing)
	assert.NotContains(t, store.files, "notes.pdf")
}

func TestDelete_Unauthorized(t *testing.T) {
	repo := new(MockDocumentRepository)
	svc := NewCatalogService(repo, newFakeStorage(), testLogger())

	_, err := svc.Delete(context.Background(), ordinaryUser, 7)

	assert.ErrorIs(t, err, ErrUnauthorized)
	repo.AssertNotCalled(t, "DeleteWithComments", mock.Anything)
}

func TestDelete_NotFound(t *testing.T) {
	repo := new(MockDocumentRepository)
	svc := NewCatalogService(repo, newFakeStorage(), testLogger())

	repo.On("GetByID", int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Delete(context.Background(), privilegedUser, 404)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"notes.pdf":            "notes.pdf",
		"../../etc/passwd.pdf": "passwd.pdf",
		"..\\..\\notes.pdf":    "notes.pdf",
		"mis apuntes.pdf":      "mis_apuntes.pdf",
		"NOTES.PDF":            "NOTES.pdf",
		"....pdf":              "documento.pdf",
	}
	for input, want := range cases {
		assert.Equal(t, want, SanitizeFilename(input), "input %q", input)
	}
}
