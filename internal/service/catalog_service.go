package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"biblioteca/internal/models"
	"biblioteca/internal/repository"
	"biblioteca/internal/storage"
)

var (
	ErrUnsupportedFileType = errors.New("only PDF files are accepted")
	ErrDuplicateFilename   = errors.New("a document with this filename already exists")
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

type CatalogService interface {
	List(ctx context.Context) ([]models.Document, error)
	// Upload stores the file first and commits metadata only after the
	// write succeeded. The stored filename is the sanitized original name.
	Upload(ctx context.Context, actor *models.User, title, description, originalFilename string, r io.Reader) (*models.Document, error)
	// Delete removes metadata (cascading to comments) and best-effort
	// removes the physical file. Returns true when the file was missing.
	Delete(ctx context.Context, actor *models.User, id int64) (fileMissing bool, err error)
}

type catalogService struct {
	documentRepo repository.DocumentRepository
	store        storage.Storage
	logger       *slog.Logger
}

func NewCatalogService(documentRepo repository.DocumentRepository, store storage.Storage, logger *slog.Logger) CatalogService {
	return &catalogService{
		documentRepo: documentRepo,
		store:        store,
		logger:       logger,
	}
}

func (s *catalogService) List(ctx context.Context) ([]models.Document, error) {
	return s.documentRepo.ListAll()
}

func (s *catalogService) Upload(ctx context.Context, actor *models.User, title, description, originalFilename string, r io.Reader) (*models.Document, error) {
	if !actor.IsPrivileged() {
		return nil, ErrUnauthorized
	}

	if !strings.EqualFold(filepath.Ext(originalFilename), ".pdf") {
		return nil, ErrUnsupportedFileType
	}

	filename := SanitizeFilename(originalFilename)

	// Phase one: write the file. O_EXCL on the stored name is the atomic
	// guard against concurrent uploads of the same filename.
	if err := s.store.Save(ctx, filename, r); err != nil {
		if errors.Is(err, storage.ErrExists) {
			return nil, ErrDuplicateFilename
		}
		return nil, err
	}

	// Phase two: commit metadata. On failure the file is rolled back so
	// the catalog never references a record without verifying its write.
	document := &models.Document{
		Title:       title,
		Description: description,
		Filename:    filename,
	}
	if err := s.documentRepo.Create(document); err != nil {
		if removeErr := s.store.Remove(ctx, filename); removeErr != nil {
			s.logger.Error("failed to roll back stored file after metadata failure",
				"filename", filename, "error", removeErr)
		}
		if isDuplicateKey(err) {
			return nil, ErrDuplicateFilename
		}
		return nil, err
	}

	return document, nil
}

func (s *catalogService) Delete(ctx context.Context, actor *models.User, id int64) (bool, error) {
	if !actor.IsPrivileged() {
		return false, ErrUnauthorized
	}

	document, err := s.documentRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	if err := s.documentRepo.DeleteWithComments(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	// The physical file is best-effort: a missing file is a soft warning,
	// never an error to the caller.
	if err := s.store.Remove(ctx, document.Filename); err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			s.logger.Warn("stored file already missing during document deletion",
				"document_id", id, "filename", document.Filename)
			return true, nil
		}
		s.logger.Error("failed to remove stored file during document deletion",
			"document_id", id, "filename", document.Filename, "error", err)
		return true, nil
	}

	return false, nil
}

// SanitizeFilename reduces an uploaded filename to a flat, safe name:
// any directory part is dropped and remaining characters outside
// [a-zA-Z0-9._-] collapse to underscores.
func SanitizeFilename(name string) string {
	// Windows clients send backslash-separated paths.
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.TrimSpace(name)

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	stem = unsafeFilenameChars.ReplaceAllString(stem, "_")
	stem = strings.Trim(stem, "._")
	if stem == "" {
		stem = "documento"
	}

	ext = unsafeFilenameChars.ReplaceAllString(ext, "")
	if ext == "." {
		ext = ""
	}

	return stem + strings.ToLower(ext)
}
