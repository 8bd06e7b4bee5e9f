package repository

import (
	"biblioteca/internal/models"

	"gorm.io/gorm"
)

type DocumentRepository interface {
	Create(document *models.Document) error
	GetByID(id int64) (*models.Document, error)
	ListAll() ([]models.Document, error)
	// DeleteWithComments removes the document and its comments in one
	// transaction so the ledger never holds orphaned rows.
	DeleteWithComments(id int64) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(document *models.Document) error {
	return r.db.Create(document).Error
}

func (r *documentRepository) GetByID(id int64) (*models.Document, error) {
	var document models.Document
	if err := r.db.First(&document, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &document, nil
}

// ListAll returns all documents in insertion order.
func (r *documentRepository) ListAll() ([]models.Document, error) {
	var documents []models.Document
	if err := r.db.Order("id ASC").Find(&documents).Error; err != nil {
		return nil, err
	}
	return documents, nil
}

func (r *documentRepository) DeleteWithComments(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Document{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
