package repository

import (
	"biblioteca/internal/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(commentID int64) (*models.Comment, error)
	GetByDocument(documentID int64) ([]models.Comment, error)
	ListAll() ([]models.Comment, error)
	Delete(commentID int64) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create a new comment
func (r *commentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetByID retrieves a comment by its ID
func (r *commentRepository) GetByID(commentID int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Where("id = ?", commentID).
		Preload("User").
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetByDocument retrieves all comments for a document, newest first.
// Equal timestamps keep insertion order.
func (r *commentRepository) GetByDocument(documentID int64) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("document_id = ?", documentID).
		Preload("User").
		Order("created_at DESC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// ListAll retrieves every comment across documents, newest first.
func (r *commentRepository) ListAll() ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.
		Preload("User").
		Preload("Document").
		Order("created_at DESC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Delete removes a comment. A missing row is reported as ErrRecordNotFound.
func (r *commentRepository) Delete(commentID int64) error {
	result := r.db.Delete(&models.Comment{}, "id = ?", commentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
