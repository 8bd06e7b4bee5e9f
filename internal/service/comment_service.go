package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"biblioteca/internal/models"
	"biblioteca/internal/repository"
)

var ErrEmptyContent = errors.New("comment content must not be empty")

type CommentService interface {
	// Add appends a comment with a server-assigned UTC timestamp.
	Add(ctx context.Context, userID string, documentID int64, content string) (*models.Comment, error)
	ListForDocument(ctx context.Context, documentID int64) ([]models.Comment, error)
	ListAll(ctx context.Context) ([]models.Comment, error)
	// Delete removes a single comment. Privileged accounts only.
	Delete(ctx context.Context, actor *models.User, commentID int64) error
}

type commentService struct {
	commentRepo  repository.CommentRepository
	documentRepo repository.DocumentRepository
}

func NewCommentService(commentRepo repository.CommentRepository, documentRepo repository.DocumentRepository) CommentService {
	return &commentService{
		commentRepo:  commentRepo,
		documentRepo: documentRepo,
	}
}

func (s *commentService) Add(ctx context.Context, userID string, documentID int64, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	// The comment must reference an existing document.
	if _, err := s.documentRepo.GetByID(documentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comment := &models.Comment{
		UserID:     userID,
		DocumentID: documentID,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	// Reload with user data
	return s.commentRepo.GetByID(comment.ID)
}

func (s *commentService) ListForDocument(ctx context.Context, documentID int64) ([]models.Comment, error) {
	return s.commentRepo.GetByDocument(documentID)
}

func (s *commentService) ListAll(ctx context.Context) ([]models.Comment, error) {
	return s.commentRepo.ListAll()
}

func (s *commentService) Delete(ctx context.Context, actor *models.User, commentID int64) error {
	if !actor.IsPrivileged() {
		return ErrUnauthorized
	}

	if err := s.commentRepo.Delete(commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
