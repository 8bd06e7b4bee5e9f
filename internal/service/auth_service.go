package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"biblioteca/internal/middleware/auth"
	"biblioteca/internal/models"
	"biblioteca/internal/repository"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// bcrypt hash of an unused password, compared against when the email is
// unknown so both login failure paths take roughly the same time.
const dummyPasswordHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e"

type AuthService interface {
	Register(firstName, lastName, email, password string) (*models.User, error)
	Login(email, password string) (*models.User, error)
	UserByID(id string) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// Register creates an account with the ordinary role. Duplicate emails are
// detected by the storage-layer unique index, not a prior lookup, so two
// concurrent registrations of the same address cannot both succeed.
func (s *authService) Register(firstName, lastName, email, password string) (*models.User, error) {
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  hashedPassword,
		Role:      models.RoleOrdinary,
	}

	if err := s.userRepo.Create(user); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	return user, nil
}

// Login verifies the credentials and returns the account. Every failure is
// ErrInvalidCredentials so the response never discloses whether the email
// exists.
func (s *authService) Login(email, password string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		// dummy compare to mitigate timing attacks (always take same time)
		auth.VerifyPassword(dummyPasswordHash, password)
		return nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// UserByID resolves a session's stored user id back to the account.
func (s *authService) UserByID(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
