package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/til-acronyms/internal/models"
	"github.com/til-acronyms/internal/repository"
	"github.com/til-acronyms/pkg/crypto"
	"github.com/til-acronyms/pkg/keygen"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// ValidationError reports a rejected registration field. Nothing is
// persisted when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	nameRe     = regexp.MustCompile(`^[a-zA-Z0-9 '-]+$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]{3,}$`)
)

// UserStore is the user persistence surface the services depend on
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	AcronymsOf(ctx context.Context, userID uuid.UUID) ([]models.Acronym, error)
}

// TokenStore is the bearer token persistence surface
type TokenStore interface {
	Create(ctx context.Context, token *models.Token) error
	GetByToken(ctx context.Context, tokenString string) (*models.Token, error)
}

// AuthService handles registration, password login and bearer tokens
type AuthService struct {
	users  UserStore
	tokens TokenStore
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, tokens TokenStore) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// RegisterRequest represents the registration input, from JSON or form
type RegisterRequest struct {
	Name            string `form:"name" json:"name" binding:"required"`
	Username        string `form:"username" json:"username" binding:"required"`
	Password        string `form:"password" json:"password" binding:"required"`
	ConfirmPassword string `form:"confirmPassword" json:"confirm_password" binding:"required"`
}

// Validate checks the registration fields before anything is persisted
func (r *RegisterRequest) Validate() error {
	if r.Name == "" || !nameRe.MatchString(r.Name) {
		return &ValidationError{Field: "name", Message: "must contain only letters, numbers, spaces, hyphens and apostrophes"}
	}
	if !usernameRe.MatchString(r.Username) {
		return &ValidationError{Field: "username", Message: "must be alphanumeric and at least 3 characters"}
	}
	if len(r.Password) < 8 {
		return &ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}
	if r.Password != r.ConfirmPassword {
		return &ValidationError{Field: "confirmPassword", Message: "passwords do not match"}
	}
	return nil
}

// Register validates the request, hashes the password and creates the user
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Username:     req.Username,
		PasswordHash: passwordHash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies a username/password pair. An unknown username
// and a wrong password produce the same outcome.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken generates and persists a fresh opaque bearer token for the
// user. A collision on the random string is a fatal condition, never a
// silent overwrite.
func (s *AuthService) IssueToken(ctx context.Context, user *models.User) (*models.Token, error) {
	tokenString, err := keygen.BearerToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	token := &models.Token{
		Token:  tokenString,
		UserID: user.ID,
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}
	return token, nil
}

// ResolveBearer resolves an opaque bearer string to its owning user
func (s *AuthService) ResolveBearer(ctx context.Context, tokenString string) (*models.User, error) {
	token, err := s.tokens.GetByToken(ctx, tokenString)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}
