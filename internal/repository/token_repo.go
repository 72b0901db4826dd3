package repository

import (
	"context"
	"errors"

	"github.com/til-acronyms/internal/models"
	"gorm.io/gorm"
)

var (
	ErrTokenNotFound  = errors.New("token not found")
	ErrTokenCollision = errors.New("token string collision")
)

// TokenRepository handles bearer token data access
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create persists a new token. A collision on the opaque token string
// surfaces as ErrTokenCollision and is never silently overwritten.
func (r *TokenRepository) Create(ctx context.Context, token *models.Token) error {
	err := r.db.WithContext(ctx).Create(token).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrTokenCollision
	}
	return err
}

// GetByToken retrieves a token row by its opaque string
func (r *TokenRepository) GetByToken(ctx context.Context, tokenString string) (*models.Token, error) {
	var token models.Token
	result := r.db.WithContext(ctx).Where("token = ?", tokenString).First(&token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, result.Error
	}
	return &token, nil
}
