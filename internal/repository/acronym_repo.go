package repository

import (
	"context"
	"errors"

	"github.com/til-acronyms/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAcronymNotFound = errors.New("acronym not found")
)

// AcronymRepository handles acronym data access
type AcronymRepository struct {
	db *gorm.DB
}

// NewAcronymRepository creates a new AcronymRepository
func NewAcronymRepository(db *gorm.DB) *AcronymRepository {
	return &AcronymRepository{db: db}
}

// Create creates a new acronym
func (r *AcronymRepository) Create(ctx context.Context, acronym *models.Acronym) error {
	return r.db.WithContext(ctx).Create(acronym).Error
}

// GetByID retrieves an acronym by ID
func (r *AcronymRepository) GetByID(ctx context.Context, id uint) (*models.Acronym, error) {
	var acronym models.Acronym
	result := r.db.WithContext(ctx).First(&acronym, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAcronymNotFound
		}
		return nil, result.Error
	}
	return &acronym, nil
}

// List retrieves all acronyms
func (r *AcronymRepository) List(ctx context.Context) ([]models.Acronym, error) {
	var acronyms []models.Acronym
	if err := r.db.WithContext(ctx).Find(&acronyms).Error; err != nil {
		return nil, err
	}
	return acronyms, nil
}

// Update persists changes to an existing acronym
func (r *AcronymRepository) Update(ctx context.Context, acronym *models.Acronym) error {
	return r.db.WithContext(ctx).Save(acronym).Error
}

// Delete removes an acronym and its category associations in one
// transaction. The pivot FKs cascade at the database level as well;
// the explicit delete keeps the invariant independent of migration state.
func (r *AcronymRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("acronym_id = ?", id).Delete(&models.AcronymCategory{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Acronym{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAcronymNotFound
		}
		return nil
	})
}

// Search retrieves acronyms whose short or long form matches the term exactly
func (r *AcronymRepository) Search(ctx context.Context, term string) ([]models.Acronym, error) {
	var acronyms []models.Acronym
	err := r.db.WithContext(ctx).
		Where("short = ?", term).
		Or("long = ?", term).
		Find(&acronyms).Error
	if err != nil {
		return nil, err
	}
	return acronyms, nil
}

// First retrieves the first acronym by insertion order
func (r *AcronymRepository) First(ctx context.Context) (*models.Acronym, error) {
	var acronym models.Acronym
	result := r.db.WithContext(ctx).Order("id ASC").First(&acronym)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAcronymNotFound
		}
		return nil, result.Error
	}
	return &acronym, nil
}

// Sorted retrieves all acronyms ordered by short form ascending
func (r *AcronymRepository) Sorted(ctx context.Context) ([]models.Acronym, error) {
	var acronyms []models.Acronym
	if err := r.db.WithContext(ctx).Order("short ASC").Find(&acronyms).Error; err != nil {
		return nil, err
	}
	return acronyms, nil
}

// OwnerOf resolves the acronym's owning user via its foreign key
func (r *AcronymRepository) OwnerOf(ctx context.Context, acronymID uint) (*models.User, error) {
	acronym, err := r.GetByID(ctx, acronymID)
	if err != nil {
		return nil, err
	}
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "id = ?", acronym.UserID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}
