package repository

import (
	"context"
	"errors"

	"github.com/til-acronyms/internal/models"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category name already exists")
)

// CategoryRepository handles category data access and the
// acronym-category pivot rows.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a new category. A duplicate name surfaces as
// ErrDuplicateCategory so callers can fall back to a lookup.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	err := r.db.WithContext(ctx).Create(category).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateCategory
	}
	return err
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	result := r.db.WithContext(ctx).First(&category, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, result.Error
	}
	return &category, nil
}

// GetByName retrieves a category by exact name
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&category)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, result.Error
	}
	return &category, nil
}

// List retrieves all categories
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Attach creates a pivot row linking the acronym to the category
func (r *CategoryRepository) Attach(ctx context.Context, acronymID, categoryID uint) error {
	pivot := &models.AcronymCategory{
		AcronymID:  acronymID,
		CategoryID: categoryID,
	}
	return r.db.WithContext(ctx).Create(pivot).Error
}

// Detach removes the pivot row linking the acronym to the category.
// Detaching a pair that is not attached is a no-op.
func (r *CategoryRepository) Detach(ctx context.Context, acronymID, categoryID uint) error {
	return r.db.WithContext(ctx).
		Where("acronym_id = ? AND category_id = ?", acronymID, categoryID).
		Delete(&models.AcronymCategory{}).Error
}

// CategoriesOf retrieves all categories attached to the acronym
func (r *CategoryRepository) CategoriesOf(ctx context.Context, acronymID uint) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Joins("JOIN acronym_categories ON acronym_categories.category_id = categories.id").
		Where("acronym_categories.acronym_id = ?", acronymID).
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// AcronymsOf retrieves all acronyms attached to the category
func (r *CategoryRepository) AcronymsOf(ctx context.Context, categoryID uint) ([]models.Acronym, error) {
	var acronyms []models.Acronym
	err := r.db.WithContext(ctx).
		Joins("JOIN acronym_categories ON acronym_categories.acronym_id = acronyms.id").
		Where("acronym_categories.category_id = ?", categoryID).
		Find(&acronyms).Error
	if err != nil {
		return nil, err
	}
	return acronyms, nil
}
