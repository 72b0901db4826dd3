package service

import (
	"context"
	"fmt"

	"github.com/til-acronyms/internal/models"
)

// AcronymStore is the acronym persistence surface
type AcronymStore interface {
	Create(ctx context.Context, acronym *models.Acronym) error
	GetByID(ctx context.Context, id uint) (*models.Acronym, error)
	List(ctx context.Context) ([]models.Acronym, error)
	Update(ctx context.Context, acronym *models.Acronym) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, term string) ([]models.Acronym, error)
	First(ctx context.Context) (*models.Acronym, error)
	Sorted(ctx context.Context) ([]models.Acronym, error)
	OwnerOf(ctx context.Context, acronymID uint) (*models.User, error)
}

// AcronymService handles acronym operations. Every mutation takes the
// resolved acting user; the owner is always derived from the actor and
// never from client input.
type AcronymService struct {
	acronyms   AcronymStore
	categories *CategoryService
}

// NewAcronymService creates a new AcronymService
func NewAcronymService(acronyms AcronymStore, categories *CategoryService) *AcronymService {
	return &AcronymService{acronyms: acronyms, categories: categories}
}

// CreateAcronymRequest represents the create/update input, from JSON or form
type CreateAcronymRequest struct {
	Short      string   `form:"short" json:"short" binding:"required"`
	Long       string   `form:"long" json:"long" binding:"required"`
	Categories []string `form:"categories" json:"categories"`
}

// Create creates an acronym owned by the actor and attaches every
// supplied category name, creating categories on first reference.
func (s *AcronymService) Create(ctx context.Context, actor *models.User, req *CreateAcronymRequest) (*models.Acronym, error) {
	acronym := &models.Acronym{
		Short:  req.Short,
		Long:   req.Long,
		UserID: actor.ID,
	}
	if err := s.acronyms.Create(ctx, acronym); err != nil {
		return nil, fmt.Errorf("failed to create acronym: %w", err)
	}

	if err := s.categories.AttachAll(ctx, acronym.ID, req.Categories); err != nil {
		return nil, fmt.Errorf("failed to attach categories: %w", err)
	}
	return acronym, nil
}

// Update replaces the acronym's fields, rebinds ownership to the actor
// and reconciles the category set against the supplied names.
func (s *AcronymService) Update(ctx context.Context, actor *models.User, id uint, req *CreateAcronymRequest) (*models.Acronym, error) {
	acronym, err := s.acronyms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	acronym.Short = req.Short
	acronym.Long = req.Long
	acronym.UserID = actor.ID
	if err := s.acronyms.Update(ctx, acronym); err != nil {
		return nil, fmt.Errorf("failed to update acronym: %w", err)
	}

	if err := s.categories.Reconcile(ctx, acronym.ID, req.Categories); err != nil {
		return nil, fmt.Errorf("failed to reconcile categories: %w", err)
	}
	return acronym, nil
}

// Delete removes the acronym; its pivot rows go with it
func (s *AcronymService) Delete(ctx context.Context, id uint) error {
	return s.acronyms.Delete(ctx, id)
}

// Get retrieves an acronym by ID
func (s *AcronymService) Get(ctx context.Context, id uint) (*models.Acronym, error) {
	return s.acronyms.GetByID(ctx, id)
}

// List retrieves all acronyms
func (s *AcronymService) List(ctx context.Context) ([]models.Acronym, error) {
	return s.acronyms.List(ctx)
}

// Search retrieves acronyms matching the term on either form
func (s *AcronymService) Search(ctx context.Context, term string) ([]models.Acronym, error) {
	return s.acronyms.Search(ctx, term)
}

// First retrieves the first acronym
func (s *AcronymService) First(ctx context.Context) (*models.Acronym, error) {
	return s.acronyms.First(ctx)
}

// Sorted retrieves all acronyms ordered by short form
func (s *AcronymService) Sorted(ctx context.Context) ([]models.Acronym, error) {
	return s.acronyms.Sorted(ctx)
}

// Owner resolves the acronym's owning user
func (s *AcronymService) Owner(ctx context.Context, acronymID uint) (*models.User, error) {
	return s.acronyms.OwnerOf(ctx, acronymID)
}

// Categories resolves the acronym's category set
func (s *AcronymService) Categories(ctx context.Context, acronymID uint) ([]models.Category, error) {
	return s.categories.CategoriesOf(ctx, acronymID)
}
