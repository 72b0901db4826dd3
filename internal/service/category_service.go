package service

import (
	"context"
	"errors"

	"github.com/til-acronyms/internal/models"
	"github.com/til-acronyms/internal/repository"
	"golang.org/x/sync/errgroup"
)

// ensureRetries bounds the duplicate-name race loop in Ensure
const ensureRetries = 3

// CategoryStore is the category and pivot persistence surface
type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Attach(ctx context.Context, acronymID, categoryID uint) error
	Detach(ctx context.Context, acronymID, categoryID uint) error
	CategoriesOf(ctx context.Context, acronymID uint) ([]models.Category, error)
	AcronymsOf(ctx context.Context, categoryID uint) ([]models.Acronym, error)
}

// CategoryService manages categories and the acronym-category
// relationship: get-or-create by name, attach/detach, and reconciling a
// desired name set against the current one.
type CategoryService struct {
	categories CategoryStore
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categories CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

// CreateCategoryRequest represents the create category request
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create creates a category with the given name. A duplicate name is a
// conflict, not a server error.
func (s *CategoryService) Create(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{Name: req.Name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Ensure looks a category up by exact name, creating it if absent.
// Two callers racing on the same new name both hit the unique index;
// the loser falls back to re-reading by name. The store is the only
// arbiter, no in-process lock is held.
func (s *CategoryService) Ensure(ctx context.Context, name string) (*models.Category, error) {
	for attempt := 0; attempt < ensureRetries; attempt++ {
		category, err := s.categories.GetByName(ctx, name)
		if err == nil {
			return category, nil
		}
		if !errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, err
		}

		category = &models.Category{Name: name}
		err = s.categories.Create(ctx, category)
		if err == nil {
			return category, nil
		}
		if !errors.Is(err, repository.ErrDuplicateCategory) {
			return nil, err
		}
		// Lost the race; the winner's row is read on the next pass.
	}
	return nil, repository.ErrDuplicateCategory
}

// Get retrieves a category by ID
func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	return s.categories.GetByID(ctx, id)
}

// List retrieves all categories
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// AcronymsOf retrieves all acronyms attached to the category
func (s *CategoryService) AcronymsOf(ctx context.Context, categoryID uint) ([]models.Acronym, error) {
	return s.categories.AcronymsOf(ctx, categoryID)
}

// CategoriesOf retrieves all categories attached to the acronym
func (s *CategoryService) CategoriesOf(ctx context.Context, acronymID uint) ([]models.Category, error) {
	return s.categories.CategoriesOf(ctx, acronymID)
}

// Attach links the acronym to the category
func (s *CategoryService) Attach(ctx context.Context, acronymID, categoryID uint) error {
	return s.categories.Attach(ctx, acronymID, categoryID)
}

// Detach unlinks the acronym from the category; a missing link is a no-op
func (s *CategoryService) Detach(ctx context.Context, acronymID, categoryID uint) error {
	return s.categories.Detach(ctx, acronymID, categoryID)
}

// AttachAll ensures and attaches every named category to a freshly
// created acronym. The operations run concurrently and are joined as a
// unit; any failure fails the whole batch.
func (s *CategoryService) AttachAll(ctx context.Context, acronymID uint, names []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		name := name
		g.Go(func() error {
			return s.ensureAndAttach(gctx, acronymID, name)
		})
	}
	return g.Wait()
}

// Reconcile brings the acronym's category set in line with the desired
// names: set difference against the current names, then attach the
// missing ones and detach the extra ones. The batch is awaited as a
// unit; partial completion surfaces as an error.
func (s *CategoryService) Reconcile(ctx context.Context, acronymID uint, desiredNames []string) error {
	current, err := s.categories.CategoriesOf(ctx, acronymID)
	if err != nil {
		return err
	}

	currentByName := make(map[string]models.Category, len(current))
	for _, c := range current {
		currentByName[c.Name] = c
	}
	desired := make(map[string]struct{}, len(desiredNames))
	for _, name := range desiredNames {
		desired[name] = struct{}{}
	}

	g, gctx := errgroup.WithContext(ctx)
	for name := range desired {
		if _, ok := currentByName[name]; ok {
			continue
		}
		name := name
		g.Go(func() error {
			return s.ensureAndAttach(gctx, acronymID, name)
		})
	}
	for name, category := range currentByName {
		if _, ok := desired[name]; ok {
			continue
		}
		category := category
		g.Go(func() error {
			return s.categories.Detach(gctx, acronymID, category.ID)
		})
	}
	return g.Wait()
}

func (s *CategoryService) ensureAndAttach(ctx context.Context, acronymID uint, name string) error {
	category, err := s.Ensure(ctx, name)
	if err != nil {
		return err
	}
	return s.categories.Attach(ctx, acronymID, category.ID)
}
