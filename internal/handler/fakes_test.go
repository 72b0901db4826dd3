package handler

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/til-acronyms/internal/models"
	"github.com/til-acronyms/internal/repository"
)

// memDB backs the fake stores the handler tests run the real services
// against. Error contracts mirror the repository package.
type memDB struct {
	mu sync.Mutex

	users  map[uuid.UUID]models.User
	tokens map[string]models.Token

	acronymSeq  uint
	acronyms    map[uint]models.Acronym
	categorySeq uint
	categories  map[uint]models.Category
	pivots      map[uuid.UUID]models.AcronymCategory

	sessions map[string]uuid.UUID
	csrf     map[string]string
}

func newMemDB() *memDB {
	return &memDB{
		users:      make(map[uuid.UUID]models.User),
		tokens:     make(map[string]models.Token),
		acronyms:   make(map[uint]models.Acronym),
		categories: make(map[uint]models.Category),
		pivots:     make(map[uuid.UUID]models.AcronymCategory),
		sessions:   make(map[string]uuid.UUID),
		csrf:       make(map[string]string),
	}
}

type fakeUserStore struct{ db *memDB }

func (s *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.users {
		if existing.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.db.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	user, ok := s.db.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

func (s *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, user := range s.db.users {
		if user.Username == username {
			user := user
			return &user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) List(ctx context.Context) ([]models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	users := make([]models.User, 0, len(s.db.users))
	for _, user := range s.db.users {
		users = append(users, user)
	}
	return users, nil
}

func (s *fakeUserStore) AcronymsOf(ctx context.Context, userID uuid.UUID) ([]models.Acronym, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	acronyms := []models.Acronym{}
	for _, acronym := range s.db.acronyms {
		if acronym.UserID == userID {
			acronyms = append(acronyms, acronym)
		}
	}
	return acronyms, nil
}

type fakeTokenStore struct{ db *memDB }

func (s *fakeTokenStore) Create(ctx context.Context, token *models.Token) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.tokens[token.Token]; ok {
		return repository.ErrTokenCollision
	}
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	s.db.tokens[token.Token] = *token
	return nil
}

func (s *fakeTokenStore) GetByToken(ctx context.Context, tokenString string) (*models.Token, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	token, ok := s.db.tokens[tokenString]
	if !ok {
		return nil, repository.ErrTokenNotFound
	}
	return &token, nil
}

type fakeAcronymStore struct{ db *memDB }

func (s *fakeAcronymStore) Create(ctx context.Context, acronym *models.Acronym) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.acronymSeq++
	acronym.ID = s.db.acronymSeq
	s.db.acronyms[acronym.ID] = *acronym
	return nil
}

func (s *fakeAcronymStore) GetByID(ctx context.Context, id uint) (*models.Acronym, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	acronym, ok := s.db.acronyms[id]
	if !ok {
		return nil, repository.ErrAcronymNotFound
	}
	return &acronym, nil
}

func (s *fakeAcronymStore) List(ctx context.Context) ([]models.Acronym, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	acronyms := make([]models.Acronym, 0, len(s.db.acronyms))
	for _, acronym := range s.db.acronyms {
		acronyms = append(acronyms, acronym)
	}
	return acronyms, nil
}

func (s *fakeAcronymStore) Update(ctx context.Context, acronym *models.Acronym) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.acronyms[acronym.ID]; !ok {
		return repository.ErrAcronymNotFound
	}
	s.db.acronyms[acronym.ID] = *acronym
	return nil
}

func (s *fakeAcronymStore) Delete(ctx context.Context, id uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.acronyms[id]; !ok {
		return repository.ErrAcronymNotFound
	}
	delete(s.db.acronyms, id)
	for pivotID, pivot := range s.db.pivots {
		if pivot.AcronymID == id {
			delete(s.db.pivots, pivotID)
		}
	}
	return nil
}

func (s *fakeAcronymStore) Search(ctx context.Context, term string) ([]models.Acronym, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	acronyms := []models.Acronym{}
	for _, acronym := range s.db.acronyms {
		if acronym.Short == term || acronym.Long == term {
			acronyms = append(acronyms, acronym)
		}
	}
	return acronyms, nil
}

func (s *fakeAcronymStore) First(ctx context.Context) (*models.Acronym, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var first *models.Acronym
	for _, acronym := range s.db.acronyms {
		acronym := acronym
		if first == nil || acronym.ID < first.ID {
			first = &acronym
		}
	}
	if first == nil {
		return nil, repository.ErrAcronymNotFound
	}
	return first, nil
}

func (s *fakeAcronymStore) Sorted(ctx context.Context) ([]models.Acronym, error) {
	acronyms, _ := s.List(ctx)
	sort.Slice(acronyms, func(i, j int) bool { return acronyms[i].Short < acronyms[j].Short })
	return acronyms, nil
}

func (s *fakeAcronymStore) OwnerOf(ctx context.Context, acronymID uint) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	acronym, ok := s.db.acronyms[acronymID]
	if !ok {
		return nil, repository.ErrAcronymNotFound
	}
	user, ok := s.db.users[acronym.UserID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

type fakeCategoryStore struct{ db *memDB }

func (s *fakeCategoryStore) Create(ctx context.Context, category *models.Category) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.categories {
		if existing.Name == category.Name {
			return repository.ErrDuplicateCategory
		}
	}
	s.db.categorySeq++
	category.ID = s.db.categorySeq
	s.db.categories[category.ID] = *category
	return nil
}

func (s *fakeCategoryStore) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	category, ok := s.db.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return &category, nil
}

func (s *fakeCategoryStore) GetByName(ctx context.Context, name string) (*models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, category := range s.db.categories {
		if category.Name == name {
			category := category
			return &category, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (s *fakeCategoryStore) List(ctx context.Context) ([]models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	categories := make([]models.Category, 0, len(s.db.categories))
	for _, category := range s.db.categories {
		categories = append(categories, category)
	}
	return categories, nil
}

func (s *fakeCategoryStore) Attach(ctx context.Context, acronymID, categoryID uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	pivot := models.AcronymCategory{
		ID:         uuid.New(),
		AcronymID:  acronymID,
		CategoryID: categoryID,
	}
	s.db.pivots[pivot.ID] = pivot
	return nil
}

func (s *fakeCategoryStore) Detach(ctx context.Context, acronymID, categoryID uint) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for pivotID, pivot := range s.db.pivots {
		if pivot.AcronymID == acronymID && pivot.CategoryID == categoryID {
			delete(s.db.pivots, pivotID)
		}
	}
	return nil
}

func (s *fakeCategoryStore) CategoriesOf(ctx context.Context, acronymID uint) ([]models.Category, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	categories := []models.Category{}
	for _, pivot := range s.db.pivots {
		if pivot.AcronymID == acronymID {
			if category, ok := s.db.categories[pivot.CategoryID]; ok {
				categories = append(categories, category)
			}
		}
	}
	return categories, nil
}

func (s *fakeCategoryStore) AcronymsOf(ctx context.Context, categoryID uint) ([]models.Acronym, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	acronyms := []models.Acronym{}
	for _, pivot := range s.db.pivots {
		if pivot.CategoryID == categoryID {
			if acronym, ok := s.db.acronyms[pivot.AcronymID]; ok {
				acronyms = append(acronyms, acronym)
			}
		}
	}
	return acronyms, nil
}

type fakeSessionStore struct{ db *memDB }

func (s *fakeSessionStore) Bind(ctx context.Context, sessionID string, userID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.sessions[sessionID] = userID
	return nil
}

func (s *fakeSessionStore) Unbind(ctx context.Context, sessionID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	delete(s.db.sessions, sessionID)
	delete(s.db.csrf, sessionID)
	return nil
}

func (s *fakeSessionStore) UserID(ctx context.Context, sessionID string) (uuid.UUID, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	userID, ok := s.db.sessions[sessionID]
	if !ok {
		return uuid.Nil, repository.ErrSessionNotFound
	}
	return userID, nil
}

func (s *fakeSessionStore) SetCSRF(ctx context.Context, sessionID, token string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.csrf[sessionID] = token
	return nil
}

func (s *fakeSessionStore) CSRF(ctx context.Context, sessionID string) (string, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	token, ok := s.db.csrf[sessionID]
	if !ok {
		return "", repository.ErrSessionNotFound
	}
	return token, nil
}

func (s *fakeSessionStore) ClearCSRF(ctx context.Context, sessionID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	delete(s.db.csrf, sessionID)
	return nil
}
