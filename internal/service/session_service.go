package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/til-acronyms/internal/models"
	"github.com/til-acronyms/internal/repository"
	"github.com/til-acronyms/pkg/keygen"
)

var (
	ErrNoSession    = errors.New("no authenticated session")
	ErrCSRFMismatch = errors.New("form token mismatch")
)

// SessionBindings is the session persistence surface: an opaque
// cookie-carried key bound to a user, plus auxiliary CSRF storage
// scoped to the same session.
type SessionBindings interface {
	Bind(ctx context.Context, sessionID string, userID uuid.UUID) error
	Unbind(ctx context.Context, sessionID string) error
	UserID(ctx context.Context, sessionID string) (uuid.UUID, error)
	SetCSRF(ctx context.Context, sessionID, token string) error
	CSRF(ctx context.Context, sessionID string) (string, error)
	ClearCSRF(ctx context.Context, sessionID string) error
}

// SessionManager handles cookie-backed browser sessions and the
// one-time CSRF tokens protecting state-changing forms.
type SessionManager struct {
	store SessionBindings
	users UserStore
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(store SessionBindings, users UserStore) *SessionManager {
	return &SessionManager{store: store, users: users}
}

// Start creates a fresh session bound to the user and returns its key
func (m *SessionManager) Start(ctx context.Context, userID uuid.UUID) (string, error) {
	sessionID, err := keygen.SessionID()
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	if err := m.store.Bind(ctx, sessionID, userID); err != nil {
		return "", err
	}
	return sessionID, nil
}

// Destroy removes the session binding
func (m *SessionManager) Destroy(ctx context.Context, sessionID string) error {
	return m.store.Unbind(ctx, sessionID)
}

// Current resolves the session key to its authenticated user
func (m *SessionManager) Current(ctx context.Context, sessionID string) (*models.User, error) {
	userID, err := m.store.UserID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return user, nil
}

// IssueCSRF generates a form token and stores it against the session.
// The token is embedded in the rendered form and checked on submission.
func (m *SessionManager) IssueCSRF(ctx context.Context, sessionID string) (string, error) {
	token, err := keygen.CSRFToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate form token: %w", err)
	}
	if err := m.store.SetCSRF(ctx, sessionID, token); err != nil {
		return "", err
	}
	return token, nil
}

// VerifyCSRF compares the submitted form token against the stored one.
// The stored token is cleared before the comparison, so a token passes
// at most once; resubmitting the same form fails until it is re-fetched.
func (m *SessionManager) VerifyCSRF(ctx context.Context, sessionID, submitted string) error {
	stored, err := m.store.CSRF(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return ErrCSRFMismatch
		}
		return err
	}

	if err := m.store.ClearCSRF(ctx, sessionID); err != nil {
		return err
	}

	if submitted == "" || stored != submitted {
		return ErrCSRFMismatch
	}
	return nil
}
