package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/til-acronyms/internal/config"
	"github.com/til-acronyms/internal/models"
	"github.com/til-acronyms/internal/repository"
)

var (
	ErrInvalidState   = errors.New("invalid oauth state")
	ErrGoogleExchange = errors.New("google token exchange failed")
)

const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v1/userinfo?alt=json"

	stateTTL = 10 * time.Minute
)

// GoogleUserInfo is the profile data returned by Google's userinfo API
type GoogleUserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleService handles the Google login flow: redirect with a signed
// state, code exchange, profile fetch, and find-or-create of the local
// user whose username is the Google email.
type GoogleService struct {
	users  UserStore
	cfg    config.GoogleConfig
	client *http.Client
}

// NewGoogleService creates a new GoogleService
func NewGoogleService(users UserStore, cfg config.GoogleConfig) *GoogleService {
	return &GoogleService{
		users:  users,
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewState returns a signed short-lived state parameter for the redirect
func (s *GoogleService) NewState() (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(stateTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.StateSecret))
}

// VerifyState checks the signature and expiry of a returned state
func (s *GoogleService) VerifyState(state string) error {
	token, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.StateSecret), nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidState
	}
	return nil
}

// AuthURL builds the Google authorization redirect URL
func (s *GoogleService) AuthURL(state string) string {
	params := url.Values{}
	params.Set("client_id", s.cfg.ClientID)
	params.Set("redirect_uri", s.cfg.CallbackURL)
	params.Set("response_type", "code")
	params.Set("scope", "profile email")
	params.Set("state", state)
	return googleAuthURL + "?" + params.Encode()
}

// Exchange trades the authorization code for an access token
func (s *GoogleService) Exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)
	form.Set("redirect_uri", s.cfg.CallbackURL)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGoogleExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", ErrGoogleExchange
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGoogleExchange, err)
	}
	if body.AccessToken == "" {
		return "", ErrGoogleExchange
	}
	return body.AccessToken, nil
}

// FetchUserInfo retrieves the Google profile for the access token
func (s *GoogleService) FetchUserInfo(ctx context.Context, accessToken string) (*GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// LoginOrRegister finds the local user whose username equals the Google
// email, creating one with an empty local password if absent. Password
// login never succeeds for such users.
func (s *GoogleService) LoginOrRegister(ctx context.Context, info *GoogleUserInfo) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, info.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	user = &models.User{
		Name:     info.Name,
		Username: info.Email,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Concurrent callback for the same account; read the winner.
		if errors.Is(err, repository.ErrUsernameTaken) {
			return s.users.GetByUsername(ctx, info.Email)
		}
		return nil, err
	}
	return user, nil
}
