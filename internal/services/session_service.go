package services

import (
	"fmt"

	"github.com/amitrajade/vidtube-be/internal/apperr"
	"github.com/amitrajade/vidtube-be/internal/auth"
	"github.com/amitrajade/vidtube-be/internal/models"
)

// TokenPair carries a freshly minted access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SessionServiceProvider defines the interface for session services.
type SessionServiceProvider interface {
	Login(identifier, password string) (models.User, TokenPair, error)
	Refresh(incomingToken string) (TokenPair, error)
	Logout(userID string) error
	ChangePassword(userID, oldPassword, newPassword string) error
}

// SessionService orchestrates login, logout, token refresh and password
// changes over the credential store and the token service.
type SessionService struct {
	users  *UserService
	tokens *auth.TokenService
}

// NewSessionService creates a new SessionService.
func NewSessionService(users *UserService, tokens *auth.TokenService) *SessionService {
	return &SessionService{users: users, tokens: tokens}
}

// issueTokenPair mints both tokens and persists the refresh token as the
// single active one for the user.
func (s *SessionService) issueTokenPair(user models.User) (TokenPair, error) {
	accessToken, err := s.tokens.AccessToken(user)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.tokens.RefreshToken(user)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	if err := s.users.UpdateRefreshToken(user.ID, refreshToken); err != nil {
		return TokenPair{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}
	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Login authenticates a user by username or email and mints a token pair.
func (s *SessionService) Login(identifier, password string) (models.User, TokenPair, error) {
	user, err := s.users.FindByUsernameOrEmail(identifier)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}

	if !s.users.CheckPassword(user.PasswordHash, password) {
		return models.User{}, TokenPair{}, apperr.Unauthorized("Password is incorrect")
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}
	return user.Sanitized(), pair, nil
}

// Refresh exchanges a valid, current refresh token for a new pair. The
// incoming token must exactly match the persisted one; anything else is a
// replayed or superseded token and is rejected.
func (s *SessionService) Refresh(incomingToken string) (TokenPair, error) {
	if incomingToken == "" {
		return TokenPair{}, apperr.Unauthorized("Refresh token is required")
	}

	claims, err := s.tokens.VerifyRefresh(incomingToken)
	if err != nil {
		return TokenPair{}, err
	}

	user, err := s.users.findByIDWithSecrets(claims.UserID)
	if err != nil {
		return TokenPair{}, apperr.Unauthorized("Invalid refresh token")
	}

	if user.RefreshToken != incomingToken {
		return TokenPair{}, apperr.Unauthorized("Refresh token is expired or used")
	}

	return s.issueTokenPair(user)
}

// Logout invalidates the user's persisted refresh token.
func (s *SessionService) Logout(userID string) error {
	return s.users.ClearRefreshToken(userID)
}

// ChangePassword verifies the old password and stores a new hash through
// the dedicated password operation.
func (s *SessionService) ChangePassword(userID, oldPassword, newPassword string) error {
	user, err := s.users.findByIDWithSecrets(userID)
	if err != nil {
		return err
	}
	if !s.users.CheckPassword(user.PasswordHash, oldPassword) {
		return apperr.Unauthorized("Current password is incorrect")
	}
	return s.users.UpdatePasswordHash(userID, newPassword)
}
