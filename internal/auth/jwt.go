package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/amitrajade/vidtube-be/internal/api/response"
	"github.com/amitrajade/vidtube-be/internal/apperr"
	"github.com/amitrajade/vidtube-be/internal/config"
	"github.com/amitrajade/vidtube-be/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AccessClaims is the payload of an access token. It is self-sufficient for
// authorization checks without a database round trip.
type AccessClaims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. It carries only the user
// identifier to limit the blast radius of a leaked token.
type RefreshClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies the two token classes. Secrets and
// expiries are injected from configuration, never read ambiently.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewTokenService creates a TokenService from the application config.
func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessExpiry:  cfg.AccessTokenExpiry,
		refreshExpiry: cfg.RefreshTokenExpiry,
	}
}

// AccessToken creates a short-lived token embedding the identity claims.
func (t *TokenService) AccessToken(user models.User) (string, error) {
	claims := &AccessClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(t.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.accessSecret)
}

// RefreshToken creates a longer-lived token embedding only the user ID.
func (t *TokenService) RefreshToken(user models.User) (string, error) {
	claims := &RefreshClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(t.refreshExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			// Unique per issue so rotation always produces a new value.
			ID: uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.refreshSecret)
}

// VerifyAccess parses and validates an access token string.
func (t *TokenService) VerifyAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.accessSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("Invalid access token")
	}
	return claims, nil
}

// VerifyRefresh parses and validates a refresh token string.
func (t *TokenService) VerifyRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.refreshSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}
	return claims, nil
}

// UserLoader loads a user by ID for the auth middleware.
type UserLoader interface {
	FindByID(id string) (models.User, error)
}

type contextKey string

const userContextKey = contextKey("currentUser")

// RequireAuth creates a middleware protecting routes. The token is taken
// from the Authorization header first, then the accessToken cookie; the
// identified user is loaded and attached to the request context.
func (t *TokenService) RequireAuth(users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, "Bearer ")
				if len(parts) == 2 {
					tokenStr = parts[1]
				}
			}

			if tokenStr == "" {
				cookie, err := r.Cookie("accessToken")
				if err == nil {
					tokenStr = cookie.Value
				}
			}

			if tokenStr == "" {
				response.Error(w, apperr.Unauthorized("Unauthorized request"))
				return
			}

			claims, err := t.VerifyAccess(tokenStr)
			if err != nil {
				response.Error(w, err)
				return
			}

			user, err := users.FindByID(claims.UserID)
			if err != nil {
				log.Warn().Err(err).Str("user_id", claims.UserID).Msg("User from token not found")
				response.Error(w, apperr.Unauthorized("Invalid access token"))
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user.Sanitized())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the authenticated user attached by RequireAuth.
func CurrentUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// WithUser attaches a user to the context. Exposed for handler tests.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
