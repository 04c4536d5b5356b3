package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/amitrajade/vidtube-be/internal/api/response"
	"github.com/amitrajade/vidtube-be/internal/apperr"
	"github.com/amitrajade/vidtube-be/internal/auth"
	"github.com/amitrajade/vidtube-be/internal/config"
	"github.com/amitrajade/vidtube-be/internal/media"
	"github.com/amitrajade/vidtube-be/internal/models"
	"github.com/amitrajade/vidtube-be/internal/services"
	"github.com/rs/zerolog/log"
)

const maxUploadMemory = 32 << 20

// UserHandler handles HTTP requests for registration, sessions and
// profile management.
type UserHandler struct {
	cfg      *config.Config
	sessions services.SessionServiceProvider
	accounts services.AccountServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(cfg *config.Config, sessions services.SessionServiceProvider, accounts services.AccountServiceProvider) *UserHandler {
	return &UserHandler{cfg: cfg, sessions: sessions, accounts: accounts}
}

// LoginPayload defines the structure for login requests. Either username
// or email identifies the account.
type LoginPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) setAuthCookies(w http.ResponseWriter, pair services.TokenPair) {
	secure := h.cfg.IsProduction()
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    pair.AccessToken,
		Expires:  time.Now().Add(h.cfg.AccessTokenExpiry),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    pair.RefreshToken,
		Expires:  time.Now().Add(h.cfg.RefreshTokenExpiry),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
}

func (h *UserHandler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cfg.IsProduction(),
			SameSite: http.SameSiteStrictMode,
			Path:     "/",
		})
	}
}

// saveUpload writes the named multipart file to the temp dir and returns
// its path, or "" when the part is absent.
func (h *UserHandler) saveUpload(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}
	defer file.Close()
	return media.SaveTemp(h.cfg.TempUploadDir, file, header.Filename)
}

// Register handles new user registration with avatar and optional cover
// image uploads.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.Error(w, apperr.Validation("Invalid multipart form"))
		return
	}

	avatarPath, err := h.saveUpload(r, "avatar")
	if err != nil {
		log.Error().Err(err).Msg("Failed to stage avatar upload")
		response.Error(w, err)
		return
	}
	coverPath, err := h.saveUpload(r, "coverImage")
	if err != nil {
		media.RemoveTemp(avatarPath)
		log.Error().Err(err).Msg("Failed to stage cover image upload")
		response.Error(w, err)
		return
	}

	user, err := h.accounts.Register(r.Context(), services.RegisterInput{
		FullName:       r.FormValue("fullName"),
		Email:          r.FormValue("email"),
		Username:       r.FormValue("username"),
		Password:       r.FormValue("password"),
		AvatarPath:     avatarPath,
		CoverImagePath: coverPath,
	})
	if err != nil {
		log.Warn().Err(err).Str("username", r.FormValue("username")).Msg("Failed to register user")
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, user, "User registered successfully")
}

// Login handles user authentication and sets the token cookies.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.Error(w, apperr.Validation("Invalid request body"))
		return
	}

	identifier := payload.Username
	if identifier == "" {
		identifier = payload.Email
	}
	if identifier == "" {
		response.Error(w, apperr.Validation("Email or username is required"))
		return
	}

	user, pair, err := h.sessions.Login(identifier, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("identifier", identifier).Msg("Failed authentication attempt")
		response.Error(w, err)
		return
	}

	h.setAuthCookies(w, pair)
	response.JSON(w, http.StatusOK, map[string]any{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "User logged in successfully")
}

// Logout invalidates the session and clears both cookies.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		response.Error(w, apperr.Unauthorized("Unauthorized request"))
		return
	}

	if err := h.sessions.Logout(user.ID); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to log out user")
		response.Error(w, err)
		return
	}

	h.clearAuthCookies(w)
	response.JSON(w, http.StatusOK, map[string]any{}, "User logged out")
}

// RefreshToken rotates the refresh token and resets both cookies. The
// incoming token is read from the cookie first, then the body.
func (h *UserHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var incoming string
	if cookie, err := r.Cookie("refreshToken"); err == nil {
		incoming = cookie.Value
	}
	if incoming == "" {
		var payload struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			incoming = payload.RefreshToken
		}
	}

	pair, err := h.sessions.Refresh(incoming)
	if err != nil {
		log.Warn().Err(err).Msg("Failed token refresh attempt")
		response.Error(w, err)
		return
	}

	h.setAuthCookies(w, pair)
	response.JSON(w, http.StatusOK, pair, "Access token refreshed")
}

// ChangePassword verifies the old password and replaces the stored hash.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		response.Error(w, apperr.Unauthorized("Unauthorized request"))
		return
	}

	var payload struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.Error(w, apperr.Validation("Invalid request body"))
		return
	}
	if payload.OldPassword == "" || payload.NewPassword == "" {
		response.Error(w, apperr.Validation("Old and new passwords are required"))
		return
	}

	if err := h.sessions.ChangePassword(user.ID, payload.OldPassword, payload.NewPassword); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed password change")
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{}, "Password changed successfully")
}

// CurrentUser returns the identity attached by the auth middleware.
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		response.Error(w, apperr.Unauthorized("Unauthorized request"))
		return
	}
	response.JSON(w, http.StatusOK, user, "Current user fetched successfully")
}

// UpdateAccount updates the full name and email of the current user.
func (h *UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		response.Error(w, apperr.Unauthorized("Unauthorized request"))
		return
	}

	var payload struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.Error(w, apperr.Validation("Invalid request body"))
		return
	}

	updated, err := h.accounts.UpdateAccountDetails(user.ID, payload.FullName, payload.Email)
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to update account details")
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, updated, "Account details updated successfully")
}

// UpdateAvatar replaces the current user's avatar.
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", "Avatar updated successfully", h.accounts.UpdateAvatar)
}

// UpdateCoverImage replaces the current user's cover image.
func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", "Cover image updated successfully", h.accounts.UpdateCoverImage)
}

func (h *UserHandler) updateImage(w http.ResponseWriter, r *http.Request, field, message string,
	update func(ctx context.Context, user models.User, localPath string) (models.User, error)) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		response.Error(w, apperr.Unauthorized("Unauthorized request"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.Error(w, apperr.Validation("Invalid multipart form"))
		return
	}
	path, err := h.saveUpload(r, field)
	if err != nil {
		log.Error().Err(err).Str("field", field).Msg("Failed to stage image upload")
		response.Error(w, err)
		return
	}

	updated, err := update(r.Context(), user, path)
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Str("field", field).Msg("Failed to update image")
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, updated, message)
}
