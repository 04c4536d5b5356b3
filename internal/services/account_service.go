package services

import (
	"context"
	"strings"

	"github.com/amitrajade/vidtube-be/internal/apperr"
	"github.com/amitrajade/vidtube-be/internal/media"
	"github.com/amitrajade/vidtube-be/internal/models"
	"github.com/rs/zerolog/log"
)

// RegisterInput carries the registration form fields plus the local temp
// paths of the uploaded images. AvatarPath is required, CoverImagePath may
// be empty.
type RegisterInput struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// AccountServiceProvider defines the interface for account services.
type AccountServiceProvider interface {
	Register(ctx context.Context, in RegisterInput) (models.User, error)
	UpdateAccountDetails(userID, fullName, email string) (models.User, error)
	UpdateAvatar(ctx context.Context, user models.User, localPath string) (models.User, error)
	UpdateCoverImage(ctx context.Context, user models.User, localPath string) (models.User, error)
}

// AccountService orchestrates registration and profile updates over the
// credential store and the media store.
type AccountService struct {
	users    *UserService
	uploader media.Uploader
}

// NewAccountService creates a new AccountService.
func NewAccountService(users *UserService, uploader media.Uploader) *AccountService {
	return &AccountService{users: users, uploader: uploader}
}

// upload attempts a media upload and degrades gracefully: failures are
// logged and reported as a missing asset, never as a raw service error.
// The local temp file is removed whatever the outcome.
func (s *AccountService) upload(ctx context.Context, localPath string) *media.Asset {
	if localPath == "" {
		return nil
	}
	defer media.RemoveTemp(localPath)

	asset, err := s.uploader.Upload(ctx, localPath)
	if err != nil {
		log.Warn().Err(err).Str("path", localPath).Msg("Media upload failed")
		return nil
	}
	return asset
}

// Register validates the input, uploads the images and creates the user.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	var missing []string
	for _, field := range []struct{ name, value string }{
		{"fullName", in.FullName},
		{"email", in.Email},
		{"username", in.Username},
		{"password", in.Password},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name+" is required")
		}
	}
	if len(missing) > 0 {
		media.RemoveTemp(in.AvatarPath)
		media.RemoveTemp(in.CoverImagePath)
		return models.User{}, apperr.Validation("All fields are required", missing...)
	}

	if in.AvatarPath == "" {
		media.RemoveTemp(in.CoverImagePath)
		return models.User{}, apperr.Validation("Avatar file is required")
	}

	// Fast-path duplicate check; the unique index is the real guarantee.
	exists, err := s.users.Exists(in.Username, in.Email)
	if err != nil {
		media.RemoveTemp(in.AvatarPath)
		media.RemoveTemp(in.CoverImagePath)
		return models.User{}, err
	}
	if exists {
		media.RemoveTemp(in.AvatarPath)
		media.RemoveTemp(in.CoverImagePath)
		return models.User{}, apperr.Conflict("User with email or username already exists")
	}

	avatar := s.upload(ctx, in.AvatarPath)
	coverImage := s.upload(ctx, in.CoverImagePath)

	if avatar == nil {
		return models.User{}, apperr.Validation("Avatar file is required")
	}

	coverURL := ""
	if coverImage != nil {
		coverURL = coverImage.URL
	}

	user, err := s.users.Create(models.User{
		FullName:      in.FullName,
		Email:         in.Email,
		Username:      in.Username,
		AvatarURL:     avatar.URL,
		CoverImageURL: coverURL,
	}, in.Password)
	if err != nil {
		return models.User{}, err
	}

	created, err := s.users.FindByID(user.ID)
	if err != nil {
		return models.User{}, apperr.Internal("Something went wrong while registering the user", err)
	}
	return created, nil
}

// UpdateAccountDetails updates the full name and email; both are required.
func (s *AccountService) UpdateAccountDetails(userID, fullName, email string) (models.User, error) {
	if strings.TrimSpace(fullName) == "" || strings.TrimSpace(email) == "" {
		return models.User{}, apperr.Validation("fullName and email are required")
	}
	return s.users.UpdateAccountDetails(userID, fullName, email)
}

// UpdateAvatar uploads a replacement avatar and stores its URL.
func (s *AccountService) UpdateAvatar(ctx context.Context, user models.User, localPath string) (models.User, error) {
	return s.replaceImage(ctx, user, localPath,
		"Avatar file is required", "Error while uploading avatar",
		user.AvatarURL, s.users.UpdateAvatar)
}

// UpdateCoverImage uploads a replacement cover image and stores its URL.
func (s *AccountService) UpdateCoverImage(ctx context.Context, user models.User, localPath string) (models.User, error) {
	return s.replaceImage(ctx, user, localPath,
		"Cover image file is required", "Error while uploading cover image",
		user.CoverImageURL, s.users.UpdateCoverImage)
}

func (s *AccountService) replaceImage(ctx context.Context, user models.User, localPath, missingMsg, failMsg, previousURL string, update func(id, url string) (models.User, error)) (models.User, error) {
	if localPath == "" {
		return models.User{}, apperr.Validation(missingMsg)
	}
	asset := s.upload(ctx, localPath)
	if asset == nil {
		return models.User{}, apperr.Validation(failMsg)
	}
	// The replaced object is left in the media store; log it so an
	// operator can reap orphans manually.
	if previousURL != "" {
		log.Debug().Str("user_id", user.ID).Str("orphaned_url", previousURL).Msg("Replaced media object left in store")
	}
	return update(user.ID, asset.URL)
}
