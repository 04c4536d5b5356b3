package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amitrajade/vidtube-be/internal/auth"
	"github.com/amitrajade/vidtube-be/internal/config"
	"github.com/amitrajade/vidtube-be/internal/database"
	"github.com/amitrajade/vidtube-be/internal/media"
	"github.com/amitrajade/vidtube-be/internal/models"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *UserService {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewUserService(db)
}

func newTokenService() *auth.TokenService {
	return auth.NewTokenService(&config.Config{
		AccessTokenSecret:  "test-access-secret",
		RefreshTokenSecret: "test-refresh-secret",
		AccessTokenExpiry:  time.Minute,
		RefreshTokenExpiry: time.Hour,
	})
}

func createInput(username, email string) models.User {
	return models.User{
		Username:  username,
		Email:     email,
		FullName:  "Test User",
		AvatarURL: "https://cdn.example.com/avatar.png",
	}
}

func createTestUser(t *testing.T, users *UserService, username, email, password string) models.User {
	t.Helper()
	user, err := users.Create(models.User{
		Username:  username,
		Email:     email,
		FullName:  "Test User",
		AvatarURL: "https://cdn.example.com/avatar.png",
	}, password)
	require.NoError(t, err)
	return user
}

// fakeUploader implements media.Uploader without any network traffic.
type fakeUploader struct {
	fail    bool
	uploads []string
}

func (f *fakeUploader) Upload(ctx context.Context, localPath string) (*media.Asset, error) {
	if f.fail {
		return nil, errors.New("media store rejected upload")
	}
	f.uploads = append(f.uploads, localPath)
	name := filepath.Base(localPath)
	return &media.Asset{URL: "https://cdn.example.com/" + name, PublicID: "assets/" + name}, nil
}

func (f *fakeUploader) Destroy(ctx context.Context, publicID string) error {
	return nil
}

func writeTempUpload(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("fake image bytes"), 0644))
	return path
}
