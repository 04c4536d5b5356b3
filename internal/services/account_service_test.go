package services

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountFixture(t *testing.T) (*UserService, *AccountService, *fakeUploader) {
	t.Helper()
	users := newTestStore(t)
	uploader := &fakeUploader{}
	return users, NewAccountService(users, uploader), uploader
}

func registerInput(t *testing.T, dir string) RegisterInput {
	t.Helper()
	return RegisterInput{
		FullName:   "Ana A",
		Email:      "ana@x.com",
		Username:   "ana",
		Password:   "p@ss1",
		AvatarPath: writeTempUpload(t, dir, "avatar.png"),
	}
}

func TestRegisterSuccess(t *testing.T) {
	_, accounts, uploader := newAccountFixture(t)
	dir := t.TempDir()
	in := registerInput(t, dir)
	in.CoverImagePath = writeTempUpload(t, dir, "cover.png")

	user, err := accounts.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Username)
	assert.Equal(t, "https://cdn.example.com/avatar.png", user.AvatarURL)
	assert.Equal(t, "https://cdn.example.com/cover.png", user.CoverImageURL)
	assert.Len(t, uploader.uploads, 2)

	// Credential fields never serialize.
	raw, err := json.Marshal(user)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "refreshToken")

	// Temp files are gone after the upload attempt.
	_, err = os.Stat(in.AvatarPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(in.CoverImagePath)
	assert.True(t, os.IsNotExist(err))
}

func TestRegisterWithoutCoverImage(t *testing.T) {
	_, accounts, _ := newAccountFixture(t)
	in := registerInput(t, t.TempDir())

	user, err := accounts.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, user.CoverImageURL)
}

func TestRegisterMissingFields(t *testing.T) {
	_, accounts, _ := newAccountFixture(t)
	in := registerInput(t, t.TempDir())
	in.FullName = "  "
	in.Password = ""

	_, err := accounts.Register(context.Background(), in)
	assertStatus(t, err, http.StatusBadRequest)

	// The staged avatar must not leak on the failure path.
	_, statErr := os.Stat(in.AvatarPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRegisterMissingAvatar(t *testing.T) {
	_, accounts, _ := newAccountFixture(t)
	in := registerInput(t, t.TempDir())
	in.AvatarPath = ""

	_, err := accounts.Register(context.Background(), in)
	assertStatus(t, err, http.StatusBadRequest)
}

func TestRegisterAvatarUploadFailure(t *testing.T) {
	_, accounts, uploader := newAccountFixture(t)
	uploader.fail = true
	in := registerInput(t, t.TempDir())

	_, err := accounts.Register(context.Background(), in)
	assertStatus(t, err, http.StatusBadRequest)

	_, statErr := os.Stat(in.AvatarPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	_, accounts, _ := newAccountFixture(t)
	dir := t.TempDir()

	_, err := accounts.Register(context.Background(), registerInput(t, dir))
	require.NoError(t, err)

	in := registerInput(t, dir)
	in.Email = "different@x.com" // same username
	_, err = accounts.Register(context.Background(), in)
	assertStatus(t, err, http.StatusConflict)
}

func TestUpdateAccountDetailsValidation(t *testing.T) {
	users, accounts, _ := newAccountFixture(t)
	created := createTestUser(t, users, "ana", "ana@x.com", "p@ss1")

	_, err := accounts.UpdateAccountDetails(created.ID, "", "ana@x.com")
	assertStatus(t, err, http.StatusBadRequest)

	updated, err := accounts.UpdateAccountDetails(created.ID, "Ana Maria", "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.FullName)
}

func TestUpdateAvatar(t *testing.T) {
	users, accounts, _ := newAccountFixture(t)
	created := createTestUser(t, users, "ana", "ana@x.com", "p@ss1")

	_, err := accounts.UpdateAvatar(context.Background(), created, "")
	assertStatus(t, err, http.StatusBadRequest)

	path := writeTempUpload(t, t.TempDir(), "new-avatar.png")
	updated, err := accounts.UpdateAvatar(context.Background(), created, path)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/new-avatar.png", updated.AvatarURL)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUpdateCoverImageUploadFailure(t *testing.T) {
	users, accounts, uploader := newAccountFixture(t)
	created := createTestUser(t, users, "ana", "ana@x.com", "p@ss1")
	uploader.fail = true

	path := writeTempUpload(t, t.TempDir(), "cover.png")
	_, err := accounts.UpdateCoverImage(context.Background(), created, path)
	assertStatus(t, err, http.StatusBadRequest)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
