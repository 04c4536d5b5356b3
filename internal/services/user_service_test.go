package services

import (
	"net/http"
	"testing"

	"github.com/amitrajade/vidtube-be/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLowercasesAndHashes(t *testing.T) {
	users := newTestStore(t)

	created := createTestUser(t, users, "Ana", "ANA@X.com", "p@ss1")
	assert.Equal(t, "ana", created.Username)
	assert.Equal(t, "ana@x.com", created.Email)
	assert.Empty(t, created.PasswordHash)

	stored, err := users.FindByUsernameOrEmail("ana")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "p@ss1", stored.PasswordHash)
	assert.True(t, users.CheckPassword(stored.PasswordHash, "p@ss1"))
	assert.False(t, users.CheckPassword(stored.PasswordHash, "wrong"))
}

func TestFindByUsernameOrEmail(t *testing.T) {
	users := newTestStore(t)
	createTestUser(t, users, "ana", "ana@x.com", "p@ss1")

	byUsername, err := users.FindByUsernameOrEmail("ana")
	require.NoError(t, err)
	byEmail, err := users.FindByUsernameOrEmail("ANA@X.COM")
	require.NoError(t, err)
	assert.Equal(t, byUsername.ID, byEmail.ID)

	_, err = users.FindByUsernameOrEmail("nobody")
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestFindByIDStripsSecrets(t *testing.T) {
	users := newTestStore(t)
	created := createTestUser(t, users, "ana", "ana@x.com", "p@ss1")
	require.NoError(t, users.UpdateRefreshToken(created.ID, "some-refresh-token"))

	fetched, err := users.FindByID(created.ID)
	require.NoError(t, err)
	assert.Empty(t, fetched.PasswordHash)
	assert.Empty(t, fetched.RefreshToken)
}

func TestDuplicateUniqueFieldsConflict(t *testing.T) {
	users := newTestStore(t)
	createTestUser(t, users, "ana", "ana@x.com", "p@ss1")

	// Same username, different email still conflicts on the unique index.
	_, err := users.Create(createInput("ana", "other@x.com"), "p@ss2")
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.Status)

	// Same email, different username.
	_, err = users.Create(createInput("bob", "ana@x.com"), "p@ss2")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestRefreshTokenLifecycle(t *testing.T) {
	users := newTestStore(t)
	created := createTestUser(t, users, "ana", "ana@x.com", "p@ss1")

	require.NoError(t, users.UpdateRefreshToken(created.ID, "token-1"))
	stored, err := users.findByIDWithSecrets(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "token-1", stored.RefreshToken)

	// Reissue overwrites: a single active token per user.
	require.NoError(t, users.UpdateRefreshToken(created.ID, "token-2"))
	stored, err = users.findByIDWithSecrets(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "token-2", stored.RefreshToken)

	require.NoError(t, users.ClearRefreshToken(created.ID))
	stored, err = users.findByIDWithSecrets(created.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.RefreshToken)
}

func TestUpdateAccountDetails(t *testing.T) {
	users := newTestStore(t)
	created := createTestUser(t, users, "ana", "ana@x.com", "p@ss1")

	updated, err := users.UpdateAccountDetails(created.ID, "Ana Maria", "Ana.New@X.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.FullName)
	assert.Equal(t, "ana.new@x.com", updated.Email)
	assert.Empty(t, updated.PasswordHash)
}

func TestUpdatePasswordHash(t *testing.T) {
	users := newTestStore(t)
	created := createTestUser(t, users, "ana", "ana@x.com", "p@ss1")

	require.NoError(t, users.UpdatePasswordHash(created.ID, "n3w-pass"))

	stored, err := users.findByIDWithSecrets(created.ID)
	require.NoError(t, err)
	assert.True(t, users.CheckPassword(stored.PasswordHash, "n3w-pass"))
	assert.False(t, users.CheckPassword(stored.PasswordHash, "p@ss1"))
}
