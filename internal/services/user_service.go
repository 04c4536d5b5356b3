package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amitrajade/vidtube-be/internal/apperr"
	"github.com/amitrajade/vidtube-be/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for the credential store.
type UserServiceProvider interface {
	FindByID(id string) (models.User, error)
	FindByUsernameOrEmail(identifier string) (models.User, error)
	Exists(username, email string) (bool, error)
	Create(user models.User, password string) (models.User, error)
	UpdateAccountDetails(id, fullName, email string) (models.User, error)
	UpdateAvatar(id, url string) (models.User, error)
	UpdateCoverImage(id, url string) (models.User, error)
	UpdatePasswordHash(id, newPassword string) error
	UpdateRefreshToken(id, token string) error
	ClearRefreshToken(id string) error
	CheckPassword(hash, password string) bool
}

// UserService provides persistence for user records.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

const userColumns = "id, username, email, full_name, avatar_url, cover_image_url, password_hash, refresh_token, watch_history_json, created_at, updated_at"

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	var cover, refresh, history sql.NullString
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.FullName,
		&user.AvatarURL, &cover, &user.PasswordHash, &refresh, &history,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return models.User{}, err
	}
	user.CoverImageURL = cover.String
	user.RefreshToken = refresh.String
	if history.Valid && history.String != "" {
		if err := json.Unmarshal([]byte(history.String), &user.WatchHistory); err != nil {
			return models.User{}, fmt.Errorf("corrupt watch history for user %s: %w", user.ID, err)
		}
	}
	return user, nil
}

// FindByID retrieves a single user by ID with credential fields stripped.
func (s *UserService) FindByID(id string) (models.User, error) {
	user, err := s.findByIDWithSecrets(id)
	if err != nil {
		return models.User{}, err
	}
	return user.Sanitized(), nil
}

// findByIDWithSecrets retrieves the full record including the password hash
// and the persisted refresh token. Session flows only.
func (s *UserService) findByIDWithSecrets(id string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, err
	}
	return user, nil
}

// FindByUsernameOrEmail retrieves the full record matching either the
// username or the email, both compared lowercase.
func (s *UserService) FindByUsernameOrEmail(identifier string) (models.User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE username = ? OR email = ?", identifier, identifier)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.NotFound("User not found")
		}
		return models.User{}, err
	}
	return user, nil
}

// Exists reports whether a user with the given username or email is
// already registered.
func (s *UserService) Exists(username, email string) (bool, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(1) FROM users WHERE username = ? OR email = ?",
		strings.ToLower(username), strings.ToLower(email)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create persists a new user, hashing the password. Username and email are
// lowercased before storage. A unique-constraint violation is reported as
// a conflict so the pre-check race resolves to the same client error.
func (s *UserService) Create(user models.User, password string) (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user.ID = uuid.New().String()
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.PasswordHash = string(hashedPassword)

	stmt, err := s.db.Prepare("INSERT INTO users(id, username, email, full_name, avatar_url, cover_image_url, password_hash) VALUES(?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(user.ID, user.Username, user.Email, user.FullName, user.AvatarURL, user.CoverImageURL, user.PasswordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.User{}, apperr.Conflict("User with email or username already exists")
		}
		return models.User{}, err
	}

	return user.Sanitized(), nil
}

// UpdateAccountDetails updates the mutable profile fields and returns the
// sanitized record.
func (s *UserService) UpdateAccountDetails(id, fullName, email string) (models.User, error) {
	_, err := s.db.Exec("UPDATE users SET full_name = ?, email = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		fullName, strings.ToLower(strings.TrimSpace(email)), id)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.User{}, apperr.Conflict("User with email already exists")
		}
		return models.User{}, err
	}
	return s.FindByID(id)
}

// UpdateAvatar replaces the stored avatar URL.
func (s *UserService) UpdateAvatar(id, url string) (models.User, error) {
	return s.updateImageField(id, "avatar_url", url)
}

// UpdateCoverImage replaces the stored cover image URL.
func (s *UserService) UpdateCoverImage(id, url string) (models.User, error) {
	return s.updateImageField(id, "cover_image_url", url)
}

func (s *UserService) updateImageField(id, column, url string) (models.User, error) {
	_, err := s.db.Exec("UPDATE users SET "+column+" = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", url, id)
	if err != nil {
		return models.User{}, err
	}
	return s.FindByID(id)
}

// UpdatePasswordHash re-hashes and stores a new password for a user. This
// is the only operation that touches the password column, so profile saves
// never need to reason about re-hashing.
func (s *UserService) UpdatePasswordHash(id, newPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	_, err = s.db.Exec("UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", string(hashedPassword), id)
	return err
}

// UpdateRefreshToken persists the single active refresh token for a user,
// overwriting any prior value.
func (s *UserService) UpdateRefreshToken(id, token string) error {
	_, err := s.db.Exec("UPDATE users SET refresh_token = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", token, id)
	return err
}

// ClearRefreshToken removes the persisted refresh token for a user.
func (s *UserService) ClearRefreshToken(id string) error {
	_, err := s.db.Exec("UPDATE users SET refresh_token = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?", id)
	return err
}

// CheckPassword re-derives the hash and compares; the stored hash is never
// reversed.
func (s *UserService) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
