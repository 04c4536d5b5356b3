package models

import "time"

// User represents a user account in the system. Username and email are
// stored lowercase and are unique.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage,omitempty"`
	WatchHistory  []string  `json:"watchHistory"` // ordered video IDs
	PasswordHash  string    `json:"-"`            // Never expose this to the client
	RefreshToken  string    `json:"-"`            // Single active refresh token, never serialized
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Sanitized returns a copy safe to hand to serializing callers.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.RefreshToken = ""
	return u
}
