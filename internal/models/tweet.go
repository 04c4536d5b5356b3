package models

import "time"

// Tweet is a short text post owned by a user.
type Tweet struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
