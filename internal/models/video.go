package models

import "time"

// Video represents an uploaded video owned by a user.
type Video struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner"`
	VideoURL     string    `json:"videoFile"`
	ThumbnailURL string    `json:"thumbnail"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Duration     float64   `json:"duration"` // seconds
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
}
