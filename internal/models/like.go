package models

import "time"

// Like associates a user with exactly one liked video or tweet.
type Like struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video,omitempty"`
	TweetID   string    `json:"tweet,omitempty"`
	LikedBy   string    `json:"likedBy"`
	CreatedAt time.Time `json:"createdAt"`
}
