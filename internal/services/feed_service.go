package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/amitrajade/vidtube-be/internal/apperr"
	"github.com/amitrajade/vidtube-be/internal/media"
	"github.com/amitrajade/vidtube-be/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// VideoInput carries the fields and local temp file paths for publishing
// a video.
type VideoInput struct {
	OwnerID       string
	Title         string
	Description   string
	Duration      float64
	VideoPath     string
	ThumbnailPath string
}

// FeedServiceProvider defines the interface for the association records:
// tweets, playlists, likes and videos. Create and read only.
type FeedServiceProvider interface {
	CreateTweet(ownerID, content string) (models.Tweet, error)
	ListTweetsByUser(userID string) ([]models.Tweet, error)

	CreatePlaylist(ownerID, name, description string, videoIDs []string) (models.Playlist, error)
	GetPlaylist(id string) (models.Playlist, error)
	ListPlaylistsByUser(userID string) ([]models.Playlist, error)

	LikeVideo(videoID, userID string) (models.Like, error)
	LikeTweet(tweetID, userID string) (models.Like, error)
	ListLikesByUser(userID string) ([]models.Like, error)

	CreateVideo(ctx context.Context, in VideoInput) (models.Video, error)
	GetVideo(id string) (models.Video, error)
	ListVideosByOwner(ownerID string) ([]models.Video, error)
}

// FeedService provides persistence for the association records.
type FeedService struct {
	db       *sql.DB
	uploader media.Uploader
}

// NewFeedService creates a new FeedService.
func NewFeedService(db *sql.DB, uploader media.Uploader) *FeedService {
	return &FeedService{db: db, uploader: uploader}
}

// CreateTweet persists a new tweet for a user.
func (s *FeedService) CreateTweet(ownerID, content string) (models.Tweet, error) {
	if strings.TrimSpace(content) == "" {
		return models.Tweet{}, apperr.Validation("Content is required")
	}
	tweet := models.Tweet{ID: uuid.New().String(), OwnerID: ownerID, Content: content}
	_, err := s.db.Exec("INSERT INTO tweets(id, owner_id, content) VALUES(?, ?, ?)",
		tweet.ID, tweet.OwnerID, tweet.Content)
	if err != nil {
		return models.Tweet{}, err
	}
	return s.getTweet(tweet.ID)
}

func (s *FeedService) getTweet(id string) (models.Tweet, error) {
	var tweet models.Tweet
	row := s.db.QueryRow("SELECT id, owner_id, content, created_at FROM tweets WHERE id = ?", id)
	err := row.Scan(&tweet.ID, &tweet.OwnerID, &tweet.Content, &tweet.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Tweet{}, apperr.NotFound("Tweet not found")
		}
		return models.Tweet{}, err
	}
	return tweet, nil
}

// ListTweetsByUser returns a user's tweets, newest first.
func (s *FeedService) ListTweetsByUser(userID string) ([]models.Tweet, error) {
	rows, err := s.db.Query("SELECT id, owner_id, content, created_at FROM tweets WHERE owner_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tweets := []models.Tweet{}
	for rows.Next() {
		var tweet models.Tweet
		if err := rows.Scan(&tweet.ID, &tweet.OwnerID, &tweet.Content, &tweet.CreatedAt); err != nil {
			return nil, err
		}
		tweets = append(tweets, tweet)
	}
	return tweets, rows.Err()
}

// CreatePlaylist persists a new playlist with its video references.
func (s *FeedService) CreatePlaylist(ownerID, name, description string, videoIDs []string) (models.Playlist, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(description) == "" {
		return models.Playlist{}, apperr.Validation("Name and description are required")
	}
	if videoIDs == nil {
		videoIDs = []string{}
	}
	videosJSON, err := json.Marshal(videoIDs)
	if err != nil {
		return models.Playlist{}, err
	}
	id := uuid.New().String()
	_, err = s.db.Exec("INSERT INTO playlists(id, name, description, owner_id, videos_json) VALUES(?, ?, ?, ?, ?)",
		id, name, description, ownerID, string(videosJSON))
	if err != nil {
		return models.Playlist{}, err
	}
	return s.GetPlaylist(id)
}

// GetPlaylist retrieves a playlist by ID.
func (s *FeedService) GetPlaylist(id string) (models.Playlist, error) {
	row := s.db.QueryRow("SELECT id, name, description, owner_id, videos_json, created_at FROM playlists WHERE id = ?", id)
	return scanPlaylist(row.Scan)
}

func scanPlaylist(scan func(dest ...any) error) (models.Playlist, error) {
	var playlist models.Playlist
	var videosJSON sql.NullString
	err := scan(&playlist.ID, &playlist.Name, &playlist.Description, &playlist.OwnerID, &videosJSON, &playlist.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Playlist{}, apperr.NotFound("Playlist not found")
		}
		return models.Playlist{}, err
	}
	playlist.VideoIDs = []string{}
	if videosJSON.Valid && videosJSON.String != "" {
		if err := json.Unmarshal([]byte(videosJSON.String), &playlist.VideoIDs); err != nil {
			return models.Playlist{}, err
		}
	}
	return playlist, nil
}

// ListPlaylistsByUser returns all playlists owned by a user.
func (s *FeedService) ListPlaylistsByUser(userID string) ([]models.Playlist, error) {
	rows, err := s.db.Query("SELECT id, name, description, owner_id, videos_json, created_at FROM playlists WHERE owner_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	playlists := []models.Playlist{}
	for rows.Next() {
		playlist, err := scanPlaylist(rows.Scan)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}
	return playlists, rows.Err()
}

// LikeVideo records that a user liked a video.
func (s *FeedService) LikeVideo(videoID, userID string) (models.Like, error) {
	return s.createLike(sql.NullString{String: videoID, Valid: true}, sql.NullString{}, userID)
}

// LikeTweet records that a user liked a tweet.
func (s *FeedService) LikeTweet(tweetID, userID string) (models.Like, error) {
	return s.createLike(sql.NullString{}, sql.NullString{String: tweetID, Valid: true}, userID)
}

func (s *FeedService) createLike(videoID, tweetID sql.NullString, userID string) (models.Like, error) {
	like := models.Like{ID: uuid.New().String(), VideoID: videoID.String, TweetID: tweetID.String, LikedBy: userID}
	_, err := s.db.Exec("INSERT INTO likes(id, video_id, tweet_id, liked_by) VALUES(?, ?, ?, ?)",
		like.ID, videoID, tweetID, userID)
	if err != nil {
		return models.Like{}, err
	}
	row := s.db.QueryRow("SELECT created_at FROM likes WHERE id = ?", like.ID)
	if err := row.Scan(&like.CreatedAt); err != nil {
		return models.Like{}, err
	}
	return like, nil
}

// ListLikesByUser returns everything a user has liked, newest first.
func (s *FeedService) ListLikesByUser(userID string) ([]models.Like, error) {
	rows, err := s.db.Query("SELECT id, video_id, tweet_id, liked_by, created_at FROM likes WHERE liked_by = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	likes := []models.Like{}
	for rows.Next() {
		var like models.Like
		var videoID, tweetID sql.NullString
		if err := rows.Scan(&like.ID, &videoID, &tweetID, &like.LikedBy, &like.CreatedAt); err != nil {
			return nil, err
		}
		like.VideoID = videoID.String
		like.TweetID = tweetID.String
		likes = append(likes, like)
	}
	return likes, rows.Err()
}

// CreateVideo uploads the video file and thumbnail, then persists the
// record. Both temp files are removed whatever the outcome.
func (s *FeedService) CreateVideo(ctx context.Context, in VideoInput) (models.Video, error) {
	defer media.RemoveTemp(in.VideoPath)
	defer media.RemoveTemp(in.ThumbnailPath)

	if strings.TrimSpace(in.Title) == "" {
		return models.Video{}, apperr.Validation("Title is required")
	}
	if in.VideoPath == "" || in.ThumbnailPath == "" {
		return models.Video{}, apperr.Validation("Video file and thumbnail are required")
	}

	videoAsset, err := s.uploader.Upload(ctx, in.VideoPath)
	if err != nil {
		log.Warn().Err(err).Msg("Video upload failed")
		return models.Video{}, apperr.Validation("Error while uploading video file")
	}
	thumbAsset, err := s.uploader.Upload(ctx, in.ThumbnailPath)
	if err != nil {
		log.Warn().Err(err).Msg("Thumbnail upload failed")
		return models.Video{}, apperr.Validation("Error while uploading thumbnail")
	}

	id := uuid.New().String()
	_, err = s.db.Exec("INSERT INTO videos(id, owner_id, video_url, thumbnail_url, title, description, duration) VALUES(?, ?, ?, ?, ?, ?, ?)",
		id, in.OwnerID, videoAsset.URL, thumbAsset.URL, in.Title, in.Description, in.Duration)
	if err != nil {
		return models.Video{}, err
	}
	return s.GetVideo(id)
}

// GetVideo retrieves a video by ID.
func (s *FeedService) GetVideo(id string) (models.Video, error) {
	row := s.db.QueryRow("SELECT id, owner_id, video_url, thumbnail_url, title, description, duration, views, is_published, created_at FROM videos WHERE id = ?", id)
	var video models.Video
	var description sql.NullString
	err := row.Scan(&video.ID, &video.OwnerID, &video.VideoURL, &video.ThumbnailURL,
		&video.Title, &description, &video.Duration, &video.Views, &video.IsPublished, &video.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Video{}, apperr.NotFound("Video not found")
		}
		return models.Video{}, err
	}
	video.Description = description.String
	return video, nil
}

// ListVideosByOwner returns a user's videos, newest first.
func (s *FeedService) ListVideosByOwner(ownerID string) ([]models.Video, error) {
	rows, err := s.db.Query("SELECT id, owner_id, video_url, thumbnail_url, title, description, duration, views, is_published, created_at FROM videos WHERE owner_id = ? ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		var video models.Video
		var description sql.NullString
		if err := rows.Scan(&video.ID, &video.OwnerID, &video.VideoURL, &video.ThumbnailURL,
			&video.Title, &description, &video.Duration, &video.Views, &video.IsPublished, &video.CreatedAt); err != nil {
			return nil, err
		}
		video.Description = description.String
		videos = append(videos, video)
	}
	return videos, rows.Err()
}
