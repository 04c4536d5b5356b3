package handlers

import (
	"net/http"

	"github.com/amitrajade/vidtube-be/internal/api/response"
	"github.com/amitrajade/vidtube-be/internal/apperr"
	"github.com/amitrajade/vidtube-be/internal/auth"
	"github.com/amitrajade/vidtube-be/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// LikeHandler handles HTTP requests for likes.
type LikeHandler struct {
	feed services.FeedServiceProvider
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(feed services.FeedServiceProvider) *LikeHandler {
	return &LikeHandler{feed: feed}
}

// LikeVideo records a like by the current user on a video.
func (h *LikeHandler) LikeVideo(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		response.Error(w, apperr.Unauthorized("Unauthorized request"))
		return
	}

	videoID := chi.URLParam(r, "id")
	like, err := h.feed.LikeVideo(videoID, user.ID)
	if err != nil {
		log.Warn().Err(err).Str("video_id", videoID).Msg("Failed to like video")
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, like, "Video liked successfully")
}

// LikeTweet records a like by the current user on a tweet.
func (h *LikeHandler) LikeTweet(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		response.Error(w, apperr.Unauthorized("Unauthorized request"))
		return
	}

	tweetID := chi.URLParam(r, "id")
	like, err := h.feed.LikeTweet(tweetID, user.ID)
	if err != nil {
		log.Warn().Err(err).Str("tweet_id", tweetID).Msg("Failed to like tweet")
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, like, "Tweet liked successfully")
}

// ListByUser returns everything a given user has liked.
func (h *LikeHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	likes, err := h.feed.ListLikesByUser(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list likes")
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, likes, "Likes fetched successfully")
}
