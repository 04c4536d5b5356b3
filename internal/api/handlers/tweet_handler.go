package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/amitrajade/vidtube-be/internal/api/response"
	"github.com/amitrajade/vidtube-be/internal/apperr"
	"github.com/amitrajade/vidtube-be/internal/auth"
	"github.com/amitrajade/vidtube-be/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// TweetHandler handles HTTP requests for tweets.
type TweetHandler struct {
	feed services.FeedServiceProvider
}

// NewTweetHandler creates a new TweetHandler.
func NewTweetHandler(feed services.FeedServiceProvider) *TweetHandler {
	return &TweetHandler{feed: feed}
}

// Create posts a new tweet for the current user.
func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		response.Error(w, apperr.Unauthorized("Unauthorized request"))
		return
	}

	var payload struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.Error(w, apperr.Validation("Invalid request body"))
		return
	}

	tweet, err := h.feed.CreateTweet(user.ID, payload.Content)
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to create tweet")
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, tweet, "Tweet created successfully")
}

// ListByUser returns the tweets of a given user.
func (h *TweetHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	tweets, err := h.feed.ListTweetsByUser(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list tweets")
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, tweets, "Tweets fetched successfully")
}
