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

// PlaylistHandler handles HTTP requests for playlists.
type PlaylistHandler struct {
	feed services.FeedServiceProvider
}

// NewPlaylistHandler creates a new PlaylistHandler.
func NewPlaylistHandler(feed services.FeedServiceProvider) *PlaylistHandler {
	return &PlaylistHandler{feed: feed}
}

// Create makes a new playlist owned by the current user.
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		response.Error(w, apperr.Unauthorized("Unauthorized request"))
		return
	}

	var payload struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Videos      []string `json:"videos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.Error(w, apperr.Validation("Invalid request body"))
		return
	}

	playlist, err := h.feed.CreatePlaylist(user.ID, payload.Name, payload.Description, payload.Videos)
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to create playlist")
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, playlist, "Playlist created successfully")
}

// Get retrieves a playlist by ID.
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	playlist, err := h.feed.GetPlaylist(id)
	if err != nil {
		log.Warn().Err(err).Str("playlist_id", id).Msg("Failed to get playlist")
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, playlist, "Playlist fetched successfully")
}

// ListByUser returns the playlists of a given user.
func (h *PlaylistHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	playlists, err := h.feed.ListPlaylistsByUser(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list playlists")
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, playlists, "Playlists fetched successfully")
}
