package handlers

import (
	"net/http"
	"strconv"

	"github.com/amitrajade/vidtube-be/internal/api/response"
	"github.com/amitrajade/vidtube-be/internal/apperr"
	"github.com/amitrajade/vidtube-be/internal/auth"
	"github.com/amitrajade/vidtube-be/internal/config"
	"github.com/amitrajade/vidtube-be/internal/media"
	"github.com/amitrajade/vidtube-be/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// VideoHandler handles HTTP requests for videos.
type VideoHandler struct {
	cfg  *config.Config
	feed services.FeedServiceProvider
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(cfg *config.Config, feed services.FeedServiceProvider) *VideoHandler {
	return &VideoHandler{cfg: cfg, feed: feed}
}

func (h *VideoHandler) saveUpload(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil
	}
	defer file.Close()
	return media.SaveTemp(h.cfg.TempUploadDir, file, header.Filename)
}

// Publish uploads a video file with its thumbnail and creates the record.
func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		response.Error(w, apperr.Unauthorized("Unauthorized request"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.Error(w, apperr.Validation("Invalid multipart form"))
		return
	}

	videoPath, err := h.saveUpload(r, "videoFile")
	if err != nil {
		log.Error().Err(err).Msg("Failed to stage video upload")
		response.Error(w, err)
		return
	}
	thumbPath, err := h.saveUpload(r, "thumbnail")
	if err != nil {
		media.RemoveTemp(videoPath)
		log.Error().Err(err).Msg("Failed to stage thumbnail upload")
		response.Error(w, err)
		return
	}

	duration, _ := strconv.ParseFloat(r.FormValue("duration"), 64)

	video, err := h.feed.CreateVideo(r.Context(), services.VideoInput{
		OwnerID:       user.ID,
		Title:         r.FormValue("title"),
		Description:   r.FormValue("description"),
		Duration:      duration,
		VideoPath:     videoPath,
		ThumbnailPath: thumbPath,
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to publish video")
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, video, "Video published successfully")
}

// Get retrieves a video by ID.
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	video, err := h.feed.GetVideo(id)
	if err != nil {
		log.Warn().Err(err).Str("video_id", id).Msg("Failed to get video")
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, video, "Video fetched successfully")
}

// ListByUser returns the videos owned by a given user.
func (h *VideoHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	videos, err := h.feed.ListVideosByOwner(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list videos")
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, videos, "Videos fetched successfully")
}
