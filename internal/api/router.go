package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/amitrajade/vidtube-be/internal/api/handlers"
	"github.com/amitrajade/vidtube-be/internal/auth"
	"github.com/amitrajade/vidtube-be/internal/config"
	"github.com/amitrajade/vidtube-be/internal/ratelimit"
	"github.com/amitrajade/vidtube-be/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	tokens *auth.TokenService,
	users services.UserServiceProvider,
	sessions services.SessionServiceProvider,
	accounts services.AccountServiceProvider,
	feed services.FeedServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	userHandler := handlers.NewUserHandler(cfg, sessions, accounts)
	tweetHandler := handlers.NewTweetHandler(feed)
	playlistHandler := handlers.NewPlaylistHandler(feed)
	likeHandler := handlers.NewLikeHandler(feed)
	videoHandler := handlers.NewVideoHandler(cfg, feed)

	requireAuth := tokens.RequireAuth(users)
	authLimiter := ratelimit.New(cfg.AuthRateInterval, cfg.AuthRateBurst)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			// Credential endpoints are throttled per client IP.
			r.Group(func(r chi.Router) {
				r.Use(authLimiter.Middleware)
				r.Post("/register", userHandler.Register)
				r.Post("/login", userHandler.Login)
			})
			r.Post("/refresh-token", userHandler.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", userHandler.Logout)
				r.Post("/change-password", userHandler.ChangePassword)
				r.Get("/current-user", userHandler.CurrentUser)
				r.Patch("/update-account", userHandler.UpdateAccount)
				r.Patch("/avatar", userHandler.UpdateAvatar)
				r.Patch("/cover-image", userHandler.UpdateCoverImage)
			})
		})

		r.Route("/tweets", func(r chi.Router) {
			r.With(requireAuth).Post("/", tweetHandler.Create)
			r.Get("/user/{id}", tweetHandler.ListByUser)
		})

		r.Route("/playlists", func(r chi.Router) {
			r.With(requireAuth).Post("/", playlistHandler.Create)
			r.Get("/{id}", playlistHandler.Get)
			r.Get("/user/{id}", playlistHandler.ListByUser)
		})

		r.Route("/likes", func(r chi.Router) {
			r.With(requireAuth).Post("/video/{id}", likeHandler.LikeVideo)
			r.With(requireAuth).Post("/tweet/{id}", likeHandler.LikeTweet)
			r.Get("/user/{id}", likeHandler.ListByUser)
		})

		r.Route("/videos", func(r chi.Router) {
			r.With(requireAuth).Post("/", videoHandler.Publish)
			r.Get("/{id}", videoHandler.Get)
			r.Get("/user/{id}", videoHandler.ListByUser)
		})
	})

	return r
}
