package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hellocms/blackforest/internal/config"
	"github.com/hellocms/blackforest/internal/enum"
	"github.com/hellocms/blackforest/internal/handler"
	"github.com/hellocms/blackforest/internal/logger"
	mw "github.com/hellocms/blackforest/internal/middleware"
	"github.com/hellocms/blackforest/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Session routes require a branch-role token scoped to {bid}.
func New(cfg *config.Config, log *logger.Logger, hub *ws.Hub, sessions *handler.SessionHandler) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger(log))
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/branches/{bid}/carts", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))
		r.Use(mw.RequireRole(enum.RoleBranch))

		r.Route("/branches/{bid}", func(r chi.Router) {
			r.Use(mw.RequireBranch)
			r.Route("/sessions", sessions.RegisterRoutes)
		})
	})

	log.Infow("router initialized")
	return r
}
