package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-weather-tracker/internal/api/auth"
	"github.com/FACorreiaa/go-weather-tracker/internal/api/history"
	"github.com/FACorreiaa/go-weather-tracker/internal/api/user"
	"github.com/FACorreiaa/go-weather-tracker/internal/api/weather"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler            auth.Handler
	UserHandler            user.Handler
	WeatherHandler         weather.Handler
	HistoryHandler         history.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Heartbeat/Health check endpoint
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	// --- Public Routes ---
	// Registration and login are the only endpoints that do not require a token.
	r.Group(func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
	})

	// --- Protected Routes ---
	// Everything touching per-user data sits behind the JWT middleware.
	r.Group(func(r chi.Router) {
		r.Use(cfg.AuthenticateMiddleware)

		r.Post("/weather", cfg.WeatherHandler.Lookup)
		r.Get("/history", cfg.HistoryHandler.ListHistory)
		r.Delete("/history/{id}", cfg.HistoryHandler.DeleteEntry)
		r.Get("/profile", cfg.UserHandler.GetProfile)
		r.Put("/profile", cfg.UserHandler.UpdateProfile)
		// User listing used to be served unauthenticated from the root
		// route, it now requires a valid token like every other read.
		r.Get("/users", cfg.UserHandler.ListUsers)
	})

	return r
}
