package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"agenda/internal/api/handlers"
	"agenda/internal/auth"
	"agenda/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(tokens *auth.TokenService, userService services.UserServiceProvider, contactService services.ContactServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens)
	contactHandler := handlers.NewContactHandler(contactService)

	// Public endpoints
	r.Post("/register", userHandler.Register)
	r.Post("/login", userHandler.Login)

	// Protected endpoints
	r.Group(func(r chi.Router) {
		r.Use(tokens.Middleware)

		r.Get("/me", userHandler.GetMe)
		r.Put("/me/profile", userHandler.UpdateProfile)
		r.Get("/directory", userHandler.Directory)

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", contactHandler.List)
			r.Post("/", contactHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", contactHandler.Get)
				r.Put("/", contactHandler.Update)
				r.Delete("/", contactHandler.Delete)
			})
		})
	})

	return r
}
