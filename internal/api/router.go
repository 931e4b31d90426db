package api

import (
	"net/http"

	"github.com/dmarquez/inkwell-be/internal/api/handlers"
	"github.com/dmarquez/inkwell-be/internal/auth"
	"github.com/dmarquez/inkwell-be/internal/services"
	"github.com/dmarquez/inkwell-be/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	userService services.UserServiceProvider,
	postService services.PostServiceProvider,
	commentService services.CommentServiceProvider,
	images *storage.ImageStore,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	postHandler := handlers.NewPostHandler(postService, images)
	commentHandler := handlers.NewCommentHandler(commentService)
	profileHandler := handlers.NewProfileHandler(userService, postService, images)

	// Uploaded images (post images, avatars)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(images.Dir()))))

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)

		r.Get("/home", postHandler.Home)
		r.Get("/posts", postHandler.List)
		r.Get("/posts/trending", postHandler.Trending)
		r.Get("/posts/{slug}", postHandler.GetBySlug)
		r.Get("/posts/id/{id}", postHandler.GetByID)
		r.Get("/posts/id/{id}/comments", commentHandler.List)

		// Routes requiring authentication
		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware())

			r.Get("/auth/me", userHandler.GetMe)
			r.Put("/account", userHandler.Update)
			r.Put("/account/password", userHandler.ChangePassword)

			r.Get("/profile", profileHandler.Get)
			r.Put("/profile", profileHandler.Update)

			r.Post("/posts", postHandler.Create)
			r.Put("/posts/id/{id}", postHandler.Update)
			r.Delete("/posts/id/{id}", postHandler.Delete)
			r.Post("/posts/id/{id}/like", postHandler.ToggleLike)
			r.Post("/posts/id/{id}/comments", commentHandler.Create)
		})
	})

	return r
}
