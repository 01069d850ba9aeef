package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/mvillareal/lumina/internal/web/handlers"
	"github.com/mvillareal/lumina/internal/web/middleware"
)

func (s *Server) setupRoutes() {
	photosHandler := handlers.NewPhotosHandler(s.svc)
	searchHandler := handlers.NewSearchHandler(s.svc)

	// Health check (no owner scoping)
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.WithOwner)

		// Photos
		r.Post("/photos", photosHandler.Upload)
		r.Post("/photos/batch", photosHandler.BatchUpload)
		r.Get("/photos", photosHandler.List)
		r.Get("/photos/{id}", photosHandler.Get)
		r.Get("/photos/{id}/image", photosHandler.Image)
		r.Get("/photos/{id}/thumbnail", photosHandler.Thumbnail)
		r.Delete("/photos/{id}", photosHandler.Delete)

		// Search
		r.Post("/search", searchHandler.Search)
	})
}
