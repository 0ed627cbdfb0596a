/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/sets/*         Catalog browsing (public)
  /api/cards/*        Card lookup (public)
  /api/collection/*   Ownership ledger (X-User-ID required)
  /api/wishlist/*     Wishlist ledger (X-User-ID required)
  /api/progress/*     Set completion (X-User-ID required)
  /api/value/*        Value aggregation (X-User-ID required)
  /api/logout         Session cache teardown

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-User-ID"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Catalog routes
		r.Route("/sets", func(r chi.Router) {
			r.Get("/", h.ListSets)
			r.Get("/{id}", h.GetSet)
			r.Get("/{id}/cards", h.ListSetCards)
		})
		r.Get("/cards/{id}", h.GetCard)

		// Collection routes
		r.Route("/collection", func(r chi.Router) {
			r.Get("/", h.ListCollection)
			r.Get("/count", h.CollectionCount)
			r.Post("/", h.AddToCollection)
			r.Patch("/{cardID}", h.EditCollection)
			r.Delete("/{cardID}", h.RemoveFromCollection)
		})

		// Wishlist routes
		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", h.ListWishlist)
			r.Get("/count", h.WishlistCount)
			r.Post("/", h.AddToWishlist)
			r.Patch("/{entryID}", h.EditWishlist)
			r.Delete("/{cardID}", h.RemoveFromWishlist)
		})

		// Progress routes
		r.Route("/progress", func(r chi.Router) {
			r.Get("/", h.GetProgress)
			r.Get("/{setID}", h.GetSetProgress)
		})

		// Value routes
		r.Route("/value", func(r chi.Router) {
			r.Get("/", h.GetValue)
			r.Get("/snapshots", h.ListValueSnapshots)
			r.Post("/snapshots", h.TakeValueSnapshot)
		})

		// Session routes
		r.Post("/logout", h.Logout)
	})

	return r
}
