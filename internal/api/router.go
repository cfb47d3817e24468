package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marchant/folium/internal/bookservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *bookservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Import pipeline.
	r.Post("/parse", h.Parse)
	r.Post("/import/full", h.ImportFull)
	r.Post("/import/chapter", h.ImportChapter)
	r.Post("/import/book", h.ImportBook)
	r.Post("/import/upload", h.UploadManuscript)

	// Reader surface.
	r.Get("/books", h.ListBooks)
	r.Get("/books/{bookID}", h.GetBook)
	r.Get("/books/{bookID}/versions", h.ListVersions)
	r.Get("/books/{bookID}/versions/{version}/chapters", h.TableOfContents)
	r.Get("/books/{bookID}/versions/{version}/chapters/{slug}", h.GetChapter)

	// Search.
	r.Get("/search", h.Search)

	// Comments.
	r.Post("/comments", h.CreateComment)
	r.Get("/comments", h.ListComments)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
