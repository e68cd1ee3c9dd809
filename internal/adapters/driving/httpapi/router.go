// Package httpapi exposes the vault over a local HTTP API.
// It is a driving adapter: handlers translate requests into calls on
// the driving ports and domain errors into status codes.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the chi router for the vault API.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/documents", func(r chi.Router) {
			r.Get("/", h.ListDocuments)
			r.Post("/", h.UploadDocument)
			r.Get("/{documentID}", h.GetDocument)
			r.Get("/{documentID}/content", h.GetDocumentContent)
			r.Get("/{documentID}/status", h.GetDocumentStatus)
			r.Delete("/{documentID}", h.DeleteDocument)
		})

		r.Post("/ask", h.Ask)
		r.Post("/validate", h.Validate)
	})

	return r
}
