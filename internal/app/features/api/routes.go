// internal/app/features/api/routes.go
package api

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter that serves the GraphQL endpoint.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeHTTP) // this will be mounted under /graphql
	return r
}
