package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventrsvp/internal/delivery/http/controllers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Every /events route requires a verified bearer token.
func NewRouter(eventController *controllers.EventController, verifier domain.TokenVerifier) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier)

	mux.HandleFunc("GET /events", auth(eventController.ListEvents))
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("GET /events/{id}", auth(eventController.GetEvent))
	mux.HandleFunc("PATCH /events/{id}", auth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{id}", auth(eventController.DeleteEvent))
	mux.HandleFunc("PATCH /events/{id}/rsvp/{response}", auth(eventController.UpdateRSVP))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
