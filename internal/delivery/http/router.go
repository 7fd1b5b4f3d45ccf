package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventsapi/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(eventController *controllers.EventController) *http.ServeMux {
	mux := http.NewServeMux()

	// API Routes
	mux.HandleFunc("GET /{$}", eventController.Root)
	mux.HandleFunc("POST /events", eventController.CreateEvent)
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("PUT /events/{eventID}", eventController.UpdateEvent)
	mux.HandleFunc("DELETE /events/{eventID}", eventController.DeleteEvent)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
