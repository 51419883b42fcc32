package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pathfinder/pathfinder/internal/rest"
)

const (
	serviceName    = "Pathfinder API - Event Catalog"
	serviceVersion = "0.1.0"
)

type bannerResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		rest.WriteJSON(w, http.StatusOK, bannerResponse{Message: serviceName, Version: serviceVersion})
	}).Methods("GET")
	r.Handle("/metrics", deps.Metrics.Handler()).Methods("GET")

	// Events
	r.HandleFunc("/api/events", deps.CatalogHandler.ListEvents).Methods("GET")
	r.HandleFunc("/api/events.ics", deps.CatalogHandler.ExportICS).Methods("GET")
	r.HandleFunc("/api/events/types", deps.CatalogHandler.ListTypes).Methods("GET")
	r.HandleFunc("/api/events/stats", deps.CatalogHandler.GetStats).Methods("GET")
	r.HandleFunc("/api/events/refresh", deps.CatalogHandler.Refresh).Methods("POST")
	r.HandleFunc("/api/events/{eventId}/calendar", deps.CatalogHandler.GetCalendarLink).Methods("GET")
	r.HandleFunc("/api/events/{eventId}/google", deps.CatalogHandler.PublishToGoogle).Methods("POST")
}
