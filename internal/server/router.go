package server

import (
	"net/http"

	"github.com/ahsanfayaz52/notesservice/internal/auth"
	"github.com/ahsanfayaz52/notesservice/internal/handlers"
	"github.com/ahsanfayaz52/notesservice/internal/middleware"
	"github.com/ahsanfayaz52/notesservice/internal/notes"
	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Dependencies struct {
	Notes       *notes.Service
	Users       handlers.UserStore
	JWT         *auth.JWTService
	Logger      zerolog.Logger
	Registry    *prometheus.Registry
	CORSOrigins []string
}

// NewHandler wires routes and middleware into the server's root handler.
func NewHandler(d Dependencies) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.NewMetrics(d.Registry).Middleware)

	r.HandleFunc("/health", handlers.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})).Methods("GET")

	a := r.PathPrefix("/api/auth").Subrouter()
	a.HandleFunc("/createuser", handlers.RegisterHandler(d.Users, d.JWT)).Methods("POST")
	a.HandleFunc("/login", handlers.LoginHandler(d.Users, d.JWT)).Methods("POST")

	// Authenticated routes
	jwtMiddleware := auth.JWTMiddleware(d.JWT, d.Logger)

	a.Handle("/getuser", jwtMiddleware(handlers.GetUserHandler(d.Users))).Methods("POST")

	n := r.PathPrefix("/api/notes").Subrouter()
	n.Use(jwtMiddleware)
	n.HandleFunc("/fetchallnotes", handlers.FetchAllNotesHandler(d.Notes)).Methods("GET")
	n.HandleFunc("/addnotes", handlers.AddNoteHandler(d.Notes)).Methods("POST")
	n.HandleFunc("/updatenotes/{id}", handlers.UpdateNoteHandler(d.Notes)).Methods("PUT")
	n.HandleFunc("/deletenotes/{id}", handlers.DeleteNoteHandler(d.Notes)).Methods("DELETE")

	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(d.CORSOrigins),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization", auth.TokenHeader}),
	)

	return middleware.RequestLogger(d.Logger)(cors(r))
}
