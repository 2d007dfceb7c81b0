package server

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mdnxzzzz/vaultmusic/internal/services"
	"github.com/mdnxzzzz/vaultmusic/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the sync backend.
// Implementations handle a group of endpoints (the JSON API, static assets).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the method-qualified path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(pattern string, handler http.Handler)      // Handle registers a handler for the given pattern
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// New assembles the full HTTP server: middleware stack, JSON API, and static
// assets, bound to the configured address.
func New(config *shared.Config, db *sql.DB, logger *log.Logger) *http.Server {
	sync := services.NewSyncService(db, config, logger)

	router := NewBasicRouter()
	router.Use(
		Recover(logger),
		Logging(logger),
		CORS(),
		RateLimit(config.Server.RateLimit, config.Server.RateBurst),
	)

	router.Handler(NewAPI(sync, logger))
	router.Handler(NewStatic(config.Server.StaticDir))

	return &http.Server{
		Addr:              config.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
