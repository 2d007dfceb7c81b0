package server

import "net/http"

// Static serves the web client's assets from a directory on disk.
// Implements the Handler interface for registration with a Router.
type Static struct {
	fileServer http.Handler
}

// NewStatic creates a static asset handler rooted at dir.
func NewStatic(dir string) *Static {
	return &Static{fileServer: http.FileServer(http.Dir(dir))}
}

// Routes returns the HTTP routes this handler serves. The method-less
// catch-all keeps preflight requests inside the middleware chain.
func (s *Static) Routes() []string {
	return []string{"/"}
}

// ServeHTTP serves the requested file, falling back to index.html at the root.
func (s *Static) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.fileServer.ServeHTTP(w, r)
}
