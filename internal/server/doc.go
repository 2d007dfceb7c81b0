// Package server provides HTTP routing, middleware, and the JSON API for the
// sync backend.
//
// # Router infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with
// method-qualified patterns ("POST /api/sync").
//
// # API handler
//
// [API] implements the [Handler] interface: it registers every /api route and
// dispatches on path inside ServeHTTP. Handlers decode JSON bodies, call the
// sync service, and write either the success envelope {"status":"success"}
// or the standardized error shape {"error","message"} mapped from the shared
// sentinel taxonomy.
//
// # Static assets
//
// [Static] serves the web client's files from the configured directory so the
// mini app can be launched straight from this process during development.
package server
