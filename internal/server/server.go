// package server contains the loopback HTTP plumbing for the CMS OAuth flow
package server

import (
	"net/http"
)

// Handler defines the interface for HTTP request handlers on the loopback server.
// The only current implementation is the OAuth callback handler.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router registers handlers for the short-lived loopback server.
type Router interface {
	Handle(method, path string, handler http.Handler) // Handle registers a handler for one method and path
	Handler(handler Handler)                          // Handler registers every route a Handler serves
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}
