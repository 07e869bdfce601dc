// Package server provides the loopback HTTP server used by the CLI's
// authorization-code flow against the curriculum CMS.
//
// # OAuth Callback Handler
//
// OAuthHandler implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the
// authorization code for a token, and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Current Usage
//
// When the user runs `lectern auth login`, a temporary HTTP server starts on
// localhost:3000, the browser opens the CMS authorization page, the callback
// is handled here, and the server shuts down after receiving the token.
//
// # Router
//
// [BasicRouter] is a thin wrapper over [http.ServeMux] with method filtering.
// Handlers implement the [Handler] interface, which adds Routes() to the
// stdlib handler interface so a handler can encapsulate its own paths.
package server
