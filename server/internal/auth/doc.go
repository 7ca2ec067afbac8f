// Package auth provides authentication middleware for the lane server.
//
// APIKeyMiddleware(mode, header, key, open...) wraps an http.Handler and
// validates the API key from the named request header. WebSocket clients
// that cannot set headers may pass the key as the api_key query parameter.
//
// When mode != "apikey" or key == "", all requests pass through (useful for
// local development with auth disabled). Paths listed in open, such as the
// health check, are never checked. A missing or incorrect key gets 401 with a
// JSON error body.
package auth
