// Package kv is the small key-value persistence capability used for
// client-side state: the anonymous feature-trial record and one-shot notices.
//
// Store has three implementations:
//
//   - Memory keeps values in process memory. Tests and tools.
//   - Cookie persists each key in an HMAC-signed cookie of the current
//     request, the server-side analog of browser local storage. It requires
//     Cookie.Middleware to bind the request and response to the context.
//   - Redis persists values server-side under a per-visitor namespace taken
//     from the anonymous visitor id (see VisitorMiddleware).
//
// All implementations return ErrNotFound for absent keys.
package kv
