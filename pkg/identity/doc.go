// Package identity resolves the authenticated principal of a request.
//
// The auth collaborator issues HS256 JWTs whose subject is the user UUID.
// Parser validates them; Middleware attaches the resulting Identity to the
// request context. A missing or invalid token is not an HTTP error here: the
// request simply continues anonymously and the access gate decides what that
// means.
//
//	p := identity.NewParser(cfg.JWTSecret)
//	r.Use(identity.Middleware(p, identity.BearerExtractor, identity.CookieExtractor("gw_token")))
//
//	id, ok := identity.FromContext(r.Context())
package identity
