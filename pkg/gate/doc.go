// Package gate decides whether protected content may be shown.
//
// Three inputs feed a decision: the identity, its commercial status and its
// role. Each is an Observed value that is pending, settled or failed. Decide
// is a pure function over those observations with a fixed precedence:
//
//  1. identity not settled: pending
//  2. no identity: redirect to sign-in
//  3. status or role still pending: pending
//  4. role failed: pending with an error (an unknown role is never owner)
//  5. owner: render, whatever the commercial status says
//  6. status failed: pending with an error
//  7. subscribed: render
//  8. trialing with expiry strictly after now: render
//  9. otherwise: redirect to the paywall
//
// Apart from the owner rule, no error or ambiguity ever yields render.
//
// Collect fetches status and role concurrently and waits for both. Guard
// turns decisions into navigation and one-shot notices without repeating
// them, and Middleware applies the whole pipeline to HTTP routes.
package gate
