// Package billing starts checkout and customer-portal sessions with the
// payment processor.
//
// The access core does not own billing; it only needs a link to send the user
// to. Provider has Paddle and Stripe implementations. Plans come from a YAML
// catalog. A plan without an explicit trial length gets DefaultTrialDays, the
// value checkout actually bills with.
//
// Any checkout or portal round trip makes the cached commercial status stale.
// Callers must refresh the subscription.Resolver when the user returns and
// before the gate runs again.
package billing
