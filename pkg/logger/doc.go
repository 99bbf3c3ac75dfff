// Package logger builds the structured slog.Logger used across the access
// services.
//
// New assembles a text or JSON handler from functional options and wraps it in
// a decorator that pulls request-scoped values (request id, identity id) out of
// context.Context on every record. Attribute helpers in attr.go keep key names
// consistent between the resolver, the gate, the trial limiter and the HTTP
// layer:
//
//	log := logger.New(logger.WithEnvironment(cfg.AppEnv, "accessd"))
//	log.InfoContext(ctx, "gate decision",
//		logger.Outcome(string(decision.Outcome)),
//		logger.Error(decision.Err),
//	)
//
// Helpers return an empty slog.Attr for nil input, so calls such as
// logger.Error(err) need no nil check.
package logger
