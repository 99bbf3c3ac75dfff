package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups multiple non-nil errors under the key "errors".
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// IdentityID records the authenticated principal under "identity_id".
// If id is nil, it returns an empty Attr.
func IdentityID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("identity_id", id)
}

// Role records a role name under the key "role".
func Role(role string) slog.Attr {
	if role == "" {
		return slog.Attr{}
	}
	return slog.String("role", role)
}

// Outcome records a gate outcome under the key "outcome".
func Outcome(outcome string) slog.Attr {
	return slog.String("outcome", outcome)
}

// RequestID records the request identifier under the key "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}

func Service(name string) slog.Attr {
	return slog.String("service", name)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
