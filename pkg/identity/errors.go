package identity

import "errors"

var (
	ErrMissingToken   = errors.New("identity.missing_token")
	ErrInvalidToken   = errors.New("identity.invalid_token")
	ErrInvalidSubject = errors.New("identity.invalid_subject")
	ErrMissingSecret  = errors.New("identity.missing_secret")
)
