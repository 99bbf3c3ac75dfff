package kv

import (
	"context"
	"errors"
)

var (
	ErrNotFound         = errors.New("kv.not_found")
	ErrEmptyKey         = errors.New("kv.empty_key")
	ErrNoRequestBinding = errors.New("kv.no_request_binding")
	ErrNoVisitor        = errors.New("kv.no_visitor")
	ErrNoSecret         = errors.New("kv.no_secret")
	ErrSecretTooShort   = errors.New("kv.secret_too_short")
	ErrInvalidSignature = errors.New("kv.invalid_signature")
	ErrInvalidFormat    = errors.New("kv.invalid_format")
)

// Store is a namespaced key-value capability.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Pop reads key and removes it. A missing key returns ErrNotFound.
func Pop(ctx context.Context, s Store, key string) ([]byte, error) {
	v, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := s.Remove(ctx, key); err != nil {
		return nil, err
	}
	return v, nil
}
