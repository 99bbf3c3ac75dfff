package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrFailedToParseRedisConnString = errors.New("kv.redis_invalid_url")
	ErrRedisNotReady                = errors.New("kv.redis_not_ready")
	ErrRedisHealthcheckFailed       = errors.New("kv.redis_healthcheck_failed")
)

// RedisConfig configures the Redis connection used by the Redis store.
type RedisConfig struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"glutenworld:visitor:"`
	TTL            time.Duration `env:"REDIS_KEY_TTL" envDefault:"8760h"`
}

// ConnectRedis dials Redis and pings it, retrying up to RetryAttempts times.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	attempts := max(cfg.RetryAttempts, 1)
	for range attempts {
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, ErrRedisNotReady
}

// RedisHealthcheck pings client.
func RedisHealthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrRedisHealthcheckFailed, err)
		}
		return nil
	}
}

// Redis is a Store whose keys are namespaced by the anonymous visitor id in
// the context.
type Redis struct {
	db     redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedis wraps client. A zero ttl keeps keys forever.
func NewRedis(client redis.UniversalClient, prefix string, ttl time.Duration) *Redis {
	return &Redis{db: client, prefix: prefix, ttl: ttl}
}

func (s *Redis) key(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	visitor, ok := VisitorFromContext(ctx)
	if !ok {
		return "", ErrNoVisitor
	}
	return s.prefix + visitor + ":" + key, nil
}

func (s *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	k, err := s.key(ctx, key)
	if err != nil {
		return nil, err
	}
	val, err := s.db.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return val, err
}

func (s *Redis) Set(ctx context.Context, key string, value []byte) error {
	k, err := s.key(ctx, key)
	if err != nil {
		return err
	}
	return s.db.Set(ctx, k, value, s.ttl).Err()
}

func (s *Redis) Remove(ctx context.Context, key string) error {
	k, err := s.key(ctx, key)
	if err != nil {
		return err
	}
	return s.db.Del(ctx, k).Err()
}
