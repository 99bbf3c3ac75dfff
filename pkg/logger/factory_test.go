package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlfalc/glutenworld-sub001/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json by default", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Info("hello")

		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText))
		log.Info("hello")

		assert.Contains(t, buf.String(), "level=INFO")
		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { logger.New(logger.WithFormat("xml")) })
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		assert.Empty(t, buf.String())
	})

	t.Run("static attributes", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(logger.Component("gate")))
		log.Info("msg")

		assert.Equal(t, "gate", decode(t, buf)["component"])
	})

	t.Run("context value extractor", func(t *testing.T) {
		t.Parallel()
		type key struct{}
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithContextValue("request_id", key{}))

		ctx := context.WithValue(context.Background(), key{}, "req-1")
		log.InfoContext(ctx, "msg")

		assert.Equal(t, "req-1", decode(t, buf)["request_id"])
	})

	t.Run("extractor skipped when value missing", func(t *testing.T) {
		t.Parallel()
		type key struct{}
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithContextValue("request_id", key{}))
		log.InfoContext(context.Background(), "msg")

		_, ok := decode(t, buf)["request_id"]
		assert.False(t, ok)
	})

	t.Run("extractors survive With", func(t *testing.T) {
		t.Parallel()
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(nil, func(ctx context.Context) (slog.Attr, bool) {
				return slog.String("identity_id", "abc"), true
			}),
		).With(slog.String("k", "v")).WithGroup("g")
		log.InfoContext(context.Background(), "msg")

		assert.Contains(t, buf.String(), `"identity_id":"abc"`)
	})
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env     string
		wantEnv string
		json    bool
		debug   bool
	}{
		{env: "production", wantEnv: "production", json: true},
		{env: "prod", wantEnv: "production", json: true},
		{env: "staging", wantEnv: "staging", json: true},
		{env: "development", wantEnv: "development", debug: true},
		{env: "", wantEnv: "development", debug: true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Parallel()
			buf := &bytes.Buffer{}
			log := logger.New(logger.WithEnvironment(tt.env, "accessd"), logger.WithOutput(buf))
			log.Debug("debug")
			log.Info("info")

			out := buf.String()
			assert.Equal(t, tt.debug, bytes.Contains(buf.Bytes(), []byte("debug")))
			if tt.json {
				assert.Contains(t, out, `"env":"`+tt.wantEnv+`"`)
				assert.Contains(t, out, `"service":"accessd"`)
			} else {
				assert.Contains(t, out, "env="+tt.wantEnv)
				assert.Contains(t, out, "service=accessd")
			}
		})
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	log := logger.Discard()
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}
