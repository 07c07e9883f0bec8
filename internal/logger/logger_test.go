package logger

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_EmitsRoleField(t *testing.T) {
	log := NewLogger("careledger-test")
	require.NotNil(t, log)

	var buf jsonBuffer
	scoped := Logger{log.Output(&buf)}
	scoped.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.data, &entry))
	assert.Equal(t, "careledger-test", entry["role"])
	assert.Equal(t, "hello", entry["message"])
}

func TestFromContext_RoundTrip(t *testing.T) {
	var buf jsonBuffer
	parent := &Logger{zerolog.New(&buf)}

	ctx := parent.WithContext(context.Background())
	FromContext(ctx).Info().Str("key", "value").Msg("scoped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.data, &entry))
	assert.Equal(t, "value", entry["key"])
}

func TestNop_DiscardsOutput(t *testing.T) {
	log := Nop()

	// must not panic and must not write anywhere
	log.Error().Msg("dropped")
}

type jsonBuffer struct {
	data []byte
}

func (b *jsonBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}
