package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Disabled(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	tel, err := Setup(context.Background(), Config{})
	require.NoError(t, err)
	require.NotNil(t, tel.Logger)

	assert.Same(t, tel.Logger, slog.Default())
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestNewResource(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "taskmarket-test")

	res, err := newResource(context.Background())
	require.NoError(t, err)

	var name string
	for _, kv := range res.Attributes() {
		if kv.Key == "service.name" {
			name = kv.Value.AsString()
		}
	}
	assert.Equal(t, "taskmarket-test", name)
}
