package env

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type innerConfig struct {
	Timeout time.Duration `env:"TEST_TIMEOUT"`
	Rate    float64       `env:"TEST_RATE"`
}

type testConfig struct {
	Host    string   `env:"TEST_HOST"`
	Port    int      `env:"TEST_PORT"`
	Enabled bool     `env:"TEST_ENABLED"`
	Origins []string `env:"TEST_ORIGINS"`
	Inner   innerConfig
}

type validatedConfig struct {
	Name string `env:"TEST_NAME"`
}

var errNameRequired = errors.New("TEST_NAME is required")

func (c *validatedConfig) Validate() error {
	if c.Name == "" {
		return errNameRequired
	}
	return nil
}

type parentConfig struct {
	Child validatedConfig
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_HOST", "example.com")
	t.Setenv("TEST_PORT", "9090")
	t.Setenv("TEST_ENABLED", "true")
	t.Setenv("TEST_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("TEST_TIMEOUT", "1m30s")
	t.Setenv("TEST_RATE", "0.25")

	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "example.com", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins)
	assert.Equal(t, 90*time.Second, cfg.Inner.Timeout)
	assert.Equal(t, 0.25, cfg.Inner.Rate)
}

func TestLoad_UnsetLeavesZeroValues(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(&cfg))

	assert.Empty(t, cfg.Host)
	assert.Zero(t, cfg.Port)
	assert.Nil(t, cfg.Origins)
	assert.Zero(t, cfg.Inner.Timeout)
}

func TestLoad_EmptyStringRespected(t *testing.T) {
	t.Setenv("TEST_HOST", "")

	cfg := testConfig{Host: "preset"}
	require.NoError(t, Load(&cfg))
	assert.Equal(t, "", cfg.Host)
}

func TestLoad_InvalidValue(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"TEST_PORT", "eighty"},
		{"TEST_ENABLED", "maybe"},
		{"TEST_TIMEOUT", "soon"},
		{"TEST_RATE", "fast"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			var cfg testConfig
			err := Load(&cfg)

			var invalid ErrInvalidValue
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.key, invalid.EnvVar)
			assert.Equal(t, tt.value, invalid.Value)
		})
	}
}

func TestLoad_RequiresStructPointer(t *testing.T) {
	var cfg testConfig
	err := Load(cfg)

	var notPtr ErrNotStructPointer
	assert.ErrorAs(t, err, &notPtr)
}

func TestLoad_RunsNestedValidator(t *testing.T) {
	var cfg parentConfig
	assert.ErrorIs(t, Load(&cfg), errNameRequired)

	t.Setenv("TEST_NAME", "market")
	require.NoError(t, Load(&cfg))
	assert.Equal(t, "market", cfg.Child.Name)
}

func TestLoad_UnsupportedSlice(t *testing.T) {
	t.Setenv("TEST_IDS", "1,2")

	var cfg struct {
		IDs []int `env:"TEST_IDS"`
	}
	var unsupported ErrUnsupportedType
	assert.ErrorAs(t, Load(&cfg), &unsupported)
}
