package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/messenger/core/config"
)

type testConfig struct {
	Name     string        `env:"CONFIG_TEST_NAME" envDefault:"default-name"`
	Interval time.Duration `env:"CONFIG_TEST_INTERVAL" envDefault:"5s"`
	Enabled  bool          `env:"CONFIG_TEST_ENABLED"`
}

type requiredConfig struct {
	Token string `env:"CONFIG_TEST_TOKEN,required"`
}

func TestLoad_Defaults(t *testing.T) {
	config.Reset[testConfig]()
	t.Cleanup(config.Reset[testConfig])

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "default-name", cfg.Name)
	assert.Equal(t, 5*time.Second, cfg.Interval)
	assert.False(t, cfg.Enabled)
}

func TestLoad_FromEnvironment(t *testing.T) {
	config.Reset[testConfig]()
	t.Cleanup(config.Reset[testConfig])

	t.Setenv("CONFIG_TEST_NAME", "from-env")
	t.Setenv("CONFIG_TEST_INTERVAL", "250ms")
	t.Setenv("CONFIG_TEST_ENABLED", "true")

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.True(t, cfg.Enabled)
}

func TestLoad_CachesPerType(t *testing.T) {
	config.Reset[testConfig]()
	t.Cleanup(config.Reset[testConfig])

	t.Setenv("CONFIG_TEST_NAME", "first")

	var first testConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("CONFIG_TEST_NAME", "second")

	var second testConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Name, "second load should come from cache")

	config.Reset[testConfig]()

	var third testConfig
	require.NoError(t, config.Load(&third))
	assert.Equal(t, "second", third.Name, "reset should force a fresh parse")
}

func TestLoad_RequiredMissing(t *testing.T) {
	config.Reset[requiredConfig]()
	t.Cleanup(config.Reset[requiredConfig])

	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIG_TEST_TOKEN")
}

func TestLoad_NilDestination(t *testing.T) {
	var cfg *testConfig
	assert.Error(t, config.Load(cfg))
}

func TestMustLoad_Panics(t *testing.T) {
	config.Reset[requiredConfig]()
	t.Cleanup(config.Reset[requiredConfig])

	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}
