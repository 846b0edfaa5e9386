package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"REMO_ACCESS_TOKEN", "REMO_LIGHT_ID", "REMO_LOCAL_ADDR", "MAX_STEPS",
		"DEFAULT_BRIGHTNESS", "SETTLE_DELAY", "PULSE_INTERVAL", "ACCESSORY_NAME",
		"HOMEKIT_PIN", "HOMEKIT_STORE", "CACHE_PATH", "DEBUG", "CONFIG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Light.MaxSteps)
	assert.Equal(t, 100, cfg.Light.DefaultBrightness)
	assert.Equal(t, time.Second, cfg.Light.SettleDelay.Std())
	assert.Zero(t, cfg.Remo.PulseInterval)
	assert.Equal(t, "Ceiling Light", cfg.HomeKit.Name)
	assert.Equal(t, TransportStub, cfg.Transport())
	assert.False(t, cfg.Debug)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("REMO_ACCESS_TOKEN", "token")
	t.Setenv("REMO_LIGHT_ID", "light-1")
	t.Setenv("MAX_STEPS", "8")
	t.Setenv("SETTLE_DELAY", "1500ms")
	t.Setenv("PULSE_INTERVAL", "300ms")
	t.Setenv("DEBUG", "true")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, TransportCloud, cfg.Transport())
	assert.Equal(t, "light-1", cfg.Remo.LightID)
	assert.Equal(t, 8, cfg.Light.MaxSteps)
	assert.Equal(t, 1500*time.Millisecond, cfg.Light.SettleDelay.Std())
	assert.Equal(t, 300*time.Millisecond, cfg.Remo.PulseInterval.Std())
	assert.True(t, cfg.Debug)
}

func TestLoadDebugFlag(t *testing.T) {
	clearEnv(t)

	cfg, err := Load([]string{"-debug"})
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
}

func TestLoadFileOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_STEPS", "8")

	path := writeFile(t, `
light:
  max_steps: 4
  default_brightness: 60
  settle_delay: 2s
homekit:
  name: Bedroom
remo:
  local_addr: 192.168.1.20
  pulse_interval: 250ms
  signals:
    power: {format: us, freq: 38, data: [2400, 600, 1200]}
    up: {format: us, freq: 38, data: [2400, 600, 600]}
    down: {format: us, freq: 38, data: [1200, 600, 600]}
`)

	cfg, err := Load([]string{"-config", path})
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Light.MaxSteps)
	assert.Equal(t, 60, cfg.Light.DefaultBrightness)
	assert.Equal(t, 2*time.Second, cfg.Light.SettleDelay.Std())
	assert.Equal(t, "Bedroom", cfg.HomeKit.Name)
	assert.Equal(t, TransportLocal, cfg.Transport())
	assert.Equal(t, 250*time.Millisecond, cfg.Remo.PulseInterval.Std())
	assert.Equal(t, 38, cfg.Remo.Signals.Power.Freq)
	assert.Equal(t, []int{2400, 600, 600}, cfg.Remo.Signals.Up.Data)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"zero max steps", map[string]string{"MAX_STEPS": "0"}},
		{"brightness above 100", map[string]string{"DEFAULT_BRIGHTNESS": "120"}},
		{"negative settle delay", map[string]string{"SETTLE_DELAY": "-1s"}},
		{"unparsable steps", map[string]string{"MAX_STEPS": "five"}},
		{"cloud without light id", map[string]string{"REMO_ACCESS_TOKEN": "token"}},
		{"local without signals", map[string]string{"REMO_LOCAL_ADDR": "192.168.1.20"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(nil)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}
