package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScript_Defaults(t *testing.T) {
	cfg, err := LoadScript("")
	require.NoError(t, err)
	assert.Equal(t, DefaultScript(), cfg)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestLoadScript_Overrides(t *testing.T) {
	path := writeFile(t, `
port: tcp://localhost:7777
timeout: 5s
regex: pcre
no_color: true
`)

	cfg, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, "tcp://localhost:7777", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "pcre", cfg.Regex)
	assert.True(t, cfg.NoColor)

	// untouched keys keep their defaults
	assert.Equal(t, 9600, cfg.Baud)
	assert.Equal(t, 100*time.Millisecond, cfg.Settle)
}

func TestLoadBridge(t *testing.T) {
	path := writeFile(t, `
bus: /dev/i2c-1
debug: true
banner: false
metrics_addr: ":9100"
`)

	cfg, err := LoadBridge(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/i2c-1", cfg.Bus)
	assert.True(t, cfg.Debug)
	assert.False(t, cfg.Banner)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	assert.Equal(t, "-", cfg.Port)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := LoadBridge(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultBridge(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "prot: /dev/ttyUSB0\n", "failed to parse config"},
		{"bad duration", "timeout: soon\n", "failed to parse config"},
		{"bad baud", "baud: 0\n", "invalid baud rate"},
		{"bad timeout", "timeout: 0s\n", "invalid timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScript(writeFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := LoadBridge(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open config")
}
