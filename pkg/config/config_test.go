package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
program: main.json
libraries:
  - libc.so.6
  - ./libfoo.so
log-level: debug
output: json
`))
	require.NoError(t, err)

	assert.Equal(t, "main.json", cfg.Program)
	assert.Equal(t, []string{"libc.so.6", "./libfoo.so"}, cfg.Libraries)
	assert.Equal(t, OutputJSON, cfg.Output)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)
}

func TestDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`program: p.json`))
	require.NoError(t, err)
	assert.Equal(t, OutputText, cfg.Output)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.Libraries)
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"log level", "log-level: loud"},
		{"output", "output: xml"},
		{"not yaml", "libraries: [a, b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ttexec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("libraries: [libm.so.6]\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"libm.so.6"}, cfg.Libraries)

	_, err = Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
