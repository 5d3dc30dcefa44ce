package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFrom(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, DefaultSheet, cfg.Data.Sheet)
				assert.Equal(t, 2, cfg.Data.HeaderRow)
				assert.Equal(t, filepath.Join(base, "data"), cfg.Data.Dir)
				assert.Equal(t, filepath.Join(base, "data", DefaultDataFile), cfg.DataFile())
				assert.Equal(t, 10000.0, cfg.Analysis.Thresholds.High)
				assert.Equal(t, 30*time.Minute, cfg.Sessions.TTL)
			},
		},
		{
			name: "yaml overrides defaults",
			file: "server:\n  port: 9090\ndata:\n  sheet: Register\nanalysis:\n  thresholds:\n    high: 20000\n    medium: 5000\n    low: 1000\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "Register", cfg.Data.Sheet)
				assert.Equal(t, 20000.0, cfg.Analysis.Thresholds.High)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout, "keys absent from the file keep defaults")
			},
		},
		{
			name: "environment overrides yaml",
			file: "server:\n  port: 9090\n",
			env: map[string]string{
				"FAR_SERVER_PORT":                "7070",
				"FAR_DATA_HEADER_ROW":            "1",
				"FAR_SESSIONS_TTL":               "5m",
				"FAR_SECURITY_ALLOWED_ORIGINS":   "http://a.test,http://b.test",
				"FAR_ANALYSIS_THRESHOLDS_MEDIUM": "6000",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, 1, cfg.Data.HeaderRow)
				assert.Equal(t, 5*time.Minute, cfg.Sessions.TTL)
				assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, 6000.0, cfg.Analysis.Thresholds.Medium)
			},
		},
		{
			name: "absolute data dir kept",
			env:  map[string]string{"FAR_DATA_DIR": "/srv/far"},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/srv/far", cfg.Data.Dir)
				assert.Equal(t, "/srv/far/other.xlsx", cfg.ResolveDataPath("other.xlsx"))
				assert.Equal(t, "/tmp/x.xlsx", cfg.ResolveDataPath("/tmp/x.xlsx"))
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"FAR_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"FAR_LOGGING_LEVEL": "loud"},
			wantErr: true,
		},
		{
			name:    "thresholds out of order",
			file:    "analysis:\n  thresholds:\n    high: 100\n    medium: 5000\n    low: 1000\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "server: [",
			wantErr: true,
		},
		{
			name:    "malformed env",
			env:     map[string]string{"FAR_SESSIONS_MAX": "many"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			var file string
			if tt.file != "" {
				file = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFrom(file, base)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"), "")
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestPaths(t *testing.T) {
	base := t.TempDir()
	p := NewPaths(base)

	require.NoError(t, p.EnsureDirectories())

	for _, dir := range []string{p.DataDir, p.ExportDir, p.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
