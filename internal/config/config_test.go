package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soclabs/lookout/pkg/ports"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lookout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, time.Second, cfg.ConnectTimeout.Std())
	assert.Equal(t, 2*time.Second, cfg.ReadTimeout.Std())
	assert.Equal(t, 20, cfg.Concurrency)
	assert.Zero(t, cfg.ScanTimeout.Std())

	cat, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, ports.Common, cat)
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
connect_timeout: 500ms
concurrency: 8
rate_limit: 100
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.ConnectTimeout.Std())
	assert.Equal(t, 2*time.Second, cfg.ReadTimeout.Std(), "unset fields keep defaults")
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 100, cfg.RateLimit)
}

func TestLoad_CustomCatalog(t *testing.T) {
	path := writeConfig(t, `
ports:
  - port: 9200
    service: Elasticsearch
    probe: request
  - port: 22
    service: SSH
  - port: 9999
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	cat, err := cfg.Catalog()
	require.NoError(t, err)
	require.Len(t, cat, 3)

	assert.Equal(t, 22, cat[0].Port)
	assert.Equal(t, 9200, cat[1].Port)
	assert.Equal(t, ports.SendRequest, cat[1].Strategy)
	assert.Equal(t, "Elasticsearch", cat[1].Service)
	assert.Equal(t, ports.ServiceUnknown, cat[2].Service)
	assert.Equal(t, ports.PassiveRead, cat[2].Strategy)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "ports: ["},
		{"bad duration", "connect_timeout: fast"},
		{"negative concurrency", "concurrency: -1"},
		{"duplicate port", "ports:\n  - port: 80\n  - port: 80\n"},
		{"port out of range", "ports:\n  - port: 99999\n"},
		{"unknown probe", "ports:\n  - port: 80\n    probe: poke\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
