package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", testSecret)
	path := writeConfig(t, `
session:
  secret: ${SESSION_SECRET}
services:
  pincode_url: http://pincode
  verify_url: http://verify
  consent_url: http://consent
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, testSecret, cfg.Session.Secret)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, 10*time.Second, cfg.Services.Timeout)
	assert.Equal(t, "configs/fields.json", cfg.Form.FieldsPath)
	assert.Equal(t, "development", cfg.App.Environment)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("SERVER_ADDR", ":9999")
	path := writeConfig(t, `
session:
  secret: `+testSecret+`
services:
  pincode_url: http://pincode
  verify_url: http://verify
  consent_url: http://consent
  timeout: 3s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Services.Timeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"short secret", `
session:
  secret: short
services:
  pincode_url: a
  verify_url: b
  consent_url: c
`},
		{"unknown driver", `
session:
  secret: ` + testSecret + `
storage:
  driver: postgres
services:
  pincode_url: a
  verify_url: b
  consent_url: c
`},
		{"missing service", `
session:
  secret: ` + testSecret + `
services:
  pincode_url: a
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
