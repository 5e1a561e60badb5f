package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsAndYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
app:
  port: "9090"
db:
  dsn: postgres://localhost/cards
kafka:
  brokers: ["localhost:9092"]
wizard:
  session_ttl: 2h
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "postgres://localhost/cards", cfg.DB.DSN)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Hour, cfg.Wizard.SessionTTL)
	assert.Equal(t, "profile-pictures", cfg.Wizard.PictureFolder)
	assert.EqualValues(t, 5<<20, cfg.Wizard.MaxPictureBytes)
}

func TestLoadConfig_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("app:\n  port: \"9090\"\n"), 0o600))
	t.Setenv("APP_PORT", "7070")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.App.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}
