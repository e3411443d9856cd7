package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "herafna-marketplace", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, "herafna_unsigned", cfg.Media.UploadPreset)
	assert.Equal(t, 30*time.Second, cfg.Media.Timeout())
	assert.Equal(t, 60, cfg.Auth.AccessTokenTTLMinutes)
	assert.Equal(t, 30, cfg.Auth.ResetTokenTTLMinutes)
}

func TestLoadDerivesMediaEndpoint(t *testing.T) {
	t.Setenv("MEDIA_CLOUD_NAME", "demo-cloud")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.cloudinary.com/v1_1/demo-cloud/image/upload", cfg.Media.Endpoint)
}

func TestLoadExplicitMediaEndpointWins(t *testing.T) {
	t.Setenv("MEDIA_CLOUD_NAME", "demo-cloud")
	t.Setenv("MEDIA_ENDPOINT", "http://localhost:9000/upload")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/upload", cfg.Media.Endpoint)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}
