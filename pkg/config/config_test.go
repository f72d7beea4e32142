package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("STORAGE_SIGNED_URL_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.Equal(t, 60*time.Second, cfg.Storage.SignedURLTTL)
	assert.Equal(t, "/hd-admin-7f3c9a", cfg.Admin.LoginPath)
	assert.Equal(t, 20, cfg.Admin.PresetLimit)
	assert.Equal(t, 200, cfg.Media.ListLimit)
	assert.Equal(t, []string{"application/pdf"}, cfg.Ebooks.AllowedMIMEs)
	assert.Equal(t, cfg.JWT.Secret, cfg.JWT.RefreshSecret)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 90*time.Second, parseDuration("90", time.Minute))
	assert.Equal(t, 2*time.Minute, parseDuration("2m", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("garbage", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("-5", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a, ,b "))
	assert.Nil(t, splitAndTrim(""))
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{Timezone: "Nowhere/Invalid"}
	assert.Equal(t, time.UTC, cfg.Location())
}
