package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "Europe/Ljubljana", cfg.Timezone)
	assert.Equal(t, "2022-06-28", cfg.Notion.Version)
	assert.Equal(t, 5, cfg.Notion.RetryAttempts)
	assert.Equal(t, time.Second, cfg.Notion.RetryDelay)
	assert.Equal(t, 10*time.Minute, cfg.Cache.FetchTTL)
	assert.Equal(t, time.Minute, cfg.Cache.FeedTTL)
	assert.Equal(t, 128, cfg.Cache.Capacity)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notioncal.yaml")
	content := `
listen: ":9090"
timezone: "Europe/Berlin"
notion:
  apikey: "from-file"
tokens:
  tok-1: "alice"
  tok-2: "bob"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, "from-file", cfg.Notion.APIKey)
	assert.Equal(t, map[string]string{"tok-1": "alice", "tok-2": "bob"}, cfg.Tokens)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NOTIONCAL_LISTEN", ":7070")
	t.Setenv("NOTIONCAL_NOTION_APIKEY", "from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Listen)
	assert.Equal(t, "from-env", cfg.Notion.APIKey)
}

func TestLoadLegacyEnv(t *testing.T) {
	t.Setenv("NOTION_API_KEY", "legacy-key")
	t.Setenv("TOKENS", `{"tok-1": "alice"}`)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.Notion.APIKey)
	assert.Equal(t, map[string]string{"tok-1": "alice"}, cfg.Tokens)
}

func TestLoadBadTokens(t *testing.T) {
	t.Setenv("TOKENS", "not json")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := defaults()
	valid.Notion.APIKey = "key"

	t.Run("valid configuration passes", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := valid
		cfg.Notion.APIKey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown timezone", func(t *testing.T) {
		cfg := valid
		cfg.Timezone = "Mars/Olympus_Mons"
		assert.Error(t, cfg.Validate())
	})

	t.Run("retry attempts must be positive", func(t *testing.T) {
		cfg := valid
		cfg.Notion.RetryAttempts = 0
		assert.Error(t, cfg.Validate())
	})
}
