package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		configContent := `
feeds:
  - url: https://example.com/feed1.xml
  - url: https://example.com/feed2.xml
`
		configPath := filepath.Join(t.TempDir(), "feeds.yml")
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		require.Len(t, cfg.Feeds, 2)
		assert.Equal(t, "https://example.com/feed1.xml", cfg.Feeds[0].URL)
		assert.Equal(t, "https://example.com/feed2.xml", cfg.Feeds[1].URL)
		assert.Equal(t, []string{"https://example.com/feed1.xml", "https://example.com/feed2.xml"}, cfg.URLs())
	})

	t.Run("env expansion", func(t *testing.T) {
		t.Setenv("FEED_HOST", "feeds.example.com")
		configPath := filepath.Join(t.TempDir(), "feeds.yml")
		err := os.WriteFile(configPath, []byte("feeds:\n  - url: https://${FEED_HOST}/rss\n"), 0o644)
		require.NoError(t, err)

		cfg, err := Load(configPath)
		require.NoError(t, err)
		require.Len(t, cfg.Feeds, 1)
		assert.Equal(t, "https://feeds.example.com/rss", cfg.Feeds[0].URL)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "no-such.yml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "feeds.yml")
		err := os.WriteFile(configPath, []byte("feeds: [{url: broken"), 0o644)
		require.NoError(t, err)

		_, err = Load(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("no feeds", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "feeds.yml")
		err := os.WriteFile(configPath, []byte("feeds: []\n"), 0o644)
		require.NoError(t, err)

		_, err = Load(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no feed urls")
	})

	t.Run("empty urls only", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "feeds.yml")
		err := os.WriteFile(configPath, []byte("feeds:\n  - url: \"\"\n"), 0o644)
		require.NoError(t, err)

		_, err = Load(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no feed urls")
	})

	t.Run("malformed url", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "feeds.yml")
		err := os.WriteFile(configPath, []byte("feeds:\n  - url: not-a-url\n"), 0o644)
		require.NoError(t, err)

		_, err = Load(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid feed url")
	})
}
