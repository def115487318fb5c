package mcpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/bcdtools/support"
)

// clearEnv clears all BCDTOOLS_* server variables so tests do not see the
// ambient environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BCDTOOLS_CACHE_ENABLED", "BCDTOOLS_CACHE_MAX_SIZE",
		"BCDTOOLS_CACHE_FILE_TTL", "BCDTOOLS_CACHE_URL_TTL",
		"BCDTOOLS_CACHE_CONTENT_TTL", "BCDTOOLS_CACHE_SWEEP_INTERVAL",
		"BCDTOOLS_WALK_LIMIT", "BCDTOOLS_WALK_MAX_LIMIT",
		"BCDTOOLS_FOLD_POLICY", "BCDTOOLS_MAX_INLINE_SIZE",
		"BCDTOOLS_ALLOW_PRIVATE_IPS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 4, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 5*time.Minute, c.CacheURLTTL)
	assert.Equal(t, 60*time.Second, c.CacheSweepInterval)
	assert.Equal(t, 100, c.WalkLimit)
	assert.Equal(t, 1000, c.MaxLimit)
	assert.Equal(t, support.FoldAny, c.FoldPolicy)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.False(t, c.AllowPrivateIPs)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BCDTOOLS_CACHE_ENABLED", "false")
	t.Setenv("BCDTOOLS_CACHE_MAX_SIZE", "8")
	t.Setenv("BCDTOOLS_CACHE_URL_TTL", "2m")
	t.Setenv("BCDTOOLS_WALK_LIMIT", "20")
	t.Setenv("BCDTOOLS_WALK_MAX_LIMIT", "500")
	t.Setenv("BCDTOOLS_FOLD_POLICY", "primary")
	t.Setenv("BCDTOOLS_MAX_INLINE_SIZE", "5242880")
	t.Setenv("BCDTOOLS_ALLOW_PRIVATE_IPS", "true")

	c := loadConfig()

	assert.False(t, c.CacheEnabled)
	assert.Equal(t, 8, c.CacheMaxSize)
	assert.Equal(t, 2*time.Minute, c.CacheURLTTL)
	assert.Equal(t, 20, c.WalkLimit)
	assert.Equal(t, 500, c.MaxLimit)
	assert.Equal(t, support.FoldPrimary, c.FoldPolicy)
	assert.Equal(t, int64(5242880), c.MaxInlineSize)
	assert.True(t, c.AllowPrivateIPs)
}

func TestLoadConfig_InvalidValues_UseDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BCDTOOLS_CACHE_ENABLED", "maybe")
	t.Setenv("BCDTOOLS_CACHE_FILE_TTL", "not-a-duration")
	t.Setenv("BCDTOOLS_WALK_LIMIT", "-5")
	t.Setenv("BCDTOOLS_WALK_MAX_LIMIT", "0")
	t.Setenv("BCDTOOLS_FOLD_POLICY", "most")

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 100, c.WalkLimit)
	assert.Equal(t, 1000, c.MaxLimit)
	assert.Equal(t, support.FoldAny, c.FoldPolicy)
}
