package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/supervisor")
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load()
	require.NoError(t, err)

	require.True(t, cfg.CheckOnlyForwarded)
	require.True(t, cfg.CheckLinks)
	require.InDelta(t, 0.5, cfg.SimilarityThreshold, 1e-9)
	require.Equal(t, 10, cfg.MinTextWords)
	require.Equal(t, 50, cfg.RecentMessagesLimit)
	require.Equal(t, 5*time.Second, cfg.SelfDestructionTick)
	require.Equal(t, 10, cfg.SelfDestructionMultiplier)
	require.Equal(t, 50*time.Second, cfg.WarningLifetime())
	require.Equal(t, 8080, cfg.HealthPort)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/supervisor")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("CHECK_ONLY_FORWARDED_MESSAGES", "false")
	t.Setenv("DUPLICATE_SIMILARITY_THRESHOLD", "0.8")
	t.Setenv("RECENT_MESSAGES_AMOUNT", "5")
	t.Setenv("SELF_DESTRUCTION_TICK", "1s")
	t.Setenv("SELF_DESTRUCTION_MULTIPLIER", "3")
	t.Setenv("ADMIN_IDS", "1,2,3")

	cfg, err := Load()
	require.NoError(t, err)

	require.False(t, cfg.CheckOnlyForwarded)
	require.InDelta(t, 0.8, cfg.SimilarityThreshold, 1e-9)
	require.Equal(t, 5, cfg.RecentMessagesLimit)
	require.Equal(t, 3*time.Second, cfg.WarningLifetime())
	require.True(t, cfg.IsAdmin(2))
	require.False(t, cfg.IsAdmin(4))
}

func TestLoadMissingRequired(t *testing.T) {
	// t.Setenv registers the restore; the vars must be absent for the
	// required check to trip.
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("BOT_TOKEN", "")
	require.NoError(t, os.Unsetenv("POSTGRES_DSN"))
	require.NoError(t, os.Unsetenv("BOT_TOKEN"))

	_, err := Load()
	require.Error(t, err)
}
