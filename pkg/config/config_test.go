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

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 50, cfg.Scheduler.TrialBudget)
	assert.Equal(t, 30, cfg.Scheduler.PreferenceTrials)
	assert.Equal(t, 2, cfg.Scheduler.MaxDailySessions)
	assert.Equal(t, RosterSourceStatic, cfg.Roster.Source)
	assert.Equal(t, 10*time.Minute, cfg.Roster.CacheTTL)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SCHEDULER_TRIAL_BUDGET", "80")
	t.Setenv("SCHEDULER_PREFERENCE_TRIALS", "60")
	t.Setenv("ROSTER_SOURCE", "FILE")
	t.Setenv("ROSTER_FILE", "roster.yaml")
	t.Setenv("ROSTER_CACHE_TTL", "bogus")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.Scheduler.TrialBudget)
	assert.Equal(t, 60, cfg.Scheduler.PreferenceTrials)
	assert.Equal(t, RosterSourceFile, cfg.Roster.Source)
	assert.Equal(t, "roster.yaml", cfg.Roster.File)
	assert.Equal(t, 10*time.Minute, cfg.Roster.CacheTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestLoadRejectsUnknownRosterSource(t *testing.T) {
	t.Setenv("ROSTER_SOURCE", "ldap")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("ROSTER_SOURCE", "file")
	t.Setenv("ROSTER_FILE", "")
	_, err = Load()
	assert.Error(t, err)
}
