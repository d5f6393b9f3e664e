package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttrack/internal/platform/config"
)

func TestDefaultsMatchDashboardConstants(t *testing.T) {
	t.Parallel()
	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Dashboard.RefreshInterval)
	assert.Equal(t, 4.0, cfg.Dashboard.DailyTargetHours)
	assert.Equal(t, 5*time.Second, cfg.Dashboard.NotificationTTL)
	assert.Equal(t, 10, cfg.Dashboard.SessionLimit)
	assert.Equal(t, "/api", cfg.API.Prefix)
	assert.Equal(t, "csrftoken", cfg.API.CSRFCookie)
}

func TestLoadReadsFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "smarttrack.yaml")
	content := "api:\n  base_url: http://tracker.local:9000/\n  prefix: v2/\ndashboard:\n  daily_target_hours: 2.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("SMARTTRACK_DASHBOARD_SESSION_LIMIT", "25")

	cfg, err := config.Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "http://tracker.local:9000", cfg.API.BaseURL)
	assert.Equal(t, "/v2", cfg.API.Prefix)
	assert.Equal(t, 2.5, cfg.Dashboard.DailyTargetHours)
	assert.Equal(t, 25, cfg.Dashboard.SessionLimit)
}

func TestLoadFailsForMissingExplicitFile(t *testing.T) {
	_, err := config.Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()
	cases := map[string]func(v *viper.Viper){
		"relative base url": func(v *viper.Viper) { v.Set("api.base_url", "tracker.local") },
		"zero interval":     func(v *viper.Viper) { v.Set("dashboard.refresh_interval", "0s") },
		"negative target":   func(v *viper.Viper) { v.Set("dashboard.daily_target_hours", -1) },
		"zero limit":        func(v *viper.Viper) { v.Set("dashboard.session_limit", 0) },
		"ratio above one":   func(v *viper.Viper) { v.Set("breaker.failure_ratio", 1.5) },
	}
	for name, mutate := range cases {
		mutate := mutate
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			v := viper.New()
			config.SetDefaults(v)
			mutate(v)
			_, err := config.FromViper(v)
			assert.Error(t, err)
		})
	}
}
