package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultRefreshInterval  = 10 * time.Second
	DefaultDailyTargetHours = 4.0
	DefaultNotificationTTL  = 5 * time.Second
	DefaultSessionLimit     = 10
)

type Config struct {
	API       APIConfig
	Dashboard DashboardConfig
	Breaker   BreakerConfig
	Log       LogConfig

	JournalPath string
	MetricsAddr string
}

type APIConfig struct {
	BaseURL    string
	Prefix     string
	Timeout    time.Duration
	CSRFCookie string
	CSRFToken  string
}

type DashboardConfig struct {
	RefreshInterval  time.Duration
	DailyTargetHours float64
	NotificationTTL  time.Duration
	SessionLimit     int
}

type BreakerConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

type LogConfig struct {
	Level string
	File  string
}

// SetDefaults registers every key smarttrack reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://127.0.0.1:8000")
	v.SetDefault("api.prefix", "/api")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.csrf_cookie", "csrftoken")
	v.SetDefault("api.csrf_token", "")

	v.SetDefault("dashboard.refresh_interval", DefaultRefreshInterval.String())
	v.SetDefault("dashboard.daily_target_hours", DefaultDailyTargetHours)
	v.SetDefault("dashboard.notification_ttl", DefaultNotificationTTL.String())
	v.SetDefault("dashboard.session_limit", DefaultSessionLimit)

	v.SetDefault("breaker.max_requests", 3)
	v.SetDefault("breaker.interval", "1m")
	v.SetDefault("breaker.timeout", "30s")
	v.SetDefault("breaker.min_requests", 5)
	v.SetDefault("breaker.failure_ratio", 0.6)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(".smarttrack", "smarttrack.log"))
	v.SetDefault("journal.path", filepath.Join(".smarttrack", "journal.db"))
	v.SetDefault("metrics.addr", "")
}

// Load reads .env, the optional config file and SMARTTRACK_* variables into v
// and returns the validated configuration.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	_ = godotenv.Load()

	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("smarttrack")
	}
	v.SetEnvPrefix("SMARTTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return FromViper(v)
}

func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		API: APIConfig{
			BaseURL:    strings.TrimRight(v.GetString("api.base_url"), "/"),
			Prefix:     normalizePrefix(v.GetString("api.prefix")),
			Timeout:    v.GetDuration("api.timeout"),
			CSRFCookie: v.GetString("api.csrf_cookie"),
			CSRFToken:  v.GetString("api.csrf_token"),
		},
		Dashboard: DashboardConfig{
			RefreshInterval:  v.GetDuration("dashboard.refresh_interval"),
			DailyTargetHours: v.GetFloat64("dashboard.daily_target_hours"),
			NotificationTTL:  v.GetDuration("dashboard.notification_ttl"),
			SessionLimit:     v.GetInt("dashboard.session_limit"),
		},
		Breaker: BreakerConfig{
			MaxRequests:  v.GetUint32("breaker.max_requests"),
			Interval:     v.GetDuration("breaker.interval"),
			Timeout:      v.GetDuration("breaker.timeout"),
			MinRequests:  v.GetUint32("breaker.min_requests"),
			FailureRatio: v.GetFloat64("breaker.failure_ratio"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
		JournalPath: v.GetString("journal.path"),
		MetricsAddr: v.GetString("metrics.addr"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q must be an absolute url", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.API.CSRFCookie == "" {
		return fmt.Errorf("api.csrf_cookie is required")
	}
	if c.Dashboard.RefreshInterval <= 0 {
		return fmt.Errorf("dashboard.refresh_interval must be positive")
	}
	if c.Dashboard.DailyTargetHours <= 0 {
		return fmt.Errorf("dashboard.daily_target_hours must be positive")
	}
	if c.Dashboard.NotificationTTL <= 0 {
		return fmt.Errorf("dashboard.notification_ttl must be positive")
	}
	if c.Dashboard.SessionLimit <= 0 {
		return fmt.Errorf("dashboard.session_limit must be positive")
	}
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("breaker.failure_ratio must be in (0, 1]")
	}
	return nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}
