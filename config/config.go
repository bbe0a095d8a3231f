package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Session reconciliation specifics
	Reconciler     ReconcilerConfig
	Roster         RosterConfig
	GoogleCalendar GoogleCalendarConfig
	Drive          DriveConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port            int
	Mode            string
	RateLimitPerMin int
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// ReconcilerConfig holds the matching rules. Invalid values here are fatal
// at startup; they are never tolerated per-claim.
type ReconcilerConfig struct {
	DeclaredTimezone      string
	MatchOverlapThreshold float64
	MatchToleranceMinutes int
}

type RosterConfig struct {
	Path string
}

type GoogleCalendarConfig struct {
	CredentialsPath string
	CalendarID      string
	CacheTTL        time.Duration
	CacheSize       int
}

// DriveConfig holds the Microsoft Graph client-credentials settings for the
// document store.
type DriveConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	DriveID      string
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.HTTPServer.RateLimitPerMin = viper.GetInt("http_server.rate_limit_per_min")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Reconciler rules
	cfg.Reconciler.DeclaredTimezone = viper.GetString("reconciler.declared_timezone")
	cfg.Reconciler.MatchOverlapThreshold = viper.GetFloat64("reconciler.match_overlap_threshold")
	cfg.Reconciler.MatchToleranceMinutes = viper.GetInt("reconciler.match_tolerance_minutes")

	// Roster sheet
	cfg.Roster.Path = viper.GetString("roster.path")
	if rosterPath := viper.GetString("roster_path"); rosterPath != "" {
		cfg.Roster.Path = rosterPath
	}

	// Google Calendar
	cfg.GoogleCalendar.CredentialsPath = viper.GetString("google_calendar.credentials_path")
	cfg.GoogleCalendar.CalendarID = viper.GetString("google_calendar.calendar_id")
	cfg.GoogleCalendar.CacheTTL = viper.GetDuration("google_calendar.cache_ttl")
	cfg.GoogleCalendar.CacheSize = viper.GetInt("google_calendar.cache_size")
	if googleCreds := viper.GetString("google_calendar_credentials"); googleCreds != "" {
		cfg.GoogleCalendar.CredentialsPath = googleCreds
	}

	// Document drive (Microsoft Graph)
	cfg.Drive.TenantID = viper.GetString("drive.tenant_id")
	cfg.Drive.ClientID = viper.GetString("drive.client_id")
	cfg.Drive.ClientSecret = viper.GetString("drive.client_secret")
	cfg.Drive.DriveID = viper.GetString("drive.drive_id")
	if driveSecret := viper.GetString("drive_client_secret"); driveSecret != "" {
		cfg.Drive.ClientSecret = driveSecret
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("http_server.rate_limit_per_min", 60)
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	// Reconciler defaults
	viper.SetDefault("reconciler.declared_timezone", "Europe/London")
	viper.SetDefault("reconciler.match_overlap_threshold", 0.9)
	viper.SetDefault("reconciler.match_tolerance_minutes", 15)

	viper.SetDefault("roster.path", "./config/roster.yaml")
	viper.SetDefault("google_calendar.cache_ttl", "5m")
	viper.SetDefault("google_calendar.cache_size", 256)
}

// validate rejects configurations the service cannot start with.
func (c *Config) validate() error {
	if c.Reconciler.DeclaredTimezone == "" {
		return fmt.Errorf("reconciler.declared_timezone is required")
	}
	if c.Reconciler.MatchOverlapThreshold <= 0 || c.Reconciler.MatchOverlapThreshold > 1 {
		return fmt.Errorf("reconciler.match_overlap_threshold must be in (0, 1], got %v", c.Reconciler.MatchOverlapThreshold)
	}
	if c.Reconciler.MatchToleranceMinutes < 0 {
		return fmt.Errorf("reconciler.match_tolerance_minutes must be >= 0, got %d", c.Reconciler.MatchToleranceMinutes)
	}
	return nil
}
