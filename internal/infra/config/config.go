package config

// Configuration for the launch watcher.
// Precedence: defaults -> config.yaml -> .env file -> environment -> flags.
// Interval values are plain seconds so they read the same in YAML and env.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Watch    WatchConfig    `mapstructure:"watch"`
	App      AppConfig      `mapstructure:"app"`
}

type TelegramConfig struct {
	APIKey  string  `mapstructure:"api_key"`
	UserIDs []int64 `mapstructure:"-"` // parsed from telegram.user_ids (comma string or YAML list)
}

// FeedConfig points at the upcoming-tokens feed.
type FeedConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	RequestTimeout int    `mapstructure:"request_timeout"` // seconds
	PageSize       int    `mapstructure:"page_size"`
}

// WatchConfig holds the lifecycle timings, all in seconds except DigestTime.
type WatchConfig struct {
	DiscoveryInterval int    `mapstructure:"discovery_interval"`
	SchedulerInterval int    `mapstructure:"scheduler_interval"`
	LookAhead         int    `mapstructure:"look_ahead"`
	LeadTime          int    `mapstructure:"lead_time"`
	PollInterval      int    `mapstructure:"poll_interval"`
	StaleAfter        int    `mapstructure:"stale_after"`
	DigestTime        string `mapstructure:"digest_time"` // "HH:MM" UTC, empty disables the digest
}

type AppConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LoadConfig assembles the config from all sources and validates it.
func LoadConfig() (*Config, error) {
	godotenv.Load(".env")

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.ReadInConfig() // optional file, ignore absence

	v.SetConfigType("env")
	v.SetConfigFile(".env")
	v.ReadInConfig() // optional file, ignore absence

	v.AutomaticEnv()
	setupEnvAliases(v)
	setupFlags(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	userIDs, err := parseUserIDs(v.Get("telegram.user_ids"))
	if err != nil {
		return nil, err
	}
	config.Telegram.UserIDs = userIDs

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// parseUserIDs accepts a comma-separated string (env/.env) or a YAML list.
func parseUserIDs(raw interface{}) ([]int64, error) {
	var parts []string
	switch val := raw.(type) {
	case nil:
		return nil, nil
	case string:
		for _, p := range strings.Split(val, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
	case []string:
		parts = val
	case []interface{}:
		for _, item := range val {
			parts = append(parts, strings.TrimSpace(fmt.Sprintf("%v", item)))
		}
	default:
		return nil, fmt.Errorf("telegram.user_ids: unsupported type %T", raw)
	}

	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("telegram.user_ids: invalid id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func setupEnvAliases(v *viper.Viper) {
	// Env names match the upstream deployment (TELEGRAM_API_KEY etc).
	v.BindEnv("telegram.api_key", "TELEGRAM_API_KEY")
	v.BindEnv("telegram.user_ids", "TELEGRAM_USER_IDS")

	v.BindEnv("feed.base_url", "FEED_BASE_URL")
	v.BindEnv("feed.request_timeout", "FEED_REQUEST_TIMEOUT")
	v.BindEnv("feed.page_size", "FEED_PAGE_SIZE")

	v.BindEnv("watch.discovery_interval", "WATCH_DISCOVERY_INTERVAL")
	v.BindEnv("watch.scheduler_interval", "WATCH_SCHEDULER_INTERVAL")
	v.BindEnv("watch.look_ahead", "WATCH_LOOK_AHEAD")
	v.BindEnv("watch.lead_time", "WATCH_LEAD_TIME")
	v.BindEnv("watch.poll_interval", "WATCH_POLL_INTERVAL")
	v.BindEnv("watch.stale_after", "WATCH_STALE_AFTER")
	v.BindEnv("watch.digest_time", "WATCH_DIGEST_TIME")

	v.BindEnv("app.data_dir", "APP_DATA_DIR")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.api_key", "")
	v.SetDefault("telegram.user_ids", "")

	v.SetDefault("feed.base_url", "https://hot-data.politicalpump.com")
	v.SetDefault("feed.request_timeout", 15)
	v.SetDefault("feed.page_size", 50)

	v.SetDefault("watch.discovery_interval", 3*60*60)
	v.SetDefault("watch.scheduler_interval", 30)
	v.SetDefault("watch.look_ahead", 3600)
	v.SetDefault("watch.lead_time", 60)
	v.SetDefault("watch.poll_interval", 2)
	v.SetDefault("watch.stale_after", 24*60*60)
	v.SetDefault("watch.digest_time", "")

	v.SetDefault("app.data_dir", "data")
}

func setupFlags(v *viper.Viper) {
	pflag.String("telegram.api_key", "", "Telegram bot token (env: TELEGRAM_API_KEY)")
	pflag.String("telegram.user_ids", "", "Comma-separated Telegram chat ids to notify (env: TELEGRAM_USER_IDS)")

	pflag.String("feed.base_url", "https://hot-data.politicalpump.com", "Token feed base URL (env: FEED_BASE_URL)")
	pflag.Int("feed.request_timeout", 15, "Feed request timeout in seconds (env: FEED_REQUEST_TIMEOUT)")
	pflag.Int("feed.page_size", 50, "Feed page size (env: FEED_PAGE_SIZE)")

	pflag.Int("watch.discovery_interval", 3*60*60, "Seconds between discovery passes (env: WATCH_DISCOVERY_INTERVAL)")
	pflag.Int("watch.scheduler_interval", 30, "Seconds between scheduler passes (env: WATCH_SCHEDULER_INTERVAL)")
	pflag.Int("watch.look_ahead", 3600, "Seconds before start at which monitoring activates (env: WATCH_LOOK_AHEAD)")
	pflag.Int("watch.lead_time", 60, "Seconds before start at which frequent polling begins (env: WATCH_LEAD_TIME)")
	pflag.Int("watch.poll_interval", 2, "Seconds between release polls (env: WATCH_POLL_INTERVAL)")
	pflag.Int("watch.stale_after", 24*60*60, "Seconds past start before an unreleased entry is evicted (env: WATCH_STALE_AFTER)")
	pflag.String("watch.digest_time", "", "Daily digest send time HH:MM UTC, empty disables (env: WATCH_DIGEST_TIME)")

	pflag.String("app.data_dir", "data", "Data directory (env: APP_DATA_DIR)")

	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)
}

func validateConfig(cfg *Config) error {
	if cfg.Telegram.APIKey == "" {
		return fmt.Errorf("telegram.api_key is required (TELEGRAM_API_KEY)")
	}
	if cfg.Feed.BaseURL == "" {
		return fmt.Errorf("feed.base_url is required")
	}
	if cfg.Feed.PageSize <= 0 {
		return fmt.Errorf("feed.page_size must be positive")
	}
	for _, iv := range []struct {
		name  string
		value int
	}{
		{"watch.discovery_interval", cfg.Watch.DiscoveryInterval},
		{"watch.scheduler_interval", cfg.Watch.SchedulerInterval},
		{"watch.look_ahead", cfg.Watch.LookAhead},
		{"watch.poll_interval", cfg.Watch.PollInterval},
	} {
		if iv.value <= 0 {
			return fmt.Errorf("%s must be positive", iv.name)
		}
	}
	if cfg.Watch.LeadTime < 0 {
		return fmt.Errorf("watch.lead_time must not be negative")
	}
	if t := cfg.Watch.DigestTime; t != "" {
		if _, _, err := ParseClock(t); err != nil {
			return err
		}
	}
	return nil
}

// ParseClock parses a "HH:MM" wall-clock time.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}
