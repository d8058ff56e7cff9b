package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{APIKey: "123:abc", UserIDs: []int64{100}},
		Feed: FeedConfig{
			BaseURL:        "https://hot-data.politicalpump.com",
			RequestTimeout: 15,
			PageSize:       50,
		},
		Watch: WatchConfig{
			DiscoveryInterval: 10800,
			SchedulerInterval: 30,
			LookAhead:         3600,
			LeadTime:          60,
			PollInterval:      2,
			StaleAfter:        86400,
		},
		App: AppConfig{DataDir: "data"},
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	assert.NoError(t, validateConfig(validTestConfig()))
}

func TestValidateConfig_RequiresAPIKey(t *testing.T) {
	cfg := validTestConfig()
	cfg.Telegram.APIKey = ""
	err := validateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.api_key")
}

func TestValidateConfig_RequiresPositiveIntervals(t *testing.T) {
	mutations := map[string]func(*Config){
		"feed.base_url":            func(c *Config) { c.Feed.BaseURL = "" },
		"feed.page_size":           func(c *Config) { c.Feed.PageSize = 0 },
		"watch.discovery_interval": func(c *Config) { c.Watch.DiscoveryInterval = 0 },
		"watch.scheduler_interval": func(c *Config) { c.Watch.SchedulerInterval = -1 },
		"watch.look_ahead":         func(c *Config) { c.Watch.LookAhead = 0 },
		"watch.poll_interval":      func(c *Config) { c.Watch.PollInterval = 0 },
		"watch.lead_time":          func(c *Config) { c.Watch.LeadTime = -1 },
	}

	for key, mutate := range mutations {
		t.Run(key, func(t *testing.T) {
			cfg := validTestConfig()
			mutate(cfg)
			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestValidateConfig_LeadTimeZeroAllowed(t *testing.T) {
	cfg := validTestConfig()
	cfg.Watch.LeadTime = 0
	assert.NoError(t, validateConfig(cfg))
}

func TestValidateConfig_DigestTime(t *testing.T) {
	cfg := validTestConfig()
	cfg.Watch.DigestTime = "09:00"
	assert.NoError(t, validateConfig(cfg))

	cfg.Watch.DigestTime = "25:00"
	assert.Error(t, validateConfig(cfg))
}

func TestParseUserIDs(t *testing.T) {
	ids, err := parseUserIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = parseUserIDs("123, 456 ,789")
	require.NoError(t, err)
	assert.Equal(t, []int64{123, 456, 789}, ids)

	ids, err = parseUserIDs("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = parseUserIDs([]string{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)

	// YAML lists arrive as []interface{} with mixed scalar types.
	ids, err = parseUserIDs([]interface{}{1, "2"})
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)

	_, err = parseUserIDs("123,abc")
	assert.Error(t, err)

	_, err = parseUserIDs(42.5)
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	hour, minute, err := ParseClock("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, hour)
	assert.Equal(t, 0, minute)

	hour, minute, err = ParseClock("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23, hour)
	assert.Equal(t, 59, minute)

	for _, bad := range []string{"", "12", "24:00", "12:60", "-1:30", "aa:bb", "12:34:56"} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}
