package config

import "time"

// GetDefaultConfig returns default config
func GetDefaultConfig() *Config {
	return &Config{
		Settings: ConfigSettings{
			Port: 9092,
			Log: ConfigSettingsLog{
				JSON:  false,
				Level: "info",
			},
			API: ConfigSettingsAPI{
				URL:     "http://localhost:8080/api/internal/v1/",
				Timeout: 30 * time.Second,
			},
		},
		Feed: ConfigFeed{
			Enabled:       true,
			Key:           "default",
			CheckInterval: "15s",
			Filters: map[string][]string{
				"status": {"0", "1"},
			},
		},
		Cache: ConfigCache{
			MaxSize:   5000,
			LabelsTTL: 5 * time.Minute,
			Redis: ConfigCacheRedis{
				Enabled: false,
				Host:    "localhost",
				Port:    6379,
			},
		},
		Notifications: ConfigNotifications{
			Ilert: ConfigNotificationsIlert{
				Enabled:  false,
				Priority: "LOW",
				Summary:  "Failed to {{action}} alert group {{alert_group_id}}",
				Details:  "{{{message}}}\nError: {{{error}}}\nOccurred: {{occurred}}",
				Links:    make([]ConfigLinksSetting, 0),
			},
		},
	}
}
