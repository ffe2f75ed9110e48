package config

import "time"

// Config definition
type Config struct {
	Settings      ConfigSettings
	Feed          ConfigFeed
	Cache         ConfigCache
	Notifications ConfigNotifications
}

// ConfigSettings definition
type ConfigSettings struct {
	Port                 int `validate:"min=1,max=65535"`
	HttpAuthorizationKey string
	Log                  ConfigSettingsLog
	API                  ConfigSettingsAPI
}

// ConfigSettingsLog definition
type ConfigSettingsLog struct {
	Level string `validate:"oneof=debug info warn error fatal"`
	JSON  bool
}

// ConfigSettingsAPI definition
type ConfigSettingsAPI struct {
	URL       string `validate:"required,url"`
	Token     string
	Timeout   time.Duration
	UserAgent string
}

// ConfigFeed definition
type ConfigFeed struct {
	Enabled       bool
	Key           string `validate:"required"`
	CheckInterval string `validate:"required"`
	Filters       map[string][]string
}

// ConfigCache definition
type ConfigCache struct {
	MaxSize   int64 `validate:"min=1"`
	LabelsTTL time.Duration
	Redis     ConfigCacheRedis
}

// ConfigCacheRedis definition
type ConfigCacheRedis struct {
	Enabled  bool
	Host     string `validate:"required_if=Enabled true"`
	Port     int    `validate:"min=0,max=65535"`
	Password string
}

// ConfigNotifications definition
type ConfigNotifications struct {
	Ilert ConfigNotificationsIlert
}

// ConfigNotificationsIlert definition
type ConfigNotificationsIlert struct {
	Enabled  bool
	APIKey   string `validate:"required_if=Enabled true"`
	Priority string `validate:"oneof=HIGH LOW"`
	Summary  string
	Details  string
	Links    []ConfigLinksSetting
}

// ConfigLinksSetting definition
type ConfigLinksSetting struct {
	Name string
	Href string
}
