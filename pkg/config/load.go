package config

import (
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/iLert/ilert-feed-sync/pkg/utils"
)

// SetConfigFile set config file path and read it into struct
func (cfg *Config) SetConfigFile(cfgFile string) {
	if cfgFile != "" {
		log.Debug().Str("file", cfgFile).Msg("Reading config file")
		viper.SetConfigFile(cfgFile)
		err := viper.ReadInConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Unable to read config")
		}
	}
}

// Load reads config from file, envs or flags
func (cfg *Config) Load() {
	cfg.load(viper.GetViper())

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}
}

func (cfg *Config) load(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetEnvPrefix("ilert")
	v.AutomaticEnv()

	err := v.Unmarshal(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to decode config")
	}

	if cfg.Notifications.Ilert.Links == nil {
		cfg.Notifications.Ilert.Links = make([]ConfigLinksSetting, 0)
	}

	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if strings.HasPrefix(pair[0], "ILERT_LINKS_ALERT_GROUPS_") {
			link := strings.ReplaceAll(pair[0], "ILERT_LINKS_ALERT_GROUPS_", "")
			cfg.Notifications.Ilert.Links = append(cfg.Notifications.Ilert.Links, ConfigLinksSetting{
				Name: strings.Title(strings.ToLower(strings.ReplaceAll(link, "_", " "))),
				Href: pair[1],
			})
		}
	}

	apiTokenEnv := utils.GetEnv("API_TOKEN", "")
	if apiTokenEnv != "" {
		cfg.Settings.API.Token = apiTokenEnv
	}

	ilertAPIKeyEnv := utils.GetEnv("ILERT_API_KEY", "")
	if ilertAPIKeyEnv != "" {
		cfg.Notifications.Ilert.APIKey = ilertAPIKeyEnv
	}

	logLevelEnv := utils.GetEnv("LOG_LEVEL", "")
	if logLevelEnv != "" {
		cfg.Settings.Log.Level = logLevelEnv
	}

	httpAuthorizationKeyEnv := utils.GetEnv("HTTP_AUTHORIZATION_KEY", "")
	if httpAuthorizationKeyEnv != "" {
		cfg.Settings.HttpAuthorizationKey = httpAuthorizationKeyEnv
	}
}

// Print logs the config without secrets
func (cfg *Config) Print() {
	log.Info().Interface("config", struct {
		Port          int
		Log           ConfigSettingsLog
		APIURL        string
		APITimeout    string
		Feed          ConfigFeed
		CacheMaxSize  int64
		RedisEnabled  bool
		IlertEnabled  bool
		IlertPriority string
	}{
		Port:          cfg.Settings.Port,
		Log:           cfg.Settings.Log,
		APIURL:        cfg.Settings.API.URL,
		APITimeout:    cfg.Settings.API.Timeout.String(),
		Feed:          cfg.Feed,
		CacheMaxSize:  cfg.Cache.MaxSize,
		RedisEnabled:  cfg.Cache.Redis.Enabled,
		IlertEnabled:  cfg.Notifications.Ilert.Enabled,
		IlertPriority: cfg.Notifications.Ilert.Priority,
	}).Msg("Starting with config")
}
