package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	shared "github.com/iLert/ilert-feed-sync"
	"github.com/iLert/ilert-feed-sync/pkg/config"
)

// flagBindings maps config keys to flag names
var flagBindings = map[string]string{
	"settings.port":                 "port",
	"settings.httpAuthorizationKey": "http-authorization-key",
	"settings.log.level":            "log-level",
	"settings.log.json":             "log-json",
	"settings.api.url":              "api-url",
	"settings.api.token":            "api-token",
	"settings.api.timeout":          "api-timeout",
	"settings.api.userAgent":        "api-user-agent",
	"feed.enabled":                  "feed-enabled",
	"feed.key":                      "feed-key",
	"feed.checkInterval":            "check-interval",
	"cache.maxSize":                 "cache-max-size",
	"cache.labelsTTL":               "labels-ttl",
	"cache.redis.enabled":           "redis-enabled",
	"cache.redis.host":              "redis-host",
	"cache.redis.port":              "redis-port",
	"notifications.ilert.enabled":   "ilert-enabled",
	"notifications.ilert.apiKey":    "ilert-api-key",
	"notifications.ilert.priority":  "ilert-priority",
}

func parseAndValidateFlags() *config.Config {
	cfg := config.GetDefaultConfig()
	flags := pflag.NewFlagSet(shared.App, pflag.ExitOnError)

	flags.String("config", "", "Path to a config file.")
	flags.Int("port", cfg.Settings.Port, "The agent http server port")
	flags.String("http-authorization-key", "", "Bearer key protecting the agent api")
	flags.String("log-level", cfg.Settings.Log.Level, "Log level (debug, info, warn, error, fatal).")
	flags.Bool("log-json", cfg.Settings.Log.JSON, "Write logs as json")
	flags.String("api-url", cfg.Settings.API.URL, "The alert group rest api base url")
	flags.String("api-token", "", "The alert group rest api token")
	flags.Duration("api-timeout", cfg.Settings.API.Timeout, "The alert group rest api request timeout")
	flags.String("api-user-agent", "", "Overrides the user agent sent to the alert group rest api")
	flags.Bool("feed-enabled", cfg.Feed.Enabled, "Refresh the feed on a schedule")
	flags.String("feed-key", cfg.Feed.Key, "The page key the feed is stored under")
	flags.String("check-interval", cfg.Feed.CheckInterval, "The feed refresh interval, e.g. 15s")
	flags.Int64("cache-max-size", cfg.Cache.MaxSize, "The max number of items in the in-process cache")
	flags.Duration("labels-ttl", cfg.Cache.LabelsTTL, "How long label lookups are cached, 0 disables caching")
	flags.Bool("redis-enabled", cfg.Cache.Redis.Enabled, "Use redis as cache")
	flags.String("redis-host", cfg.Cache.Redis.Host, "The redis host")
	flags.Int("redis-port", cfg.Cache.Redis.Port, "The redis port")
	flags.Bool("ilert-enabled", cfg.Notifications.Ilert.Enabled, "Send failed actions to iLert")
	flags.String("ilert-api-key", "", "The iLert alert source api key")
	flags.String("ilert-priority", cfg.Notifications.Ilert.Priority, "The iLert alert priority (HIGH, LOW)")

	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse flags")
	}

	flags.VisitAll(func(flag *pflag.Flag) {
		log.Debug().Str("name", flag.Name).Str("value", flag.Value.String()).Msg("Flag")
	})

	for key, name := range flagBindings {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			log.Fatal().Err(err).Str("flag", name).Msg("Failed to bind flag")
		}
	}

	cfgFile, _ := flags.GetString("config")
	cfg.SetConfigFile(cfgFile)
	cfg.Load()

	return cfg
}
