package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	shared "github.com/iLert/ilert-feed-sync"
	"github.com/iLert/ilert-feed-sync/pkg/api"
	"github.com/iLert/ilert-feed-sync/pkg/cache"
	"github.com/iLert/ilert-feed-sync/pkg/config"
	"github.com/iLert/ilert-feed-sync/pkg/feed"
	"github.com/iLert/ilert-feed-sync/pkg/handlers"
	"github.com/iLert/ilert-feed-sync/pkg/labels"
	"github.com/iLert/ilert-feed-sync/pkg/logger"
	"github.com/iLert/ilert-feed-sync/pkg/memory"
	"github.com/iLert/ilert-feed-sync/pkg/notify"
	"github.com/iLert/ilert-feed-sync/pkg/poller"
	"github.com/iLert/ilert-feed-sync/pkg/router"
	"github.com/iLert/ilert-feed-sync/pkg/storage"
	"github.com/iLert/ilert-feed-sync/pkg/utils"
)

func main() {
	cfg := parseAndValidateFlags()
	logger.Init(cfg.Settings.Log)
	cfg.Print()

	log.Info().Str("version", shared.Version).Msg("Starting feed sync agent")
	if cfg.Settings.HttpAuthorizationKey == "" {
		log.Warn().Msg("No http authorization key configured, the agent api is not protected")
	}

	srg := &storage.Storage{}
	srg.Init()

	c := cache.New(cacheOptions(cfg.Cache))
	client := api.NewClient(cfg.Settings.API.URL, cfg.Settings.API.Token, clientOptions(cfg.Settings.API)...)

	store := feed.NewStore(client, feed.WithStorage(srg), feed.WithNotifier(notifier(cfg, c)))

	monitor := memory.NewMonitor(memory.GetMemoryLimitMB(), store.Len)
	monitor.Start()

	feedPoller := poller.New(store, cfg.Feed, monitor)
	if cfg.Feed.Enabled {
		if err := feedPoller.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start feed poller")
		}
	}

	env := &handlers.Env{
		Config:  cfg,
		Store:   store,
		Labels:  labels.NewLookup(client, c, cfg.Cache.LabelsTTL),
		Columns: client,
	}

	srv := &http.Server{
		Handler:      router.Setup(srg, env),
		Addr:         fmt.Sprintf(":%d", cfg.Settings.Port),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * cfg.Settings.API.Timeout,
	}

	memory.SafeGo("http-server", func() {
		log.Info().Str("address", srv.Addr).Msg("Starting Server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	})

	utils.WaitForShutdown(srv,
		feedPoller.Stop,
		monitor.Stop,
		store.Close,
		func() {
			if err := c.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close cache")
			}
		},
	)
}

func clientOptions(setting config.ConfigSettingsAPI) []api.ClientOptions {
	options := []api.ClientOptions{api.WithTimeout(setting.Timeout)}
	if setting.UserAgent != "" {
		options = append(options, api.WithUserAgent(setting.UserAgent))
	}
	return options
}

func cacheOptions(setting config.ConfigCache) cache.Options {
	opts := cache.Options{MaxSize: setting.MaxSize}
	if setting.Redis.Enabled {
		opts.Redis = &redis.Options{
			Addr:     fmt.Sprintf("%s:%d", setting.Redis.Host, setting.Redis.Port),
			Password: setting.Redis.Password,
		}
	}
	return opts
}

func notifier(cfg *config.Config, c *cache.Cache) notify.Notifier {
	if !cfg.Notifications.Ilert.Enabled {
		return notify.Log{}
	}
	return notify.Multi{notify.Log{}, notify.NewIlert(cfg.Notifications.Ilert, c)}
}
