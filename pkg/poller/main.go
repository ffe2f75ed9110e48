package poller

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	v1 "github.com/iLert/ilert-feed-sync/pkg/apis/alertgroup/v1"
	"github.com/iLert/ilert-feed-sync/pkg/config"
	"github.com/iLert/ilert-feed-sync/pkg/memory"
)

// Fetcher issues page fetches
type Fetcher interface {
	FetchPageFor(ctx context.Context, key string, filters v1.Filters, cursor *string) (*v1.PageResult, error)
}

// PressureChecker reports the memory pressure level
type PressureChecker interface {
	GetPressureLevel() string
}

// Poller refreshes the first page of a feed on a schedule
type Poller struct {
	fetcher Fetcher
	setting config.ConfigFeed
	monitor PressureChecker
	cron    *cron.Cron
}

// New creates a poller, monitor may be nil
func New(fetcher Fetcher, setting config.ConfigFeed, monitor PressureChecker) *Poller {
	return &Poller{
		fetcher: fetcher,
		setting: setting,
		monitor: monitor,
	}
}

// Start schedules the refresh every check interval
func (p *Poller) Start() error {
	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %s", p.setting.CheckInterval), p.poll)
	if err != nil {
		return fmt.Errorf("failed to schedule feed poller: %w", err)
	}

	log.Info().Str("key", p.setting.Key).Str("interval", p.setting.CheckInterval).Msg("Starting feed poller")
	p.cron = c
	p.cron.Start()
	return nil
}

// Stop stops scheduling, a running refresh is waited for
func (p *Poller) Stop() {
	if p.cron != nil {
		log.Info().Msg("Stopping feed poller")
		<-p.cron.Stop().Done()
		p.cron = nil
	}
}

func (p *Poller) poll() {
	defer memory.RecoverPanic("feed-poller")

	if err := p.PollOnce(context.Background()); err != nil {
		log.Warn().Err(err).Str("key", p.setting.Key).Msg("Feed refresh failed")
	}
}

// PollOnce fetches the first page of the feed unless memory pressure is critical
func (p *Poller) PollOnce(ctx context.Context) error {
	if p.monitor != nil {
		pressureLevel := p.monitor.GetPressureLevel()
		if pressureLevel == memory.LevelCritical || pressureLevel == memory.LevelEmergency {
			log.Warn().Str("pressure_level", pressureLevel).Msg("Skipping feed refresh due to memory pressure")
			return nil
		}
	}

	filters, err := v1.Filters(p.setting.Filters).Normalize()
	if err != nil {
		return fmt.Errorf("invalid feed filters: %w", err)
	}

	log.Debug().Str("key", p.setting.Key).Msg("Running feed refresh")
	result, err := p.fetcher.FetchPageFor(ctx, p.setting.Key, filters, nil)
	if err != nil {
		return err
	}
	if result == nil {
		log.Debug().Str("key", p.setting.Key).Msg("Feed refresh superseded by a newer fetch")
	}
	return nil
}
