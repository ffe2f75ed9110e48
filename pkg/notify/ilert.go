package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/dustin/go-humanize"
	"github.com/iLert/ilert-go/v3"
	"github.com/rs/zerolog/log"

	shared "github.com/iLert/ilert-feed-sync"
	"github.com/iLert/ilert-feed-sync/pkg/cache"
	"github.com/iLert/ilert-feed-sync/pkg/config"
	"github.com/iLert/ilert-feed-sync/pkg/memory"
	"github.com/iLert/ilert-feed-sync/pkg/utils"
)

const alertEventRateLimitPerMinute = 1

// EventSender sends ilert events
type EventSender interface {
	CreateEvent(input *ilert.CreateEventInput) (*ilert.CreateEventOutput, error)
}

// Ilert raises an ilert alert for every failed action
type Ilert struct {
	setting  config.ConfigNotificationsIlert
	cache    *cache.Cache
	client   EventSender
	dispatch func(component string, fn func())
}

// NewIlert creates an ilert notifier, the rate limit counters live in c
func NewIlert(setting config.ConfigNotificationsIlert, c *cache.Cache) *Ilert {
	return &Ilert{
		setting:  setting,
		cache:    c,
		client:   ilert.NewClient(ilert.WithUserAgent(fmt.Sprintf("%s/%s", shared.App, shared.Version))),
		dispatch: memory.SafeGo,
	}
}

// Notify creates an alert event for a failed action in the background. A successful
// action resets the rate limit of its alert key.
func (n *Ilert) Notify(ctx context.Context, notification Notification) {
	ctx = context.WithoutCancel(ctx)
	n.dispatch("ilert-notifier", func() {
		if !notification.Failed() {
			n.resetRate(ctx, notification)
			return
		}
		if err := n.createEvent(ctx, notification); err != nil {
			log.Error().Err(err).Str("alert_group_id", notification.AlertGroupID).Msg("Failed to create alert event")
		}
	})
}

func alertKeys(notification Notification) (string, string) {
	alertKey := fmt.Sprintf("%s:%s:%s", shared.App, notification.AlertGroupID, notification.Action)
	return alertKey, fmt.Sprintf("%s:%s", alertKey, ilert.EventTypes.Alert)
}

func (n *Ilert) resetRate(ctx context.Context, notification Notification) {
	_, limitKey := alertKeys(notification)
	if err := n.cache.DeleteItem(ctx, limitKey); err != nil {
		log.Warn().Err(err).Str("limit_key", limitKey).Msg("Failed to reset alert event rate")
	}
}

func (n *Ilert) createEvent(ctx context.Context, notification Notification) error {
	alertKey, limitKey := alertKeys(notification)

	currentRate, err := n.cache.GetInt64Item(ctx, limitKey)
	if err != nil {
		log.Warn().Err(err).Str("limit_key", limitKey).Msg("Failed to get current rate for alert key")
		currentRate = 0
	}
	if currentRate >= alertEventRateLimitPerMinute {
		log.Warn().
			Int64("current_rate", currentRate).
			Str("limit_key", limitKey).
			Msg("Current rate is greater than the alert event rate limit, skipping alert event")
		return nil
	}

	values := mustacheValues(notification)
	summary, err := mustache.Render(n.setting.Summary, values)
	if err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	details, err := mustache.Render(n.setting.Details, values)
	if err != nil {
		return fmt.Errorf("failed to render details: %w", err)
	}

	event := &ilert.Event{
		AlertKey:  alertKey,
		Summary:   summary,
		Details:   details,
		EventType: ilert.EventTypes.Alert,
		APIKey:    n.setting.APIKey,
		Priority:  n.setting.Priority,
		Links:     n.links(values),
		Labels: map[string]string{
			"alertGroupId": notification.AlertGroupID,
			"action":       string(notification.Action),
		},
	}

	log.Debug().Str("alert_key", alertKey).Msg("Creating alert event")

	_, err = n.client.CreateEvent(&ilert.CreateEventInput{
		Event: event,
		URL:   utils.String(fmt.Sprintf("https://api.ilert.com/api/v1/events/%s", n.setting.APIKey)),
	})
	if err != nil {
		return err
	}

	if err := n.cache.IncrementItemBy(ctx, limitKey, 1, time.Minute*1); err != nil {
		log.Warn().Err(err).Str("limit_key", limitKey).Msg("Failed to increment alert event rate")
	}

	log.Info().Str("summary", summary).Str("alert_key", alertKey).Msg("Alert event created")
	return nil
}

func (n *Ilert) links(values map[string]string) []ilert.AlertLink {
	links := make([]ilert.AlertLink, 0, len(n.setting.Links))
	for _, link := range n.setting.Links {
		url, err := mustache.Render(link.Href, values)
		if err == nil && url != "" {
			links = append(links, ilert.AlertLink{
				Href: url,
				Text: link.Name,
			})
		}
	}
	return links
}

func mustacheValues(notification Notification) map[string]string {
	occurred := notification.Occurred
	if occurred.IsZero() {
		occurred = time.Now()
	}
	values := map[string]string{
		"alert_group_id": notification.AlertGroupID,
		"action":         string(notification.Action),
		"message":        notification.Message,
		"occurred":       humanize.Time(occurred),
		"error":          "",
	}
	if notification.Err != nil {
		values["error"] = notification.Err.Error()
	}
	return values
}
