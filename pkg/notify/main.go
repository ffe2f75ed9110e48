package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	v1 "github.com/iLert/ilert-feed-sync/pkg/apis/alertgroup/v1"
)

// Notification a user visible result of an alert group action
type Notification struct {
	AlertGroupID string
	Action       v1.Action
	Message      string
	Err          error
	Occurred     time.Time
}

// Failed reports whether the notification carries an error
func (n Notification) Failed() bool {
	return n.Err != nil
}

// Notifier delivers notifications
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Log writes notifications to the log
type Log struct{}

// Notify definition
func (Log) Notify(_ context.Context, n Notification) {
	if n.Failed() {
		log.Error().
			Err(n.Err).
			Str("alert_group_id", n.AlertGroupID).
			Str("action", string(n.Action)).
			Msg(n.Message)
		return
	}
	log.Info().
		Str("alert_group_id", n.AlertGroupID).
		Str("action", string(n.Action)).
		Msg(n.Message)
}

// Multi fans notifications out to every notifier
type Multi []Notifier

// Notify definition
func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, notifier := range m {
		notifier.Notify(ctx, n)
	}
}
