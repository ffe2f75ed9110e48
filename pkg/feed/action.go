package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	v1 "github.com/iLert/ilert-feed-sync/pkg/apis/alertgroup/v1"
	"github.com/iLert/ilert-feed-sync/pkg/notify"
)

// operation is a remote call returning the updated alert group, nil when the api sent none
type operation func(ctx context.Context) (*v1.AlertGroup, error)

// ApplyAction runs an action on an alert group, see ApplyActionWithBody
func (s *Store) ApplyAction(ctx context.Context, id string, action v1.Action, isUndo bool) (*v1.AlertGroup, error) {
	return s.ApplyActionWithBody(ctx, id, action, isUndo, nil)
}

// ApplyActionWithBody marks the alert group loading, runs the action remotely and merges
// the response. Unless isUndo is set, the inverse action is attached as UndoAction once the
// call succeeds. A failed call only clears loading; the error is sent to the notifier and
// returned. Concurrent actions on one alert group are not serialized.
func (s *Store) ApplyActionWithBody(ctx context.Context, id string, action v1.Action, isUndo bool, body interface{}) (*v1.AlertGroup, error) {
	var undo v1.Action
	if !isUndo {
		undo, _ = action.Inverse()
	}

	call := func(ctx context.Context) (*v1.AlertGroup, error) {
		return s.backend.PostAction(ctx, id, action, body)
	}
	op := s.withNotification(id, action, s.withLoading(id, undo, call))
	return op(ctx)
}

// Silence silences an alert group for delay, a negative delay silences it forever
func (s *Store) Silence(ctx context.Context, id string, delay time.Duration) (*v1.AlertGroup, error) {
	seconds := int64(-1)
	if delay >= 0 {
		seconds = int64(delay / time.Second)
	}
	return s.ApplyActionWithBody(ctx, id, v1.ActionSilence, false, map[string]int64{"delay": seconds})
}

// Attach attaches an alert group to rootID
func (s *Store) Attach(ctx context.Context, id string, rootID string) (*v1.AlertGroup, error) {
	return s.ApplyActionWithBody(ctx, id, v1.ActionAttach, false, map[string]string{"root_alert_group_pk": rootID})
}

// Unpage removes a user from the escalation of an alert group
func (s *Store) Unpage(ctx context.Context, id string, userID string) (*v1.AlertGroup, error) {
	return s.ApplyActionWithBody(ctx, id, v1.ActionUnpage, false, map[string]string{"user_id": userID})
}

// withLoading sets loading before op runs and clears it after. On success the response is
// merged and undo attached, on failure nothing else changes. A record created only to
// carry the loading flag is dropped again when op fails.
func (s *Store) withLoading(id string, undo v1.Action, op operation) operation {
	return func(ctx context.Context) (*v1.AlertGroup, error) {
		created := s.setLoading(id)

		updated, err := op(ctx)

		s.mu.Lock()
		ag := s.records[id]
		ag.Loading = false
		if err == nil {
			if updated != nil {
				updated.PK = id
				ag.Merge(updated)
			}
			ag.UndoAction = undo
		} else if created && len(ag.Fields) == 0 {
			delete(s.records, id)
			ag = nil
		}
		out := ag.Clone()
		cached := len(s.records)
		s.mu.Unlock()

		s.storage.SetRecordsCached(cached)
		s.events.publish(Event{Type: EventRecordUpdated, ID: id})
		return out, err
	}
}

// setLoading marks id loading and reports whether the record had to be created for it
func (s *Store) setLoading(id string) bool {
	s.mu.Lock()
	ag, ok := s.records[id]
	if !ok {
		ag = &v1.AlertGroup{PK: id, Fields: map[string]interface{}{}}
		s.records[id] = ag
	}
	ag.Loading = true
	cached := len(s.records)
	s.mu.Unlock()

	s.storage.SetRecordsCached(cached)
	s.events.publish(Event{Type: EventRecordUpdated, ID: id})
	return !ok
}

// withNotification sends the result of op to the notifier
func (s *Store) withNotification(id string, action v1.Action, op operation) operation {
	return func(ctx context.Context) (*v1.AlertGroup, error) {
		ag, err := op(ctx)

		n := notify.Notification{
			AlertGroupID: id,
			Action:       action,
			Occurred:     time.Now(),
		}
		if err != nil {
			s.storage.IncreaseActionsFailed()
			n.Message = fmt.Sprintf("Failed to %s alert group", action)
			n.Err = err
		} else {
			s.storage.IncreaseActionsSucceeded()
			n.Message = fmt.Sprintf("Alert group %s done", action)
			log.Debug().Str("alert_group_id", id).Str("action", string(action)).Msg("Alert group action finished")
		}
		s.notifier.Notify(ctx, n)
		return ag, err
	}
}
