package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/iLert/ilert-feed-sync/pkg/apis/alertgroup/v1"
	"github.com/iLert/ilert-feed-sync/pkg/storage"
)

func newSeededStore(t *testing.T, backend *fakeBackend, options ...StoreOptions) *Store {
	t.Helper()
	backend.list = func(context.Context, v1.Filters, *string) (*v1.ListResponse, error) {
		return listOf(alertGroup(t, `{"pk":"I1","status":0,"title":"db down","alerts_count":2}`)), nil
	}
	s := NewStore(backend, options...)
	_, err := s.FetchPage(context.Background(), nil, nil)
	require.NoError(t, err)
	return s
}

func TestApplyActionSetsUndo(t *testing.T) {
	backend := &fakeBackend{
		post: func(_ context.Context, id string, action v1.Action, body interface{}) (*v1.AlertGroup, error) {
			assert.Equal(t, "I1", id)
			assert.Equal(t, v1.ActionAcknowledge, action)
			assert.Nil(t, body)
			return alertGroup(t, `{"pk":"I1","status":1}`), nil
		},
	}
	notifier := &recordingNotifier{}
	s := newSeededStore(t, backend, WithNotifier(notifier))

	ag, err := s.ApplyAction(context.Background(), "I1", v1.ActionAcknowledge, false)
	require.NoError(t, err)

	assert.Equal(t, v1.StatusAcknowledged, ag.Status)
	assert.Equal(t, v1.ActionUnacknowledge, ag.UndoAction)
	assert.False(t, ag.Loading)
	assert.Equal(t, "db down", ag.Fields["title"])

	cached, _ := s.Record("I1")
	assert.Equal(t, v1.ActionUnacknowledge, cached.UndoAction)

	require.Len(t, notifier.notifications, 1)
	assert.False(t, notifier.notifications[0].Failed())
}

func TestApplyActionUndoLeavesUndoEmpty(t *testing.T) {
	backend := &fakeBackend{
		post: func(context.Context, string, v1.Action, interface{}) (*v1.AlertGroup, error) {
			return alertGroup(t, `{"pk":"I1","status":1}`), nil
		},
	}
	s := newSeededStore(t, backend)

	ag, err := s.ApplyAction(context.Background(), "I1", v1.ActionAcknowledge, true)
	require.NoError(t, err)
	assert.Equal(t, v1.Action(""), ag.UndoAction)
}

func TestApplyActionWithoutInverse(t *testing.T) {
	backend := &fakeBackend{
		post: func(context.Context, string, v1.Action, interface{}) (*v1.AlertGroup, error) {
			return nil, nil
		},
	}
	s := newSeededStore(t, backend)

	ag, err := s.ApplyAction(context.Background(), "I1", v1.ActionUnpage, false)
	require.NoError(t, err)
	assert.Equal(t, v1.Action(""), ag.UndoAction)
	assert.Equal(t, v1.StatusFiring, ag.Status)
}

func TestApplyActionFailure(t *testing.T) {
	apiErr := errors.New("api error: status=500")
	backend := &fakeBackend{
		post: func(context.Context, string, v1.Action, interface{}) (*v1.AlertGroup, error) {
			return nil, apiErr
		},
	}
	notifier := &recordingNotifier{}
	srg := &storage.Storage{}
	srg.Init()
	s := newSeededStore(t, backend, WithNotifier(notifier), WithStorage(srg))
	before, _ := s.Record("I1")

	ag, err := s.ApplyAction(context.Background(), "I1", v1.ActionResolve, false)
	assert.ErrorIs(t, err, apiErr)

	after, _ := s.Record("I1")
	assert.Equal(t, before, after)
	assert.Equal(t, before, ag)
	assert.False(t, after.Loading)

	require.Len(t, notifier.notifications, 1)
	n := notifier.notifications[0]
	assert.True(t, n.Failed())
	assert.Equal(t, "I1", n.AlertGroupID)
	assert.Equal(t, v1.ActionResolve, n.Action)
	assert.Equal(t, float64(1), srg.GetActionsFailed())
}

func TestApplyActionLoadingWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	backend := &fakeBackend{
		post: func(context.Context, string, v1.Action, interface{}) (*v1.AlertGroup, error) {
			close(started)
			<-release
			return alertGroup(t, `{"pk":"I1","status":2}`), nil
		},
	}
	s := newSeededStore(t, backend)
	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	done := make(chan error, 1)
	go func() {
		_, err := s.ApplyAction(context.Background(), "I1", v1.ActionResolve, false)
		done <- err
	}()
	<-started

	ag, _ := s.Record("I1")
	assert.True(t, ag.Loading)
	assert.Equal(t, Event{Type: EventRecordUpdated, ID: "I1"}, <-events)

	// a page fetched meanwhile must not clobber the loading flag
	_, err := s.FetchPage(context.Background(), nil, nil)
	require.NoError(t, err)
	ag, _ = s.Record("I1")
	assert.True(t, ag.Loading)

	close(release)
	require.NoError(t, <-done)

	ag, _ = s.Record("I1")
	assert.False(t, ag.Loading)
	assert.Equal(t, v1.StatusResolved, ag.Status)
	assert.Equal(t, v1.ActionUnresolve, ag.UndoAction)
}

func TestApplyActionUnknownRecordCreatesStub(t *testing.T) {
	backend := &fakeBackend{
		post: func(context.Context, string, v1.Action, interface{}) (*v1.AlertGroup, error) {
			return alertGroup(t, `{"pk":"I7","status":3}`), nil
		},
	}
	s := NewStore(backend)

	ag, err := s.ApplyAction(context.Background(), "I7", v1.ActionSilence, false)
	require.NoError(t, err)
	assert.Equal(t, "I7", ag.PK)
	assert.Equal(t, v1.StatusSilenced, ag.Status)
	assert.Equal(t, v1.ActionUnsilence, ag.UndoAction)
	assert.Equal(t, 1, s.Len())
}

func TestApplyActionUnknownRecordFailureLeavesNoRecord(t *testing.T) {
	apiErr := errors.New("api error: status=404")
	backend := &fakeBackend{
		post: func(context.Context, string, v1.Action, interface{}) (*v1.AlertGroup, error) {
			return nil, apiErr
		},
	}
	srg := &storage.Storage{}
	srg.Init()
	s := NewStore(backend, WithStorage(srg))

	ag, err := s.ApplyAction(context.Background(), "ghost", v1.ActionAcknowledge, false)
	assert.ErrorIs(t, err, apiErr)
	assert.Nil(t, ag)

	_, ok := s.Record("ghost")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, float64(0), srg.GetRecordsCached())
}

func TestApplyActionsRacingOnOneRecord(t *testing.T) {
	started := make(chan v1.Action, 2)
	release := map[v1.Action]chan struct{}{
		v1.ActionAcknowledge: make(chan struct{}),
		v1.ActionResolve:     make(chan struct{}),
	}
	responses := map[v1.Action]string{
		v1.ActionAcknowledge: `{"pk":"I1","status":1,"acknowledged_by":"U1"}`,
		v1.ActionResolve:     `{"pk":"I1","status":2,"resolved_by":"U2"}`,
	}
	backend := &fakeBackend{
		post: func(_ context.Context, _ string, action v1.Action, _ interface{}) (*v1.AlertGroup, error) {
			started <- action
			<-release[action]
			return alertGroup(t, responses[action]), nil
		},
	}
	s := newSeededStore(t, backend)
	ctx := context.Background()

	first := make(chan error, 1)
	go func() {
		_, err := s.ApplyAction(ctx, "I1", v1.ActionAcknowledge, false)
		first <- err
	}()
	require.Equal(t, v1.ActionAcknowledge, <-started)

	second := make(chan error, 1)
	go func() {
		_, err := s.ApplyAction(ctx, "I1", v1.ActionResolve, false)
		second <- err
	}()
	require.Equal(t, v1.ActionResolve, <-started)

	// the first completion clears loading although the second action is still in flight
	close(release[v1.ActionAcknowledge])
	require.NoError(t, <-first)
	ag, _ := s.Record("I1")
	assert.False(t, ag.Loading)
	assert.Equal(t, v1.StatusAcknowledged, ag.Status)
	assert.Equal(t, v1.ActionUnacknowledge, ag.UndoAction)

	close(release[v1.ActionResolve])
	require.NoError(t, <-second)
	ag, _ = s.Record("I1")
	assert.False(t, ag.Loading)
	assert.Equal(t, v1.StatusResolved, ag.Status)
	assert.Equal(t, v1.ActionUnresolve, ag.UndoAction)
	assert.Equal(t, "U1", ag.Fields["acknowledged_by"])
	assert.Equal(t, "U2", ag.Fields["resolved_by"])
	assert.Equal(t, "db down", ag.Fields["title"])
}

func TestActionBodies(t *testing.T) {
	var bodies []interface{}
	backend := &fakeBackend{
		post: func(_ context.Context, _ string, _ v1.Action, body interface{}) (*v1.AlertGroup, error) {
			bodies = append(bodies, body)
			return nil, nil
		},
	}
	s := newSeededStore(t, backend)
	ctx := context.Background()

	_, err := s.Silence(ctx, "I1", 30*time.Minute)
	require.NoError(t, err)
	_, err = s.Silence(ctx, "I1", -1)
	require.NoError(t, err)
	_, err = s.Attach(ctx, "I1", "I0")
	require.NoError(t, err)
	_, err = s.Unpage(ctx, "I1", "U1")
	require.NoError(t, err)

	assert.Equal(t, []interface{}{
		map[string]int64{"delay": 1800},
		map[string]int64{"delay": -1},
		map[string]string{"root_alert_group_pk": "I0"},
		map[string]string{"user_id": "U1"},
	}, bodies)
}
