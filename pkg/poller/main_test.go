package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/iLert/ilert-feed-sync/pkg/apis/alertgroup/v1"
	"github.com/iLert/ilert-feed-sync/pkg/config"
	"github.com/iLert/ilert-feed-sync/pkg/memory"
)

type fakeFetcher struct {
	mu      sync.Mutex
	keys    []string
	filters []v1.Filters
	err     error
}

func (f *fakeFetcher) FetchPageFor(_ context.Context, key string, filters v1.Filters, cursor *string) (*v1.PageResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	f.filters = append(f.filters, filters)
	if f.err != nil {
		return nil, f.err
	}
	return &v1.PageResult{}, nil
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.keys)
}

type fixedPressure string

func (p fixedPressure) GetPressureLevel() string {
	return string(p)
}

func feedSetting() config.ConfigFeed {
	return config.GetDefaultConfig().Feed
}

func TestPollOnce(t *testing.T) {
	fetcher := &fakeFetcher{}
	p := New(fetcher, feedSetting(), nil)

	require.NoError(t, p.PollOnce(context.Background()))
	assert.Equal(t, []string{"default"}, fetcher.keys)
	assert.Equal(t, v1.Filters{"status": {"0", "1"}}, fetcher.filters[0])
}

func TestPollOnceStatusNames(t *testing.T) {
	fetcher := &fakeFetcher{}
	setting := feedSetting()
	setting.Filters = map[string][]string{"status": {"firing", "Silenced"}}
	p := New(fetcher, setting, nil)

	require.NoError(t, p.PollOnce(context.Background()))
	assert.Equal(t, v1.Filters{"status": {"0", "3"}}, fetcher.filters[0])

	setting.Filters = map[string][]string{"status": {"paused"}}
	assert.Error(t, New(fetcher, setting, nil).PollOnce(context.Background()))
	assert.Equal(t, 1, fetcher.calls())
}

func TestPollOnceError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("unavailable")}
	p := New(fetcher, feedSetting(), nil)

	assert.Error(t, p.PollOnce(context.Background()))
}

func TestPollOnceSkipsUnderPressure(t *testing.T) {
	testCases := []struct {
		level         string
		expectedCalls int
	}{
		{memory.LevelNormal, 1},
		{memory.LevelWarning, 1},
		{memory.LevelCritical, 0},
		{memory.LevelEmergency, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			fetcher := &fakeFetcher{}
			p := New(fetcher, feedSetting(), fixedPressure(tc.level))

			require.NoError(t, p.PollOnce(context.Background()))
			assert.Equal(t, tc.expectedCalls, fetcher.calls())
		})
	}
}

func TestStartSchedulesRefresh(t *testing.T) {
	fetcher := &fakeFetcher{}
	setting := feedSetting()
	setting.CheckInterval = "1s"
	p := New(fetcher, setting, nil)

	require.NoError(t, p.Start())
	defer p.Stop()

	assert.Eventually(t, func() bool { return fetcher.calls() > 0 }, 5*time.Second, 50*time.Millisecond)
}

func TestStartInvalidInterval(t *testing.T) {
	setting := feedSetting()
	setting.CheckInterval = "whenever"
	p := New(&fakeFetcher{}, setting, nil)

	assert.Error(t, p.Start())
	p.Stop()
}
