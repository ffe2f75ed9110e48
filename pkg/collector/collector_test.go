package collector

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iLert/ilert-feed-sync/pkg/storage"
)

func TestCollect(t *testing.T) {
	srg := &storage.Storage{}
	srg.Init()
	srg.IncreaseFetchesIssued()
	srg.IncreaseFetchesIssued()
	srg.IncreaseStaleDiscarded()
	srg.SetRecordsCached(5)

	col := NewCollector(srg)
	assert.Equal(t, 7, testutil.CollectAndCount(col))

	expected := `
# HELP ilert_feed_fetches_issued_count The total alert group page fetches issued
# TYPE ilert_feed_fetches_issued_count counter
ilert_feed_fetches_issued_count 2
# HELP ilert_feed_records_cached The alert groups currently held in the cache
# TYPE ilert_feed_records_cached gauge
ilert_feed_records_cached 5
# HELP ilert_feed_stale_responses_discarded_count The total page responses discarded because a newer fetch was issued
# TYPE ilert_feed_stale_responses_discarded_count counter
ilert_feed_stale_responses_discarded_count 1
`
	err := testutil.CollectAndCompare(col, strings.NewReader(expected),
		"ilert_feed_fetches_issued_count",
		"ilert_feed_records_cached",
		"ilert_feed_stale_responses_discarded_count",
	)
	require.NoError(t, err)
}
