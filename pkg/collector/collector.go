package collector

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iLert/ilert-feed-sync/pkg/storage"
)

// Collector definition
type Collector struct {
	storage          *storage.Storage
	fetchesIssued    *prometheus.Desc
	fetchFailures    *prometheus.Desc
	pagesCommitted   *prometheus.Desc
	staleDiscarded   *prometheus.Desc
	actionsSucceeded *prometheus.Desc
	actionsFailed    *prometheus.Desc
	recordsCached    *prometheus.Desc
}

// NewCollector definition
func NewCollector(storage *storage.Storage) *Collector {
	return &Collector{
		storage: storage,
		fetchesIssued: prometheus.NewDesc(
			"ilert_feed_fetches_issued_count",
			"The total alert group page fetches issued",
			[]string{}, nil,
		),
		fetchFailures: prometheus.NewDesc(
			"ilert_feed_fetch_failures_count",
			"The total alert group page fetches that failed",
			[]string{}, nil,
		),
		pagesCommitted: prometheus.NewDesc(
			"ilert_feed_pages_committed_count",
			"The total alert group pages committed to the cache",
			[]string{}, nil,
		),
		staleDiscarded: prometheus.NewDesc(
			"ilert_feed_stale_responses_discarded_count",
			"The total page responses discarded because a newer fetch was issued",
			[]string{}, nil,
		),
		actionsSucceeded: prometheus.NewDesc(
			"ilert_feed_actions_succeeded_count",
			"The total alert group actions that succeeded",
			[]string{}, nil,
		),
		actionsFailed: prometheus.NewDesc(
			"ilert_feed_actions_failed_count",
			"The total alert group actions that failed",
			[]string{}, nil,
		),
		recordsCached: prometheus.NewDesc(
			"ilert_feed_records_cached",
			"The alert groups currently held in the cache",
			[]string{}, nil,
		),
	}
}

// Describe gets prometheus metrics description
func (collector *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.fetchesIssued
	ch <- collector.fetchFailures
	ch <- collector.pagesCommitted
	ch <- collector.staleDiscarded
	ch <- collector.actionsSucceeded
	ch <- collector.actionsFailed
	ch <- collector.recordsCached
}

// Collect gets prometheus metrics collection
func (collector *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(collector.fetchesIssued, prometheus.CounterValue, collector.storage.GetFetchesIssued())
	ch <- prometheus.MustNewConstMetric(collector.fetchFailures, prometheus.CounterValue, collector.storage.GetFetchFailures())
	ch <- prometheus.MustNewConstMetric(collector.pagesCommitted, prometheus.CounterValue, collector.storage.GetPagesCommitted())
	ch <- prometheus.MustNewConstMetric(collector.staleDiscarded, prometheus.CounterValue, collector.storage.GetStaleDiscarded())
	ch <- prometheus.MustNewConstMetric(collector.actionsSucceeded, prometheus.CounterValue, collector.storage.GetActionsSucceeded())
	ch <- prometheus.MustNewConstMetric(collector.actionsFailed, prometheus.CounterValue, collector.storage.GetActionsFailed())
	ch <- prometheus.MustNewConstMetric(collector.recordsCached, prometheus.GaugeValue, collector.storage.GetRecordsCached())
}
