package feed

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	v1 "github.com/iLert/ilert-feed-sync/pkg/apis/alertgroup/v1"
	"github.com/iLert/ilert-feed-sync/pkg/notify"
	"github.com/iLert/ilert-feed-sync/pkg/storage"
	"github.com/iLert/ilert-feed-sync/pkg/utils"
)

// DefaultKey page key of the main feed
const DefaultKey = "default"

// Backend is the part of the rest api the store talks to
type Backend interface {
	ListAlertGroups(ctx context.Context, filters v1.Filters, cursor *string) (*v1.ListResponse, error)
	GetAlertGroup(ctx context.Context, id string) (*v1.AlertGroup, error)
	PostAction(ctx context.Context, id string, action v1.Action, body interface{}) (*v1.AlertGroup, error)
	GetStats(ctx context.Context, filters v1.Filters) (*v1.StatsSummary, error)
}

// Store caches alert groups and the pages they were fetched on.
// Only the most recently issued fetch may commit a page.
type Store struct {
	backend  Backend
	notifier notify.Notifier
	storage  *storage.Storage
	events   *broker

	mu      sync.RWMutex
	records map[string]*v1.AlertGroup
	pages   map[string]*v1.PageResult
	latest  uint64
}

// StoreOptions definition
type StoreOptions func(*Store)

// WithNotifier sets the notifier action results are sent to
func WithNotifier(n notify.Notifier) StoreOptions {
	return func(s *Store) {
		s.notifier = n
	}
}

// WithStorage sets the metrics storage
func WithStorage(srg *storage.Storage) StoreOptions {
	return func(s *Store) {
		s.storage = srg
	}
}

// NewStore creates a store for one session
func NewStore(backend Backend, options ...StoreOptions) *Store {
	s := &Store{
		backend:  backend,
		notifier: notify.Log{},
		events:   newBroker(),
		records:  map[string]*v1.AlertGroup{},
		pages:    map[string]*v1.PageResult{},
	}
	for _, opt := range options {
		opt(s)
	}
	if s.storage == nil {
		s.storage = &storage.Storage{}
		s.storage.Init()
	}
	return s
}

// Close ends the session, subscribers are closed
func (s *Store) Close() {
	s.events.close()
}

// Subscribe returns a channel of store changes and a func to stop receiving them
func (s *Store) Subscribe() (<-chan Event, func()) {
	return s.events.subscribe()
}

func (s *Store) issueToken() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

// FetchPage fetches a page of the main feed, see FetchPageFor
func (s *Store) FetchPage(ctx context.Context, filters v1.Filters, cursor *string) (*v1.PageResult, error) {
	return s.FetchPageFor(ctx, DefaultKey, filters, cursor)
}

// FetchPageFor fetches a page and stores it under key. Starting the fetch makes every
// fetch still in flight obsolete: when a newer one was issued meanwhile the response is
// dropped and FetchPageFor returns nil, nil.
func (s *Store) FetchPageFor(ctx context.Context, key string, filters v1.Filters, cursor *string) (*v1.PageResult, error) {
	token := s.issueToken()
	s.storage.IncreaseFetchesIssued()

	resp, err := s.backend.ListAlertGroups(ctx, filters, cursor)
	if err != nil {
		s.storage.IncreaseFetchFailures()
		log.Error().Err(err).Str("key", key).Str("cursor", utils.StringValue(cursor)).Uint64("token", token).Msg("Failed to fetch alert groups")
		return nil, err
	}

	result := &v1.PageResult{
		Prev:     ExtractCursor(resp.Previous),
		Next:     ExtractCursor(resp.Next),
		Results:  make([]string, 0, len(resp.Results)),
		PageSize: resp.PageSize,
	}

	s.mu.Lock()
	if token != s.latest {
		latest := s.latest
		s.mu.Unlock()
		s.storage.IncreaseStaleDiscarded()
		log.Debug().Str("key", key).Uint64("token", token).Uint64("latest", latest).Msg("Discarding stale alert groups page")
		return nil, nil
	}
	for _, ag := range resp.Results {
		if ag == nil {
			continue
		}
		if ag.PK == "" {
			log.Warn().Str("key", key).Msg("Skipping alert group without pk")
			continue
		}
		s.mergeLocked(ag)
		result.Results = append(result.Results, ag.PK)
	}
	s.pages[key] = result
	cached := len(s.records)
	out := copyPageResult(result)
	s.mu.Unlock()

	s.storage.IncreasePagesCommitted()
	s.storage.SetRecordsCached(cached)
	s.events.publish(Event{Type: EventPageCommitted, Key: key})

	log.Debug().Str("key", key).Int("results", len(result.Results)).Msg("Committed alert groups page")
	return out, nil
}

func (s *Store) mergeLocked(update *v1.AlertGroup) {
	if existing, ok := s.records[update.PK]; ok {
		existing.Merge(update)
		return
	}
	s.records[update.PK] = update.Clone()
}

func copyPageResult(pr *v1.PageResult) *v1.PageResult {
	c := *pr
	c.Results = append([]string(nil), pr.Results...)
	return &c
}

// GetPage resolves the page stored under key. Unknown keys give an empty page and
// ids missing from the record cache resolve to nil entries.
func (s *Store) GetPage(key string) v1.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pr, ok := s.pages[key]
	if !ok {
		return v1.Page{Results: []*v1.AlertGroup{}}
	}

	page := v1.Page{
		Prev:     pr.Prev,
		Next:     pr.Next,
		PageSize: pr.PageSize,
		Results:  make([]*v1.AlertGroup, 0, len(pr.Results)),
	}
	for _, id := range pr.Results {
		page.Results = append(page.Results, s.records[id].Clone())
	}
	return page
}

// Record returns a snapshot of a cached alert group
func (s *Store) Record(id string) (*v1.AlertGroup, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ag, ok := s.records[id]
	return ag.Clone(), ok
}

// Len returns the number of cached alert groups
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Refresh gets a single alert group and merges it into the cache
func (s *Store) Refresh(ctx context.Context, id string) (*v1.AlertGroup, error) {
	ag, err := s.backend.GetAlertGroup(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("alert_group_id", id).Msg("Failed to refresh alert group")
		return nil, err
	}
	if ag.PK == "" {
		ag.PK = id
	}

	s.mu.Lock()
	s.mergeLocked(ag)
	out := s.records[ag.PK].Clone()
	cached := len(s.records)
	s.mu.Unlock()

	s.storage.SetRecordsCached(cached)
	s.events.publish(Event{Type: EventRecordUpdated, ID: ag.PK})
	return out, nil
}

// Stats gets the alert group count for filters
func (s *Store) Stats(ctx context.Context, filters v1.Filters) (*v1.StatsSummary, error) {
	return s.backend.GetStats(ctx, filters)
}
