package storage

import "sync"

// Storage prometheus metrics storage
type Storage struct {
	mu sync.RWMutex

	fetchesIssued    float64
	fetchFailures    float64
	pagesCommitted   float64
	staleDiscarded   float64
	actionsSucceeded float64
	actionsFailed    float64
	recordsCached    float64
}

// Init initialize storage
func (storage *Storage) Init() {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	storage.fetchesIssued = 0
	storage.fetchFailures = 0
	storage.pagesCommitted = 0
	storage.staleDiscarded = 0
	storage.actionsSucceeded = 0
	storage.actionsFailed = 0
	storage.recordsCached = 0
}

func (storage *Storage) read(v *float64) float64 {
	storage.mu.RLock()
	defer storage.mu.RUnlock()
	return *v
}

func (storage *Storage) increase(v *float64) {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	*v++
}

// GetFetchesIssued returns issued page fetches count
func (storage *Storage) GetFetchesIssued() float64 {
	return storage.read(&storage.fetchesIssued)
}

// IncreaseFetchesIssued increases issued page fetches count
func (storage *Storage) IncreaseFetchesIssued() {
	storage.increase(&storage.fetchesIssued)
}

// GetFetchFailures returns failed page fetches count
func (storage *Storage) GetFetchFailures() float64 {
	return storage.read(&storage.fetchFailures)
}

// IncreaseFetchFailures increases failed page fetches count
func (storage *Storage) IncreaseFetchFailures() {
	storage.increase(&storage.fetchFailures)
}

// GetPagesCommitted returns committed pages count
func (storage *Storage) GetPagesCommitted() float64 {
	return storage.read(&storage.pagesCommitted)
}

// IncreasePagesCommitted increases committed pages count
func (storage *Storage) IncreasePagesCommitted() {
	storage.increase(&storage.pagesCommitted)
}

// GetStaleDiscarded returns discarded stale responses count
func (storage *Storage) GetStaleDiscarded() float64 {
	return storage.read(&storage.staleDiscarded)
}

// IncreaseStaleDiscarded increases discarded stale responses count
func (storage *Storage) IncreaseStaleDiscarded() {
	storage.increase(&storage.staleDiscarded)
}

// GetActionsSucceeded returns succeeded actions count
func (storage *Storage) GetActionsSucceeded() float64 {
	return storage.read(&storage.actionsSucceeded)
}

// IncreaseActionsSucceeded increases succeeded actions count
func (storage *Storage) IncreaseActionsSucceeded() {
	storage.increase(&storage.actionsSucceeded)
}

// GetActionsFailed returns failed actions count
func (storage *Storage) GetActionsFailed() float64 {
	return storage.read(&storage.actionsFailed)
}

// IncreaseActionsFailed increases failed actions count
func (storage *Storage) IncreaseActionsFailed() {
	storage.increase(&storage.actionsFailed)
}

// GetRecordsCached returns the cached alert groups count
func (storage *Storage) GetRecordsCached() float64 {
	return storage.read(&storage.recordsCached)
}

// SetRecordsCached sets the cached alert groups count
func (storage *Storage) SetRecordsCached(count int) {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	storage.recordsCached = float64(count)
}
