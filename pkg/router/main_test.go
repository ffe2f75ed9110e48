package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iLert/ilert-feed-sync/pkg/api"
	"github.com/iLert/ilert-feed-sync/pkg/config"
	"github.com/iLert/ilert-feed-sync/pkg/feed"
	"github.com/iLert/ilert-feed-sync/pkg/handlers"
	"github.com/iLert/ilert-feed-sync/pkg/storage"
)

func newTestRouter(t *testing.T) (*storage.Storage, http.Handler) {
	t.Helper()
	srg := &storage.Storage{}
	srg.Init()

	cfg := config.GetDefaultConfig()
	cfg.Settings.HttpAuthorizationKey = "secret"

	store := feed.NewStore(api.NewClient("http://127.0.0.1:1/", "token"), feed.WithStorage(srg))
	t.Cleanup(store.Close)

	return srg, Setup(srg, &handlers.Env{Config: cfg, Store: store})
}

func TestHealth(t *testing.T) {
	_, router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestMetrics(t *testing.T) {
	srg, router := newTestRouter(t)
	srg.IncreasePagesCommitted()
	srg.SetRecordsCached(12)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ilert_feed_pages_committed_count 1")
	assert.Contains(t, w.Body.String(), "ilert_feed_records_cached 12")
}

func TestSetupTwice(t *testing.T) {
	newTestRouter(t)
	newTestRouter(t)
}

func TestFeedRoutesRequireAuthorization(t *testing.T) {
	_, router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/alert-groups", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
