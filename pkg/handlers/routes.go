package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	v1 "github.com/iLert/ilert-feed-sync/pkg/apis/alertgroup/v1"
	"github.com/iLert/ilert-feed-sync/pkg/config"
	"github.com/iLert/ilert-feed-sync/pkg/feed"
	"github.com/iLert/ilert-feed-sync/pkg/labels"
)

// ColumnSettings persisted column settings endpoints
type ColumnSettings interface {
	GetColumnSettings(ctx context.Context) (*v1.ColumnSettings, error)
	ReorderColumns(ctx context.Context, settings *v1.ColumnSettings) (*v1.ColumnSettings, error)
	UpdateColumns(ctx context.Context, settings *v1.ColumnSettings) (*v1.ColumnSettings, error)
	ResetColumns(ctx context.Context) (*v1.ColumnSettings, error)
}

// Env dependencies of the handlers
type Env struct {
	Config  *config.Config
	Store   *feed.Store
	Labels  *labels.Lookup
	Columns ColumnSettings
}

// SetUpFeedRoutes registers the feed api
func SetUpFeedRoutes(router *gin.Engine, env *Env) {
	router.GET("/api/alert-groups", AuthorizedHandler(env, GetAlertGroupsHandler))
	router.POST("/api/alert-groups", AuthorizedHandler(env, FetchAlertGroupsHandler))
	router.GET("/api/alert-groups/:id", AuthorizedHandler(env, GetAlertGroupHandler))
	router.POST("/api/alert-groups/:id/refresh", AuthorizedHandler(env, RefreshAlertGroupHandler))
	router.POST("/api/alert-groups/:id/actions/:action", AuthorizedHandler(env, AlertGroupActionHandler))
	router.GET("/api/stats/alert-groups", AuthorizedHandler(env, AlertGroupStatsHandler))

	router.GET("/api/labels/keys", AuthorizedHandler(env, LabelKeysHandler))
	router.GET("/api/labels/keys/:key/values", AuthorizedHandler(env, LabelValuesHandler))

	router.GET("/api/columns", AuthorizedHandler(env, GetColumnsHandler))
	router.PUT("/api/columns", AuthorizedHandler(env, ReorderColumnsHandler))
	router.POST("/api/columns", AuthorizedHandler(env, UpdateColumnsHandler))
	router.POST("/api/columns/reset", AuthorizedHandler(env, ResetColumnsHandler))
}

// AuthorizedHandler runs handler once the request passed the authorization check
func AuthorizedHandler(env *Env, handler func(*gin.Context, *Env)) func(*gin.Context) {
	return func(ctx *gin.Context) {
		if err := CheckAuthorization(ctx, env.Config); err != nil {
			log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("Authorization failed")
			return
		}
		handler(ctx, env)
	}
}
