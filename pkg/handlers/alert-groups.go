package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	v1 "github.com/iLert/ilert-feed-sync/pkg/apis/alertgroup/v1"
	"github.com/iLert/ilert-feed-sync/pkg/feed"
)

// FetchRequest body of a page fetch
type FetchRequest struct {
	Key     string              `json:"key"`
	Filters map[string][]string `json:"filters"`
	Cursor  *string             `json:"cursor"`
}

// GetAlertGroupsHandler returns the cached page of a key
func GetAlertGroupsHandler(ctx *gin.Context, env *Env) {
	key := ctx.DefaultQuery("key", feed.DefaultKey)
	ctx.PureJSON(http.StatusOK, env.Store.GetPage(key))
}

// FetchAlertGroupsHandler fetches a page and returns it, 204 when a newer fetch superseded it
func FetchAlertGroupsHandler(ctx *gin.Context, env *Env) {
	req := &FetchRequest{}
	if hasBody(ctx) {
		if err := ctx.ShouldBindJSON(req); err != nil {
			log.Warn().Err(err).Msg("Failed to bind JSON")
			ctx.PureJSON(http.StatusBadRequest, gin.H{"message": "Failed to parse request body", "error": err.Error()})
			return
		}
	}
	if req.Key == "" {
		req.Key = feed.DefaultKey
	}

	filters, err := v1.Filters(req.Filters).Normalize()
	if err != nil {
		ctx.PureJSON(http.StatusBadRequest, gin.H{"message": "Invalid filters", "error": err.Error()})
		return
	}

	result, err := env.Store.FetchPageFor(ctx.Request.Context(), req.Key, filters, req.Cursor)
	if err != nil {
		respondUpstreamError(ctx, "Failed to fetch alert groups", err)
		return
	}
	if result == nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	ctx.PureJSON(http.StatusOK, env.Store.GetPage(req.Key))
}

// GetAlertGroupHandler returns a cached alert group
func GetAlertGroupHandler(ctx *gin.Context, env *Env) {
	id := ctx.Param("id")
	ag, ok := env.Store.Record(id)
	if !ok {
		ctx.PureJSON(http.StatusNotFound, gin.H{"message": "Alert group not found"})
		return
	}
	ctx.PureJSON(http.StatusOK, ag)
}

// RefreshAlertGroupHandler reloads an alert group from the api
func RefreshAlertGroupHandler(ctx *gin.Context, env *Env) {
	ag, err := env.Store.Refresh(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondUpstreamError(ctx, "Failed to refresh alert group", err)
		return
	}
	ctx.PureJSON(http.StatusOK, ag)
}

// ActionRequest optional body of an alert group action
type ActionRequest struct {
	// Delay silence duration in seconds, negative or absent silences forever
	Delay            *int64 `json:"delay"`
	RootAlertGroupPK string `json:"root_alert_group_pk"`
	UserID           string `json:"user_id"`
}

// AlertGroupActionHandler runs an action, ?undo=true marks it as the undo of a previous one
func AlertGroupActionHandler(ctx *gin.Context, env *Env) {
	id := ctx.Param("id")
	action := v1.Action(ctx.Param("action"))
	if !action.Valid() {
		log.Warn().Str("action", string(action)).Msg("Unknown alert group action")
		ctx.PureJSON(http.StatusBadRequest, gin.H{"message": "Unknown action"})
		return
	}

	req := &ActionRequest{}
	if hasBody(ctx) {
		if err := ctx.ShouldBindJSON(req); err != nil {
			log.Warn().Err(err).Str("alert_group_id", id).Msg("Failed to bind JSON")
			ctx.PureJSON(http.StatusBadRequest, gin.H{"message": "Failed to parse request body", "error": err.Error()})
			return
		}
	}

	isUndo := ctx.Query("undo") == "true"
	reqCtx := ctx.Request.Context()

	var ag *v1.AlertGroup
	var err error
	switch {
	case isUndo:
		ag, err = env.Store.ApplyAction(reqCtx, id, action, true)
	case action == v1.ActionSilence:
		delay := time.Duration(-1)
		if req.Delay != nil && *req.Delay >= 0 {
			delay = time.Duration(*req.Delay) * time.Second
		}
		ag, err = env.Store.Silence(reqCtx, id, delay)
	case action == v1.ActionAttach:
		if req.RootAlertGroupPK == "" {
			ctx.PureJSON(http.StatusBadRequest, gin.H{"message": "root_alert_group_pk is required"})
			return
		}
		ag, err = env.Store.Attach(reqCtx, id, req.RootAlertGroupPK)
	case action == v1.ActionUnpage:
		if req.UserID == "" {
			ctx.PureJSON(http.StatusBadRequest, gin.H{"message": "user_id is required"})
			return
		}
		ag, err = env.Store.Unpage(reqCtx, id, req.UserID)
	default:
		ag, err = env.Store.ApplyAction(reqCtx, id, action, false)
	}
	if err != nil {
		respondUpstreamError(ctx, "Failed to "+string(action)+" alert group", err)
		return
	}
	ctx.PureJSON(http.StatusOK, ag)
}

// AlertGroupStatsHandler returns the alert group count for the query filters
func AlertGroupStatsHandler(ctx *gin.Context, env *Env) {
	filters, err := v1.Filters(ctx.Request.URL.Query()).Normalize()
	if err != nil {
		ctx.PureJSON(http.StatusBadRequest, gin.H{"message": "Invalid filters", "error": err.Error()})
		return
	}

	stats, err := env.Store.Stats(ctx.Request.Context(), filters)
	if err != nil {
		respondUpstreamError(ctx, "Failed to get alert group stats", err)
		return
	}
	ctx.PureJSON(http.StatusOK, stats)
}
