package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LabelKeysHandler lists label keys
func LabelKeysHandler(ctx *gin.Context, env *Env) {
	keys, err := env.Labels.Keys(ctx.Request.Context())
	if err != nil {
		respondUpstreamError(ctx, "Failed to get label keys", err)
		return
	}
	ctx.PureJSON(http.StatusOK, keys)
}

// LabelValuesHandler lists the values of a label key, filtered by ?search=
func LabelValuesHandler(ctx *gin.Context, env *Env) {
	option, err := env.Labels.Values(ctx.Request.Context(), ctx.Param("key"), ctx.Query("search"))
	if err != nil {
		respondUpstreamError(ctx, "Failed to get label values", err)
		return
	}
	ctx.PureJSON(http.StatusOK, option)
}
