package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	v1 "github.com/iLert/ilert-feed-sync/pkg/apis/alertgroup/v1"
)

// GetColumnsHandler returns the column settings
func GetColumnsHandler(ctx *gin.Context, env *Env) {
	settings, err := env.Columns.GetColumnSettings(ctx.Request.Context())
	if err != nil {
		respondUpstreamError(ctx, "Failed to get column settings", err)
		return
	}
	ctx.PureJSON(http.StatusOK, settings)
}

// ReorderColumnsHandler stores a user initiated column order
func ReorderColumnsHandler(ctx *gin.Context, env *Env) {
	writeColumns(ctx, env.Columns.ReorderColumns)
}

// UpdateColumnsHandler stores a system initiated column update
func UpdateColumnsHandler(ctx *gin.Context, env *Env) {
	writeColumns(ctx, env.Columns.UpdateColumns)
}

// ResetColumnsHandler restores the default columns
func ResetColumnsHandler(ctx *gin.Context, env *Env) {
	settings, err := env.Columns.ResetColumns(ctx.Request.Context())
	if err != nil {
		respondUpstreamError(ctx, "Failed to reset column settings", err)
		return
	}
	ctx.PureJSON(http.StatusOK, settings)
}

func writeColumns(ctx *gin.Context, write func(context.Context, *v1.ColumnSettings) (*v1.ColumnSettings, error)) {
	settings := &v1.ColumnSettings{}
	if err := ctx.ShouldBindJSON(settings); err != nil {
		log.Warn().Err(err).Msg("Failed to bind JSON")
		ctx.PureJSON(http.StatusBadRequest, gin.H{"message": "Failed to parse request body", "error": err.Error()})
		return
	}

	out, err := write(ctx.Request.Context(), settings)
	if err != nil {
		respondUpstreamError(ctx, "Failed to store column settings", err)
		return
	}
	ctx.PureJSON(http.StatusOK, out)
}
