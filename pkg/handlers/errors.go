package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/iLert/ilert-feed-sync/pkg/api"
)

// respondUpstreamError answers a failed api call, 404 stays 404, everything else is a bad gateway
func respondUpstreamError(ctx *gin.Context, message string, err error) {
	log.Error().Err(err).Str("path", ctx.FullPath()).Msg(message)

	status := http.StatusBadGateway
	if api.IsNotFound(err) {
		status = http.StatusNotFound
	}
	ctx.PureJSON(status, gin.H{"message": message, "error": err.Error()})
}

func hasBody(ctx *gin.Context) bool {
	return ctx.Request.Body != nil && ctx.Request.Body != http.NoBody && ctx.Request.ContentLength != 0
}
