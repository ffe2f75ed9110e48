package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iLert/ilert-feed-sync/pkg/config"
)

// CheckAuthorization compares the bearer token with the configured key.
// Without a configured key every request passes.
func CheckAuthorization(ctx *gin.Context, cfg *config.Config) error {
	if cfg.Settings.HttpAuthorizationKey == "" {
		return nil
	}

	authorizationHeader := ctx.Request.Header.Get("Authorization")
	if authorizationHeader == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return errors.New("unauthorized")
	}

	if authorizationHeader != "Bearer "+cfg.Settings.HttpAuthorizationKey {
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
		return errors.New("incorrect authorization")
	}

	return nil
}
