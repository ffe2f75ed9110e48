package utils

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

// WaitForShutdown blocks until a kill signal arrives, then runs the cleanup funcs and shuts the server down
func WaitForShutdown(srv *http.Server, cleanups ...func()) {
	interruptChan := make(chan os.Signal, 1)
	signal.Notify(interruptChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive our signal.
	<-interruptChan

	for _, cleanup := range cleanups {
		cleanup()
	}

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	_ = srv.Shutdown(ctx)

	log.Warn().Msg("Shutting down")
}

// GetEnv gets env or default
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// String returns a pointer to the string value passed in.
func String(v string) *string {
	return &v
}

// StringValue returns the value of a string pointer or an empty string
func StringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
