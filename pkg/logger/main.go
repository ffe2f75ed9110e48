package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	shared "github.com/iLert/ilert-feed-sync"
	"github.com/iLert/ilert-feed-sync/pkg/config"
)

// Init initializes logs
func Init(setting config.ConfigSettingsLog) {
	if !setting.JSON {
		log.Logger = log.With().Caller().Logger().Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			NoColor:    true,
			PartsOrder: []string{"time", "message", "caller", "level"},
			FormatLevel: func(i interface{}) string {
				return strings.ToLower(fmt.Sprintf("level=%s", i))
			},
		})
	}
	zerolog.SetGlobalLevel(parseLevel(setting.Level))

	log.Logger = log.With().Str("version", shared.Version).Str("app", shared.App).Logger()
	log.Debug().Msg("Logger initialized")
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.DebugLevel
	}
}
