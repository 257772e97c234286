package logger

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"workforce/services/chat-state/internal/config"
)

var (
	mu           sync.Mutex
	globalLogger *zerolog.Logger
)

// New constructs the service logger from configuration. Unknown levels fall
// back to info, unknown formats to console; a broken LOG_LEVEL should never
// keep the service from starting.
func New(cfg *config.Config) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var log zerolog.Logger
	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		log = zerolog.New(os.Stdout).With().Timestamp().Logger()
	default:
		log = consoleLogger()
	}

	zerolog.SetGlobalLevel(lvl)
	log = log.Level(lvl).With().Str("service", cfg.ServiceName).Logger()

	mu.Lock()
	globalLogger = &log
	mu.Unlock()
	return log
}

// GetLogger returns the global logger, initializing a console logger at info
// level if New has not run yet (tests, early init paths).
func GetLogger() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		log := consoleLogger().Level(zerolog.InfoLevel)
		globalLogger = &log
	}
	return *globalLogger
}

func consoleLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}
