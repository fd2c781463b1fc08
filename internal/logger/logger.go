package logger

import (
    "os"
    "time"

    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"

    "github.com/Ebrudra/studio-sub000/internal/config"
)

// New builds the process logger: human-readable console output in dev, JSON
// everywhere else, tagged with the service name so sprint and report events
// are filterable alongside other services' logs.
func New(cfg config.Config) zerolog.Logger {
    zerolog.TimeFieldFormat = time.RFC3339
    var logger zerolog.Logger
    if cfg.AppEnv == "dev" {
        logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
    } else {
        logger = zerolog.New(os.Stdout)
    }
    logger = logger.With().Timestamp().Str("service", "sprintboard").Logger()
    log.Logger = logger
    return logger
}
