package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configure le logger du process : console lisible en développement, JSON sinon.
func Setup(environment, app string) zerolog.Logger {
	var w io.Writer = os.Stdout
	level := zerolog.InfoLevel
	if environment == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}
		level = zerolog.DebugLevel
	}
	return SetupWithWriter(w, level, app)
}

func SetupWithWriter(w io.Writer, level zerolog.Level, app string) zerolog.Logger {
	logger := zerolog.New(w).Level(level).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
