package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is usable before Init so library code can log during tests.
var Log = zerolog.New(os.Stderr).With().Timestamp().Logger()

func Init(isDev bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	if isDev {
		Log = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		}).With().Timestamp().Logger()
	} else {
		Log = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

// IsDev reports whether the ENV variable asks for development logging.
func IsDev() bool {
	env := os.Getenv("ENV")
	return env == "dev" || env == "development"
}
