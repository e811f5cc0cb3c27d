package obs

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger configures the global zerolog logger.
// Development gets a console writer and debug level; everything else logs JSON at info.
func SetupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if strings.EqualFold(environment, "development") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
