// Package logging builds the zerolog.Logger shared by the node driver,
// the chain, and the p2p layer. Nothing below this package reads a
// package-level global logger; it is always passed in explicitly.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console-formatted logger writing to stderr at info level.
func New() zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}
