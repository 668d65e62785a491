// Package logging builds the zerolog logger used by the djirun CLI.
//
//	log, err := logging.New(logging.Config{Level: "debug", Format: "console"})
//	log.Info().Str("input", name).Msg("converted")
//
// Libraries take a zerolog.Logger by injection and default to zerolog.Nop;
// only the CLI constructs one from configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/djirun/pkg/types"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error, disabled.
	// Default: info
	Level string

	// Format is console or json.
	// Default: console
	Format string

	// Output is the destination. Default: os.Stderr
	Output io.Writer

	// NoColor disables ANSI colors in console output.
	NoColor bool
}

// New returns a logger for cfg. Unknown levels and formats are errors.
func New(cfg Config) (zerolog.Logger, error) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	var out io.Writer
	switch strings.ToLower(cfg.Format) {
	case "", types.LogFormatConsole:
		out = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: "15:04:05",
			NoColor:    cfg.NoColor,
		}
	case types.LogFormatJSON:
		out = cfg.Output
	default:
		return zerolog.Nop(), fmt.Errorf("%w: %q", types.ErrLogFormatUnknown, cfg.Format)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func parseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(s) {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
