package types

import (
	"errors"
	"strings"
)

// Config holds the conversion and batch settings shared by the CLI and the
// library facade.
type Config struct {
	OutputDir       string   `json:"output_dir" yaml:"output_dir"`
	DefaultFilename string   `json:"default_filename" yaml:"default_filename"`
	CommentLines    []string `json:"comment_lines" yaml:"comment_lines"`
	ContinueOnError bool     `json:"continue_on_error" yaml:"continue_on_error"`
	MaxInputSize    uint64   `json:"max_input_size" yaml:"max_input_size"`
	LogLevel        string   `json:"log_level" yaml:"log_level"`
	LogFormat       string   `json:"log_format" yaml:"log_format"`
}

// Defaults.
const (
	DefaultFilename     = "merged.csv"
	DefaultMaxInputSize = 100 << 20
	DefaultLogLevel     = "info"
	LogFormatConsole    = "console"
	LogFormatJSON       = "json"
)

// Config validation errors.
var (
	ErrDefaultFilenameEmpty = errors.New("default filename must not be empty")
	ErrDefaultFilenamePath  = errors.New("default filename must not contain a path separator")
	ErrMaxInputSizeInvalid  = errors.New("max input size must be positive")
	ErrLogFormatUnknown     = errors.New("unknown log format")
)

// knownLogFormats lists the formats that Validate accepts.
var knownLogFormats = map[string]bool{
	"":               true,
	LogFormatConsole: true,
	LogFormatJSON:    true,
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	return Config{
		DefaultFilename: DefaultFilename,
		MaxInputSize:    DefaultMaxInputSize,
		LogLevel:        DefaultLogLevel,
		LogFormat:       LogFormatConsole,
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.DefaultFilename == "" {
		return ErrDefaultFilenameEmpty
	}
	if strings.ContainsAny(c.DefaultFilename, `/\`) {
		return ErrDefaultFilenamePath
	}
	if c.MaxInputSize == 0 {
		return ErrMaxInputSizeInvalid
	}
	if !knownLogFormats[c.LogFormat] {
		return ErrLogFormatUnknown
	}
	return nil
}
