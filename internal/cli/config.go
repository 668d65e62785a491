package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/djirun/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "DJIRUN"

	cfgKeyOutputDir       = "output_dir"
	cfgKeyDefaultFilename = "default_filename"
	cfgKeyCommentLines    = "comment_lines"
	cfgKeyContinueOnError = "continue_on_error"
	cfgKeyMaxInputSize    = "max_input_size"
	cfgKeyLogLevel        = "log_level"
	cfgKeyLogFormat       = "log_format"
)

// loadConfig reads config.yaml from configDir using Viper, with DJIRUN_*
// environment overrides. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	def := types.DefaultConfig()

	v := viper.New()
	v.SetDefault(cfgKeyOutputDir, "")
	v.SetDefault(cfgKeyDefaultFilename, def.DefaultFilename)
	v.SetDefault(cfgKeyCommentLines, []string{})
	v.SetDefault(cfgKeyContinueOnError, false)
	v.SetDefault(cfgKeyMaxInputSize, humanize.IBytes(def.MaxInputSize))
	v.SetDefault(cfgKeyLogLevel, def.LogLevel)
	v.SetDefault(cfgKeyLogFormat, def.LogFormat)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// configFromViper materializes v into a types.Config. max_input_size accepts
// sizes such as "50MiB" or "200 MB" as well as a plain byte count.
// DJIRUN_COMMENT_LINES holds one comment per line.
func configFromViper(v *viper.Viper) (types.Config, error) {
	size, err := humanize.ParseBytes(v.GetString(cfgKeyMaxInputSize))
	if err != nil {
		return types.Config{}, fmt.Errorf("config %s: %w", cfgKeyMaxInputSize, err)
	}

	comments := v.GetStringSlice(cfgKeyCommentLines)
	if raw, ok := os.LookupEnv(envKey(cfgKeyCommentLines)); ok {
		// Viper would split the variable on whitespace.
		comments = splitLines(raw)
	}

	return types.Config{
		OutputDir:       v.GetString(cfgKeyOutputDir),
		DefaultFilename: v.GetString(cfgKeyDefaultFilename),
		CommentLines:    comments,
		ContinueOnError: v.GetBool(cfgKeyContinueOnError),
		MaxInputSize:    size,
		LogLevel:        v.GetString(cfgKeyLogLevel),
		LogFormat:       v.GetString(cfgKeyLogFormat),
	}, nil
}

// envKey returns the environment variable that overrides key.
func envKey(key string) string {
	return envPrefix + "_" + strings.ToUpper(key)
}

// splitLines splits s on newlines, dropping empty lines.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
