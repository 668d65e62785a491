package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/djirun/internal/paths"
	"github.com/mesh-intelligence/djirun/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	OutputDir       string   `yaml:"output_dir,omitempty"`
	DefaultFilename string   `yaml:"default_filename"`
	CommentLines    []string `yaml:"comment_lines"`
	ContinueOnError bool     `yaml:"continue_on_error"`
	MaxInputSize    string   `yaml:"max_input_size"`
	LogLevel        string   `yaml:"log_level"`
	LogFormat       string   `yaml:"log_format"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml",
		Long:  "Create the configuration directory and write config.yaml with default\nvalues. An existing config.yaml is left untouched.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, a)
		},
	}
}

func runInit(cmd *cobra.Command, a *app) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}

	configPath := filepath.Join(configDir, configFileExt)
	created, err := writeConfigIfMissing(configPath)
	if err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}

	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s\n", configPath)
	}
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. It reports whether the file was written.
func writeConfigIfMissing(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	def := types.DefaultConfig()
	cfg := configFile{
		DefaultFilename: def.DefaultFilename,
		CommentLines:    []string{},
		ContinueOnError: def.ContinueOnError,
		MaxInputSize:    humanize.IBytes(def.MaxInputSize),
		LogLevel:        def.LogLevel,
		LogFormat:       def.LogFormat,
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	header := []byte("# djirun configuration\n# Environment variables DJIRUN_<KEY> override these values.\n")
	return true, os.WriteFile(path, append(header, data...), 0o644)
}
