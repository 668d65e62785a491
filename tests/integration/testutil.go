// Package integration drives the djirun binary end to end.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var (
	// djirunBin is the path to the built djirun binary.
	djirunBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// TestEnv provides an isolated config directory, output directory and
// working directory for one test.
type TestEnv struct {
	t       *testing.T
	TempDir string
	Config  string
	OutDir  string
	WorkDir string
	Env     []string
}

// NewTestEnv creates a new isolated test environment. config is written to
// config.yaml when non-empty.
func NewTestEnv(t *testing.T, config string) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build djirun: %v", buildErr)
	}
	if djirunBin == "" {
		t.Fatal("djirun binary not built (djirunBin is empty)")
	}

	tempDir := t.TempDir()
	env := &TestEnv{
		t:       t,
		TempDir: tempDir,
		Config:  filepath.Join(tempDir, "config"),
		OutDir:  filepath.Join(tempDir, "out"),
		WorkDir: filepath.Join(tempDir, "work"),
	}
	for _, dir := range []string{env.Config, env.WorkDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	if config != "" {
		if err := os.WriteFile(filepath.Join(env.Config, "config.yaml"), []byte(config), 0o644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
	}
	return env
}

// CmdResult holds the result of a djirun command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes djirun with --config-dir set and the environment cleaned
// of DJIRUN_* variables, plus e.Env.
func (e *TestEnv) Run(args ...string) CmdResult {
	e.t.Helper()

	cmd := exec.Command(djirunBin, append([]string{"--config-dir", e.Config}, args...)...)
	cmd.Dir = e.WorkDir
	cmd.Env = append(cleanEnv(), e.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run djirun: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRun executes djirun and fails the test if it returns non-zero.
func (e *TestEnv) MustRun(args ...string) CmdResult {
	e.t.Helper()
	result := e.Run(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("djirun %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// cleanEnv returns os.Environ() with all DJIRUN_* variables removed.
func cleanEnv() []string {
	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "DJIRUN_") {
			continue
		}
		env = append(env, e)
	}
	return env
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}
