// Package djirun converts DJI camera telemetry exports into CSV.
//
// Example:
//
//	data, _ := os.ReadFile("A001.db")
//	art, err := djirun.Convert(ctx, data, types.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	os.WriteFile(art.Filename, art.Content, 0o644)
package djirun

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/djirun/internal/converter"
	"github.com/mesh-intelligence/djirun/pkg/types"
)

// Version is the release version of djirun.
const Version = "0.3.0"

// Convert converts one export held in memory using cfg's filename and
// comment settings.
func Convert(ctx context.Context, data []byte, cfg types.Config) (*types.OutputArtifact, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	conv := converter.New(
		converter.WithCommentLines(cfg.CommentLines),
		converter.WithDefaultFilename(cfg.DefaultFilename),
	)
	return conv.Convert(ctx, data)
}
