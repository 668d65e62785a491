// Package fixture builds synthetic device telemetry exports for tests.
// Every schema variant the converter understands can be produced, and the
// secondary table can be broken on purpose to exercise integrity checks.
package fixture

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/djirun/pkg/types"
)

// Clip is one primary-table record and, by default, its path record.
type Clip struct {
	ID             int64
	Duration       int64
	FrameNum       int64
	FrameDen       int64
	ProjectNum     int64
	ProjectDen     int64
	ProjectFrame   int64
	Width          int64
	Height         int64
	ShutterInteger int64
	EI             int64
	WBCount        int64
	WBTint         int64
	ShutterAngle   int64
	ND             int64
	Aperture       int64
	Model          string
	DigitalEffect  string
	Rotation       int64
	EncodeFormat   string
	EVBias         int64
	ShutterType    string
	VencType       string
	Path           string
}

// Path is one secondary-table record.
type Path struct {
	ID         int64
	VideoIndex int64
	FileName   string
}

// Export describes a whole export file.
type Export struct {
	// ProjectFrame selects which project frame columns the primary table carries.
	ProjectFrame  types.ProjectFrameExpr
	DigitalEffect bool
	Extended      bool
	Clips         []Clip

	// Paths overrides the secondary table. When nil, one path record is
	// written per clip with VideoIndex set to the clip ID.
	Paths []Path
}

// NewClip returns a clip with typical camera values.
func NewClip(id int64, path string) Clip {
	return Clip{
		ID:             id,
		Duration:       12000 + id,
		FrameNum:       30000,
		FrameDen:       1001,
		ProjectNum:     24000,
		ProjectDen:     1001,
		ProjectFrame:   24000,
		Width:          3840,
		Height:         2160,
		ShutterInteger: 50,
		EI:             800,
		WBCount:        5600,
		WBTint:         0,
		ShutterAngle:   1800,
		ND:             0,
		Aperture:       280,
		Model:          "DJI Ronin 4D",
		DigitalEffect:  "none",
		Rotation:       0,
		EncodeFormat:   "ProRes 422 HQ",
		EVBias:         0,
		ShutterType:    "angle",
		VencType:       "prores",
		Path:           path,
	}
}

// Session returns n clips recorded into the same session directory.
func Session(dir string, n int) []Clip {
	clips := make([]Clip, n)
	for i := range clips {
		id := int64(i + 1)
		clips[i] = NewClip(id, fmt.Sprintf("/DCIM/%s/clip%03d.MOV", dir, id))
	}
	return clips
}

// Bytes writes the export to a temporary SQLite file and returns its bytes.
func (e Export) Bytes(t testing.TB) []byte {
	t.Helper()

	path := e.File(t)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// File writes the export to a temporary SQLite file and returns its path.
func (e Export) File(t testing.TB) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "export.db")
	if err := e.write(path); err != nil {
		t.Fatalf("build fixture: %v", err)
	}
	return path
}

func (e Export) write(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	cols := e.primaryColumns()
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = c.name + " " + c.decl
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", types.PrimaryTable, strings.Join(defs, ", "))
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create primary: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf(
		"CREATE TABLE %s (ID INTEGER PRIMARY KEY, video_index INTEGER, file_name TEXT)",
		types.SecondaryTable)); err != nil {
		return fmt.Errorf("create secondary: %w", err)
	}

	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
		marks[i] = "?"
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		types.PrimaryTable, strings.Join(names, ", "), strings.Join(marks, ", "))
	for _, clip := range e.Clips {
		args := make([]any, len(cols))
		for i, c := range cols {
			args[i] = c.value(clip)
		}
		if _, err := db.Exec(insert, args...); err != nil {
			return fmt.Errorf("insert clip %d: %w", clip.ID, err)
		}
	}

	paths := e.Paths
	if paths == nil {
		for i, clip := range e.Clips {
			paths = append(paths, Path{ID: int64(i + 1), VideoIndex: clip.ID, FileName: clip.Path})
		}
	}
	for _, p := range paths {
		if _, err := db.Exec(fmt.Sprintf(
			"INSERT INTO %s (ID, video_index, file_name) VALUES (?, ?, ?)", types.SecondaryTable),
			p.ID, p.VideoIndex, p.FileName); err != nil {
			return fmt.Errorf("insert path %d: %w", p.ID, err)
		}
	}
	return nil
}

type column struct {
	name  string
	decl  string
	value func(Clip) any
}

func (e Export) primaryColumns() []column {
	cols := []column{
		{"ID", "INTEGER PRIMARY KEY", func(c Clip) any { return c.ID }},
		{"duration", "INTEGER", func(c Clip) any { return c.Duration }},
		{"frame_num", "INTEGER", func(c Clip) any { return c.FrameNum }},
		{"frame_den", "INTEGER", func(c Clip) any { return c.FrameDen }},
		{"resolution_width", "INTEGER", func(c Clip) any { return c.Width }},
		{"resolution_height", "INTEGER", func(c Clip) any { return c.Height }},
		{"shutter_integer", "INTEGER", func(c Clip) any { return c.ShutterInteger }},
		{"ei_value", "INTEGER", func(c Clip) any { return c.EI }},
		{"wb_count", "INTEGER", func(c Clip) any { return c.WBCount }},
		{"wb_tint", "INTEGER", func(c Clip) any { return c.WBTint }},
		{"shutter_angle", "INTEGER", func(c Clip) any { return c.ShutterAngle }},
		{"nd_value", "INTEGER", func(c Clip) any { return c.ND }},
		{"aperture", "INTEGER", func(c Clip) any { return c.Aperture }},
		{"model_name", "TEXT", func(c Clip) any { return c.Model }},
	}

	switch e.ProjectFrame {
	case types.ProjectFrameNumDen:
		cols = append(cols,
			column{types.ColProjectFrameNum, "INTEGER", func(c Clip) any { return c.ProjectNum }},
			column{types.ColProjectFrameDen, "INTEGER", func(c Clip) any { return c.ProjectDen }},
		)
	case types.ProjectFrameSharedDen:
		cols = append(cols,
			column{types.ColProjectFrame, "INTEGER", func(c Clip) any { return c.ProjectFrame }})
	}

	if e.DigitalEffect {
		cols = append(cols,
			column{types.ColDigitalEffect, "TEXT", func(c Clip) any { return c.DigitalEffect }})
	}

	if e.Extended {
		cols = append(cols,
			column{types.ColRotation, "INTEGER", func(c Clip) any { return c.Rotation }},
			column{types.ColEncodeFormat, "TEXT", func(c Clip) any { return c.EncodeFormat }},
			column{types.ColEVBias, "INTEGER", func(c Clip) any { return c.EVBias }},
			column{types.ColShutterType, "TEXT", func(c Clip) any { return c.ShutterType }},
			column{types.ColVencType, "TEXT", func(c Clip) any { return c.VencType }},
		)
	}
	return cols
}
