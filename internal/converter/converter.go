package converter

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/djirun/internal/sqlite"
	"github.com/mesh-intelligence/djirun/pkg/types"
)

// OpenFunc loads an export from raw bytes.
type OpenFunc func(ctx context.Context, data []byte) (types.QueryExecutor, error)

// OpenSQLite is the default OpenFunc.
func OpenSQLite(ctx context.Context, data []byte) (types.QueryExecutor, error) {
	return sqlite.Open(ctx, data)
}

// Converter runs the conversion pipeline. A Converter holds no per-file
// state and may be reused for any number of files.
type Converter struct {
	open            OpenFunc
	log             zerolog.Logger
	comments        []string
	defaultFilename string
}

// Option configures a Converter.
type Option func(*Converter)

// WithOpener replaces the database loader.
func WithOpener(open OpenFunc) Option {
	return func(c *Converter) { c.open = open }
}

// WithLogger sets the logger used for per-stage debug output.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Converter) { c.log = log }
}

// WithCommentLines prepends '#' comment lines before the CSV header.
func WithCommentLines(lines []string) Option {
	return func(c *Converter) { c.comments = append([]string(nil), lines...) }
}

// WithDefaultFilename sets the name used when none can be derived.
func WithDefaultFilename(name string) Option {
	return func(c *Converter) { c.defaultFilename = name }
}

// New returns a Converter backed by SQLite.
func New(opts ...Option) *Converter {
	c := &Converter{
		open:            OpenSQLite,
		log:             zerolog.Nop(),
		defaultFilename: types.DefaultFilename,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert turns one export into a CSV artifact. The context is only
// consulted before the export is loaded; once loading starts the file runs
// to completion or fails.
func (c *Converter) Convert(ctx context.Context, data []byte) (art *types.OutputArtifact, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx = context.WithoutCancel(ctx)

	db, err := c.open(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("load export: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			art, err = nil, fmt.Errorf("close export: %w", cerr)
		}
	}()

	plan, err := Probe(ctx, db)
	if err != nil {
		return nil, err
	}
	c.log.Debug().
		Str("project_frame", plan.ProjectFrame.String()).
		Bool("digital_effect", plan.HasDigitalEffect).
		Msg("schema probed")

	report, err := Validate(ctx, db)
	if err != nil {
		return nil, err
	}
	c.log.Debug().
		Int64("total", report.Total).
		Int64("valid", report.Valid).
		Int64("secondary", report.Secondary).
		Int64("matched", report.Matched).
		Msg("integrity validated")

	rs, err := db.Query(ctx, BuildQuery(plan))
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	if len(rs.Rows) == 0 {
		return nil, types.ErrEmptyResult
	}

	// A path with no parent directory ("/clip.MOV") or a NULL path names the
	// file after the default rather than producing a bare ".csv".
	filename := DeriveFilename(rs, c.defaultFilename)
	content := Serialize(c.comments, rs.Columns, Transform(rs))
	c.log.Debug().
		Int("rows", len(rs.Rows)).
		Str("filename", filename).
		Msg("merge serialized")

	return &types.OutputArtifact{
		Filename: filename,
		Content:  content,
		MimeType: types.MimeTypeCSV,
	}, nil
}

// Inspection is the diagnostic view of an export: its extraction plan and
// integrity counts.
type Inspection struct {
	Plan   types.FieldExtractionPlan
	Report types.ValidationReport
	// Err is the integrity failure, if any.
	Err error
}

// Inspect probes and validates an export without producing output.
// Integrity failures are reported in Inspection.Err; load and execution
// failures are returned.
func (c *Converter) Inspect(ctx context.Context, data []byte) (in *Inspection, err error) {
	db, err := c.open(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("load export: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			in, err = nil, fmt.Errorf("close export: %w", cerr)
		}
	}()

	plan, err := Probe(ctx, db)
	if err != nil {
		return nil, err
	}

	report, verr := Validate(ctx, db)
	var ie *types.IntegrityError
	if verr != nil && !errors.As(verr, &ie) {
		return nil, verr
	}
	return &Inspection{Plan: plan, Report: report, Err: verr}, nil
}
