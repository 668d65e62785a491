package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/djirun/internal/batch"
	"github.com/mesh-intelligence/djirun/internal/converter"
	"github.com/mesh-intelligence/djirun/internal/paths"
)

type convertFlags struct {
	outDir          string
	stdout          bool
	continueOnError bool
	comments        []string
}

func newConvertCmd(a *app) *cobra.Command {
	var f convertFlags

	cmd := &cobra.Command{
		Use:   "convert FILE.db...",
		Short: "Convert telemetry exports to CSV",
		Long: "Convert each export to one CSV file named after the clip directory.\n" +
			"Files are processed in the order given. By default the first failure\n" +
			"stops the batch; --continue-on-error records it and moves on.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, a, &f, args)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.outDir, "out-dir", "o", "", "output directory (default: current directory)")
	fl.BoolVar(&f.stdout, "stdout", false, "write the CSV to standard output (single input only)")
	fl.BoolVar(&f.continueOnError, "continue-on-error", false, "keep going after a file fails")
	fl.StringArrayVar(&f.comments, "comment", nil, "comment line to write before the header (repeatable)")

	return cmd
}

func runConvert(cmd *cobra.Command, a *app, f *convertFlags, args []string) error {
	if err := a.setup(cmd); err != nil {
		return err
	}
	if f.stdout && len(args) > 1 {
		return userError(errors.New("--stdout accepts a single input file"))
	}

	var sink batch.Sink
	report := cmd.OutOrStdout()
	if f.stdout {
		sink = &batch.WriterSink{W: cmd.OutOrStdout()}
		report = cmd.ErrOrStderr()
	} else {
		dir, err := paths.ResolveOutputDir(f.outDir, a.cfg.OutputDir)
		if err != nil {
			return sysError(fmt.Errorf("resolve output dir: %w", err))
		}
		sink = &batch.DirSink{Dir: dir}
	}

	policy := batch.HaltOnError
	if f.continueOnError || a.cfg.ContinueOnError {
		policy = batch.ContinueOnError
	}

	conv := converter.New(
		converter.WithLogger(a.log),
		converter.WithCommentLines(append(append([]string(nil), a.cfg.CommentLines...), f.comments...)),
		converter.WithDefaultFilename(a.cfg.DefaultFilename),
	)
	runner := batch.NewRunner(conv, sink,
		batch.WithPolicy(policy),
		batch.WithMaxInputSize(a.cfg.MaxInputSize),
		batch.WithLogger(a.log),
	)

	summary, runErr := runner.Run(cmd.Context(), args)

	if a.flags.jsonMode {
		if err := printJSON(report, summary); err != nil {
			return sysError(err)
		}
	} else {
		printSummary(report, summary)
	}

	switch {
	case runErr != nil && errors.Is(runErr, batch.ErrEmit):
		return sysError(runErr)
	case runErr != nil:
		return userError(runErr)
	case summary.Failed() > 0:
		return userError(fmt.Errorf("%d of %d files failed", summary.Failed(), len(summary.Results)))
	}
	return nil
}

// printSummary writes one line per input followed by the totals.
func printSummary(w io.Writer, s *batch.Summary) {
	for _, r := range s.Rejected {
		fmt.Fprintf(w, "rejected  %s: %s\n", r.Input, r.Error)
	}
	for _, r := range s.Results {
		if r.OK() {
			fmt.Fprintf(w, "converted %s -> %s (%s)\n", r.Input, r.Output, humanize.IBytes(r.Size))
			continue
		}
		fmt.Fprintf(w, "failed    %s: %s\n", r.Input, r.Error)
	}
	fmt.Fprintf(w, "%d converted, %d failed, %d rejected", s.Converted(), s.Failed(), len(s.Rejected))
	if s.Halted {
		fmt.Fprint(w, ", remaining files skipped")
	}
	fmt.Fprintln(w)
}
