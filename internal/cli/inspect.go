package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/djirun/internal/batch"
	"github.com/mesh-intelligence/djirun/internal/converter"
	"github.com/mesh-intelligence/djirun/pkg/types"
)

// inspectResult is the per-file output of the inspect command.
type inspectResult struct {
	Input         string                  `json:"input"`
	ProjectFrame  string                  `json:"project_frame"`
	DigitalEffect bool                    `json:"digital_effect"`
	Extended      map[string]bool         `json:"extended"`
	Report        *types.ValidationReport `json:"report,omitempty"`
	Error         string                  `json:"error,omitempty"`
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE.db...",
		Short: "Show the schema variant and integrity counts of exports",
		Long:  "Inspect reports which optional columns each export carries and the\nrecord counts used by the integrity check. No CSV is written.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, a, args)
		},
	}
}

func runInspect(cmd *cobra.Command, a *app, args []string) error {
	if err := a.setup(cmd); err != nil {
		return err
	}

	conv := converter.New(converter.WithLogger(a.log))
	results := make([]inspectResult, 0, len(args))
	failed := 0
	for _, path := range args {
		res := inspectOne(cmd, conv, path, a.cfg.MaxInputSize)
		if res.Error != "" {
			failed++
		}
		results = append(results, res)
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		if err := printJSON(out, results); err != nil {
			return sysError(err)
		}
	} else {
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(out)
			}
			printInspection(out, r)
		}
	}

	if failed > 0 {
		return userError(fmt.Errorf("%d of %d files failed inspection", failed, len(args)))
	}
	return nil
}

func inspectOne(cmd *cobra.Command, conv *converter.Converter, path string, maxSize uint64) inspectResult {
	res := inspectResult{Input: path}
	if _, err := batch.Accept(path, maxSize); err != nil {
		res.Error = err.Error()
		return res
	}
	data, err := os.ReadFile(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	in, err := conv.Inspect(cmd.Context(), data)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.ProjectFrame = in.Plan.ProjectFrame.String()
	res.DigitalEffect = in.Plan.HasDigitalEffect
	res.Extended = make(map[string]bool, len(types.ExtendedColumns))
	for _, name := range types.ExtendedColumns {
		res.Extended[name] = in.Plan.Has(name)
	}
	res.Report = &in.Report
	if in.Err != nil {
		res.Error = in.Err.Error()
	}
	return res
}

func printInspection(w io.Writer, r inspectResult) {
	fmt.Fprintf(w, "file:           %s\n", r.Input)
	if r.Report == nil {
		fmt.Fprintf(w, "error:          %s\n", r.Error)
		return
	}

	var present []string
	for _, name := range types.ExtendedColumns {
		if r.Extended[name] {
			present = append(present, name)
		}
	}
	extended := "none"
	if len(present) > 0 {
		extended = strings.Join(present, ", ")
	}

	fmt.Fprintf(w, "project frame:  %s\n", r.ProjectFrame)
	fmt.Fprintf(w, "digital effect: %t\n", r.DigitalEffect)
	fmt.Fprintf(w, "extended:       %s\n", extended)
	fmt.Fprintf(w, "records:        total=%d valid=%d paths=%d matched=%d\n",
		r.Report.Total, r.Report.Valid, r.Report.Secondary, r.Report.Matched)
	if r.Error != "" {
		fmt.Fprintf(w, "status:         %s\n", r.Error)
		return
	}
	fmt.Fprintln(w, "status:         ok")
}
