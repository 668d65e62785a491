package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/djirun/pkg/djirun"
)

const modulePath = "github.com/mesh-intelligence/djirun"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the djirun version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "djirun v%s\nmodule: %s\n", djirun.Version, modulePath)
			return nil
		},
	}
}
