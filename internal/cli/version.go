package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCmd prints build information. The --version flag is taken by the
// release version, so build info lives here.
func newVersionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print liftoff build information",
		Args:  cobra.NoArgs,
		// Printing the version needs no config or credentials.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "liftoff "+formatVersion(info))
		},
	}
}
