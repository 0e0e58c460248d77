package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dzjyyds666/asttab/host"
)

var (
	version = "dev"
	commit  = "none"
)

func newVersionCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of asttab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "asttab %s (%s)\n", version, commit)

			py, ok := s.host.(*host.Python)
			if !ok {
				return nil
			}
			v, err := py.Version(cmd.Context())
			if err != nil {
				fmt.Fprintf(out, "  python: unavailable (%v)\n", err)
				return nil
			}
			fmt.Fprintf(out, "  python: %s\n", v)
			return nil
		},
	}
}
