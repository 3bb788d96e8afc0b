package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/plughttp/codec"
	"github.com/kbukum/plughttp/version"
)

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  usageArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if asJSON {
				b, err := codec.JSON().Marshal(info)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, info.String())
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
