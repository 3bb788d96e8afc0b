// Package cli implements the plughttp command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/plughttp/version"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile string
	envFile    string
	noColor    bool
	jsonErrors bool
	logLevel   string
}

// NewRootCmd builds the plughttp command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "plughttp",
		Short: "Issue HTTP requests with a configured base URL, credentials and proxy",
		Long: `plughttp sends a single HTTP request built from a base URL, optional
Basic credentials, proxy settings and key=value options, and prints the
response body.

Settings come from config.yml, a .env file and PLUGHTTP_* environment
variables; flags override all of them.`,
		Version:       version.Get().Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "path to a config.yml file")
	pf.StringVar(&opts.envFile, "env-file", "", "path to a .env file")
	pf.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	pf.BoolVar(&opts.jsonErrors, "json-errors", false, "report failures as a JSON error body")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	cmd.AddCommand(newCallCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the command tree with os.Args and returns the exit code.
func Execute(ctx context.Context) int {
	cmd := NewRootCmd()
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		pf := cmd.PersistentFlags()
		noColor, _ := pf.GetBool("no-color")
		p := newPrinter(cmd.ErrOrStderr(), noColor)
		p.jsonErrors, _ = pf.GetBool("json-errors")
		p.failure(err)
	}
	return ExitCode(err)
}

func usageArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &usageError{fmt.Errorf("%s expects %d arguments, got %d", cmd.Name(), n, len(args))}
		}
		return nil
	}
}
