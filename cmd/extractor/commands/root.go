package commands

import (
	"context"
	"log/slog"

	"kbc-extractor/lib/component"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "extractor",
	Short:         "extractor reads rows from an input table or a REST api and writes them numbered to the output table.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runExtractor,
}

func init() {
	addDataFlags(rootCmd)
}

// ExecuteContext runs the CLI and returns the process exit code, 1 for
// user errors and 2 for anything else.
func ExecuteContext(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	code := component.ExitCode(err)
	if code == component.ExitUserError {
		slog.Error(err.Error())
	} else {
		slog.Error("extractor failed", "err", err)
	}
	return code
}
