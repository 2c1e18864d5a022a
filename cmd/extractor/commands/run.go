package commands

import (
	"kbc-extractor/internal/extractor"
	"kbc-extractor/lib/component"
	"kbc-extractor/lib/httpclient"
	"kbc-extractor/lib/restyutil"
	"kbc-extractor/lib/telemetry"

	"github.com/spf13/cobra"
)

type dataFlags struct {
	dataDir string
	dumpDir string
}

var flags dataFlags

func addDataFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flags.dataDir, "data-dir", "", "The data folder, defaults to $KBC_DATADIR or /data.")
	cmd.Flags().StringVar(&flags.dumpDir, "dump-http", "", "If set, every http request and response of the api source is written to this directory.")
}

func init() {
	addDataFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [--data-dir <path/to/data>] [--dump-http <path/to/dir>]",
	Short: "Runs the action named in config.json (default: run).",
	RunE:  runExtractor,
}

func runExtractor(cmd *cobra.Command, args []string) error {
	ci, err := component.New(component.ResolveDataDir(flags.dataDir))
	if err != nil {
		return err
	}
	if ci.Config.Debug() {
		telemetry.InitSlog(true)
	}

	runner := extractor.Runner{
		Out: cmd.OutOrStdout(),
	}
	if flags.dumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(flags.dumpDir)
		if err != nil {
			return err
		}
		runner.ClientOptions = append(runner.ClientOptions, httpclient.WithInstrumentOutput(output))
	}

	return ci.Execute(cmd.Context(), runner.Actions())
}
