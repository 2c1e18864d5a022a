package extractor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"kbc-extractor/internal/chrono"
	"kbc-extractor/lib/component"
	"kbc-extractor/lib/httpclient"
	"kbc-extractor/lib/telemetry"
)

const (
	OutputTable   = "output.csv"
	stateLastRun  = "last_update"
	report_source = "extractor.source"
	report_rows   = "extractor.rows"
)

// Runner reads rows from the configured source, numbers them and writes
// them to the output table.
type Runner struct {
	// where print_rows renders to, defaults to stdout.
	Out io.Writer
	// defaults to the system clock.
	Clock chrono.TimeAPI
	// extra options for the api client.
	ClientOptions []httpclient.Option
	Tel           telemetry.API
}

func (r Runner) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

func (r Runner) now() time.Time {
	if r.Clock == nil {
		return chrono.StandardTime{}.Now()
	}
	return r.Clock.Now()
}

func (r Runner) tel() telemetry.API {
	if r.Tel == nil {
		return telemetry.NewScopedAPI("extractor", telemetry.SlogAPI{})
	}
	return r.Tel
}

func (r Runner) Actions() component.Actions {
	return component.Actions{
		component.DefaultAction: r.Run,
	}
}

func (r Runner) readSource(ctx context.Context, ci *component.Interface, params Parameters) (Table, error) {
	if params.useApi() {
		r.tel().ReportDebug("reading rows from api", params.Api.BaseUrl, params.Api.Endpoint)
		return fetchApiTable(ctx, params, r.ClientOptions...)
	}

	tables, err := ci.InputTables()
	if err != nil {
		return Table{}, err
	}
	if len(tables) == 0 {
		return Table{}, component.NewUserError("no input table found in %s and no api configured", ci.TablesInPath())
	}
	if len(tables) > 1 {
		r.tel().ReportWarning(report_source, "more than one input table, using the first", tables[0].Name)
	}
	r.tel().ReportDebug("reading rows from input table", tables[0].FullPath)
	return readCsvTable(tables[0].FullPath)
}

// Run is the default action.
func (r Runner) Run(ctx context.Context, ci *component.Interface) error {
	params, err := readParameters(ci)
	if err != nil {
		return err
	}

	state, err := ci.GetStateFile()
	if err != nil {
		return err
	}
	if last, ok := state[stateLastRun]; ok {
		slog.Info("previous run", stateLastRun, last)
	} else {
		slog.Info("no previous run found")
	}

	source, err := r.readSource(ctx, ci, params)
	if err != nil {
		return err
	}
	data := source.WithRowNumbers()
	r.tel().ReportCount(report_rows, int64(len(data.Rows)))

	if params.PrintRows {
		printRows(r.out(), data)
	}

	out, err := ci.CreateOutTableDefinition(OutputTable, params.incremental(), []string{rowNumberColumn})
	if err != nil {
		return err
	}
	err = writeCsvTable(out.FullPath, data)
	if err != nil {
		return fmt.Errorf("write %s: %w", out.FullPath, err)
	}
	err = ci.WriteManifest(out)
	if err != nil {
		return fmt.Errorf("write manifest of %s: %w", out.Name, err)
	}

	state[stateLastRun] = r.now().Format(time.RFC3339)
	return ci.WriteStateFile(state)
}
