package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"kbc-extractor/cmd/extractor/commands"
	"kbc-extractor/lib/osutil"
	"kbc-extractor/lib/telemetry"
)

func main() {
	telemetry.InitSlog(false)

	ctx, cancel := osutil.SignalContext(context.Background())
	tel, err := telemetry.SetupFromEnv(ctx, "kbc-extractor")
	if err != nil {
		slog.Warn("failed to setup telemetry, continuing without export", "err", err)
	}
	if tel.Enabled() {
		telemetry.InstrumentPerfStats(ctx, 5*time.Second)
	}

	code := commands.ExecuteContext(ctx)

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = tel.Shutdown(shutdownCtx)
	shutdownCancel()
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err)
	}
	os.Exit(code)
}
