package telemetry

import (
	"context"
	"sync"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// SetupForTesting installs a tracer provider that records spans in memory
// and verbose logging. The provider is shut down when the test ends.
func SetupForTesting(t testing.TB) *tracetest.InMemoryExporter {
	InitSlog(true)

	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	otel.SetTracerProvider(provider)

	t.Cleanup(func() {
		err := provider.Shutdown(context.Background())
		if err != nil {
			t.Fatal(err)
		}
	})
	return exporter
}

// Report is a single call recorded by Recorder.
type Report struct {
	Kind   string
	Id     string
	Params []any
}

// Recorder is an API that keeps every report so tests can assert on them.
// It also forwards to SlogAPI so test output still shows the logs.
type Recorder struct {
	mutex   sync.Mutex
	Reports []Report
	inner   SlogAPI
}

func (r *Recorder) add(rep Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.Reports = append(r.Reports, rep)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.add(Report{Kind: "broken", Id: id, Params: params})
	r.inner.ReportBroken(id, params...)
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.add(Report{Kind: "warning", Id: id, Params: params})
	r.inner.ReportWarning(id, params...)
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.add(Report{Kind: "debug", Id: msg, Params: params})
	r.inner.ReportDebug(msg, params...)
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.add(Report{Kind: "count", Id: id, Params: []any{count}})
	r.inner.ReportCount(id, count)
}

// Filter returns the reports of the given kind.
func (r *Recorder) Filter(kind string) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, rep := range r.Reports {
		if rep.Kind == kind {
			out = append(out, rep)
		}
	}
	return out
}
