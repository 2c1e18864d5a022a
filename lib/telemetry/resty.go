package telemetry

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/semconv/v1.13.0/httpconv"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_resty_request  = "resty.request"
	report_resty_response = "resty.response"
	report_resty_attempt  = "resty.attempt"
	report_resty_error    = "resty.error"
)

type instrumentResty struct {
	tracer    trace.Tracer
	tel       API
	idcounter *uint64
}

// InstrumentResty wraps every attempt a resty client makes in a span and
// reports request/response debug lines to `tel`.
//
// Retried attempts are siblings under the caller's span, not children of
// each other.
func InstrumentResty(client *resty.Client, tracerName string, tel API) {
	var idcounter uint64
	i := instrumentResty{
		tracer:    otel.Tracer(tracerName),
		tel:       tel,
		idcounter: &idcounter,
	}

	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.AddRetryHook(i.onAttemptFailed)
	client.OnError(i.onError)
}

type reqCtxKeyType int

var reqCtxKey reqCtxKeyType

type reqCtx struct {
	id uint64
	// startTime does not need to be absolute, only differences are measured.
	startTime time.Time
	parent    context.Context
}

func (i instrumentResty) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	parent := req.Context()
	if prev, ok := parent.Value(reqCtxKey).(reqCtx); ok {
		parent = prev.parent
	}

	ctx, _ := i.tracer.Start(parent, fmt.Sprintf("http %s", req.Method))
	id := atomic.AddUint64(i.idcounter, 1)
	ctx = context.WithValue(ctx, reqCtxKey, reqCtx{
		id:        id,
		startTime: time.Now(),
		parent:    parent,
	})
	i.tel.ReportDebug(report_resty_request, id, req.Method, req.URL)

	req.SetContext(ctx)
	return nil
}

func (i instrumentResty) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	// setting request attributes here since res.Request.RawRequest is nil in onBeforeRequest
	if res.Request.RawRequest != nil {
		span.SetAttributes(httpconv.ClientRequest(res.Request.RawRequest)...)
	}
	if res.RawResponse != nil {
		span.SetAttributes(httpconv.ClientResponse(res.RawResponse)...)
	}
	if !res.IsSuccess() {
		span.SetStatus(codes.Error, res.Status())
	}

	reqCtx, ok := ctx.Value(reqCtxKey).(reqCtx)
	if !ok {
		return nil
	}
	i.tel.ReportDebug(
		report_resty_response,
		reqCtx.id,
		time.Since(reqCtx.startTime).String(),
		res.Status(),
	)
	return nil
}

// onAttemptFailed runs after every attempt the retry condition rejected,
// including the final one.
func (i instrumentResty) onAttemptFailed(res *resty.Response, err error) {
	if res == nil || res.Request == nil {
		return
	}
	req := res.Request

	if err != nil {
		// transport failures skip the after-response middleware, so the
		// attempt's span is closed here
		span := trace.SpanFromContext(req.Context())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		i.tel.ReportDebug(report_resty_attempt, req.Method, req.URL, req.Attempt, err)
		return
	}
	i.tel.ReportDebug(report_resty_attempt, req.Method, req.URL, req.Attempt, res.Status())
}

func (i instrumentResty) onError(req *resty.Request, err error) {
	span := trace.SpanFromContext(req.Context())
	defer span.End()

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if req.RawRequest != nil {
		span.SetAttributes(httpconv.ClientRequest(req.RawRequest)...)
	}

	var elapsed string
	if reqCtx, ok := req.Context().Value(reqCtxKey).(reqCtx); ok {
		elapsed = time.Since(reqCtx.startTime).String()
	}
	i.tel.ReportDebug(report_resty_error, req.Method, req.URL, elapsed, err)
}
