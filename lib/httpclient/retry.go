package httpclient

import (
	"context"
	"math"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("lib/httpclient")

var retryCounter, _ = meter.Int64Counter(
	"http_client.retries",
	metric.WithDescription("Number of attempts that were followed by a retry."),
)

type retryPolicyKeyType int

var retryPolicyKey retryPolicyKeyType

func withRetryPolicy(ctx context.Context, retry *bool) context.Context {
	if retry == nil {
		return ctx
	}
	return context.WithValue(ctx, retryPolicyKey, *retry)
}

// backoffDuration is the wait before the retry that follows attempt
// `attempt` (1-based): factor * 2^(attempt-1) seconds, capped at max.
func backoffDuration(factor float64, attempt int, max time.Duration) time.Duration {
	if factor <= 0 || attempt < 1 {
		return 0
	}
	seconds := factor * math.Exp2(float64(attempt-1))
	if seconds >= max.Seconds() {
		return max
	}
	return time.Duration(seconds * float64(time.Second))
}

func (c *Client) retryAllowed(req *resty.Request) bool {
	if retry, ok := req.Context().Value(retryPolicyKey).(bool); ok {
		return retry
	}
	return c.retryMethods[req.Method]
}

// shouldRetry replaces resty's default condition. `err` is only non-nil for
// failures below HTTP: a response was never received.
func (c *Client) shouldRetry(res *resty.Response, err error) bool {
	if res == nil || res.Request == nil {
		// failed before sending, retrying would fail the same way
		return false
	}
	if !c.retryAllowed(res.Request) {
		return false
	}
	if err != nil {
		return res.Request.Context().Err() == nil
	}
	return c.retryStatusCodes[res.StatusCode()]
}

func (c *Client) retryAfter(_ *resty.Client, res *resty.Response) (time.Duration, error) {
	return backoffDuration(c.backoffFactor, res.Request.Attempt, c.maxBackoff), nil
}

func (c *Client) onRetry(res *resty.Response, err error) {
	if res == nil || res.Request == nil {
		return
	}
	// the hook also runs after the last attempt, where nothing follows
	if res.Request.Attempt > c.maxRetries {
		return
	}
	req := res.Request
	retryCounter.Add(req.Context(), 1, metric.WithAttributes(
		attribute.String("http.method", req.Method),
	))

	wait := backoffDuration(c.backoffFactor, req.Attempt, c.maxBackoff)
	if err != nil {
		c.tel.ReportWarning(report_retry, req.Method, req.URL, req.Attempt, wait.String(), err)
		return
	}
	c.tel.ReportWarning(report_retry, req.Method, req.URL, req.Attempt, wait.String(), res.Status())
}
