package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kbc-extractor/lib/restyutil"
	"kbc-extractor/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

const (
	report_retry   = "client.retry"
	report_request = "client.request"
)

// Client issues requests against a single REST service. It retries
// transient failures, attaches the default headers, params and credentials
// to every call and classifies failures into *RequestError and
// *TransportError.
//
// A Client is immutable once created and safe for concurrent use.
type Client struct {
	BaseUrl *url.URL

	http             *resty.Client
	tel              telemetry.API
	headers          map[string]string
	params           map[string]string
	retryStatusCodes map[int]bool
	retryMethods     map[string]bool
	maxRetries       int
	backoffFactor    float64
	maxBackoff       time.Duration
}

func NewClient(baseUrl string, opts ...Option) (*Client, error) {
	o := defaultClientOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if baseUrl == "" {
		return nil, &ConfigurationError{Field: "base_url", Reason: "base URL is required"}
	}
	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return nil, &ConfigurationError{Field: "base_url", Reason: err.Error()}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, &ConfigurationError{Field: "base_url", Reason: fmt.Sprintf("%q is not an absolute URL", baseUrl)}
	}
	if o.maxRetries < 0 {
		return nil, &ConfigurationError{Field: "max_retries", Reason: "must not be negative"}
	}
	if o.backoffFactor < 0 {
		return nil, &ConfigurationError{Field: "backoff_factor", Reason: "must not be negative"}
	}
	if o.timeout < 0 {
		return nil, &ConfigurationError{Field: "timeout", Reason: "must not be negative"}
	}
	if o.maxBackoff < 0 {
		return nil, &ConfigurationError{Field: "max_backoff", Reason: "must not be negative"}
	}
	if o.tel == nil {
		o.tel = telemetry.SlogAPI{}
	}

	c := &Client{
		BaseUrl:          parsed,
		tel:              telemetry.NewScopedAPI("httpclient", o.tel),
		headers:          mergeHeaders(nil, o.headers),
		params:           mergeParams(nil, o.params),
		retryStatusCodes: make(map[int]bool, len(o.retryStatusCodes)),
		retryMethods:     make(map[string]bool, len(o.retryMethods)),
		maxRetries:       o.maxRetries,
		backoffFactor:    o.backoffFactor,
		maxBackoff:       o.maxBackoff,
	}
	for _, code := range o.retryStatusCodes {
		c.retryStatusCodes[code] = true
	}
	for _, method := range o.retryMethods {
		c.retryMethods[strings.ToUpper(method)] = true
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(baseUrl, "/"))
	client.SetLogger(telemetry.RestyLogger{Namespace: o.tracerName})
	client.SetTimeout(o.timeout)
	if o.transport != nil {
		client.SetTransport(o.transport)
	}
	if o.auth != nil {
		if o.auth.token != "" {
			client.SetAuthToken(o.auth.token)
		} else {
			client.SetBasicAuth(o.auth.username, o.auth.password)
		}
	}

	client.SetRetryCount(o.maxRetries)
	// the wait is entirely decided by retryAfter, a zero result means no wait
	client.SetRetryWaitTime(0)
	client.SetRetryMaxWaitTime(o.maxBackoff)
	client.SetRetryAfter(c.retryAfter)
	client.AddRetryCondition(c.shouldRetry)
	client.AddRetryHook(c.onRetry)

	telemetry.InstrumentResty(client, o.tracerName, c.tel)
	restyutil.DumpMessages(client, o.output)

	c.http = client
	return c, nil
}

// Do issues a request with the given method. `target` is resolved against
// the base URL unless it is absolute.
//
// On a final non-2xx status it returns a *RequestError, when no response
// could be obtained it returns a *TransportError.
func (c *Client) Do(ctx context.Context, method, target string, opts ...RequestOption) (*resty.Response, error) {
	o := newRequestOptions(opts)

	req := c.http.R().
		SetContext(withRetryPolicy(ctx, o.retry)).
		SetHeaders(mergeHeaders(c.headers, o.headers)).
		SetQueryParams(mergeParams(c.params, o.params))
	if o.body != nil {
		req.SetBody(o.body)
	}

	res, err := req.Execute(method, target)
	if err != nil {
		return nil, &TransportError{
			Method:   method,
			Url:      req.URL,
			Attempts: req.Attempt,
			Err:      err,
		}
	}
	if !res.IsSuccess() {
		return nil, &RequestError{
			Method:     method,
			Url:        req.URL,
			StatusCode: res.StatusCode(),
			Header:     res.Header(),
			Body:       res.String(),
			Attempts:   req.Attempt,
		}
	}

	c.tel.ReportDebug(report_request, method, req.URL, res.Status(), req.Attempt)
	return res, nil
}

// GetRaw issues a GET merging `params` over the default params and returns
// the response as is.
func (c *Client) GetRaw(ctx context.Context, target string, params map[string]string, opts ...RequestOption) (*resty.Response, error) {
	return c.Do(ctx, http.MethodGet, target, append([]RequestOption{WithParams(params)}, opts...)...)
}

// Get issues a GET and returns the JSON decoded body.
func (c *Client) Get(ctx context.Context, target string, params map[string]string, opts ...RequestOption) (any, error) {
	res, err := c.GetRaw(ctx, target, params, opts...)
	if err != nil {
		return nil, err
	}
	return decodeJson(res)
}

// Post issues a POST with `body` (marshalled as JSON when it is a map,
// slice or struct) and returns the JSON decoded response body. Failures are
// also reported as warnings.
func (c *Client) Post(ctx context.Context, target string, params map[string]string, body any, opts ...RequestOption) (any, error) {
	res, err := c.Do(ctx, http.MethodPost, target, append([]RequestOption{WithParams(params), WithBody(body)}, opts...)...)
	if err != nil {
		c.tel.ReportWarning(report_request, http.MethodPost, target, err)
		return nil, err
	}
	return decodeJson(res)
}

// Patch issues a PATCH and returns the raw response so the caller can
// inspect status and headers. Failures are also reported as warnings.
func (c *Client) Patch(ctx context.Context, target string, body any, opts ...RequestOption) (*resty.Response, error) {
	res, err := c.Do(ctx, http.MethodPatch, target, append([]RequestOption{WithBody(body)}, opts...)...)
	if err != nil {
		c.tel.ReportWarning(report_request, http.MethodPatch, target, err)
		return nil, err
	}
	return res, nil
}

// decodeJson returns nil for an empty body (ex. 204 No Content).
func decodeJson(res *resty.Response) (any, error) {
	body := res.Body()
	if res.StatusCode() == http.StatusNoContent || len(body) == 0 {
		return nil, nil
	}
	var out any
	err := json.Unmarshal(body, &out)
	if err != nil {
		return nil, fmt.Errorf("decode response body of %s %s: %w", res.Request.Method, res.Request.URL, err)
	}
	return out, nil
}
