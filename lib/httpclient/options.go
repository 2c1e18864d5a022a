package httpclient

import (
	"net/http"
	"time"

	"kbc-extractor/lib/restyutil"
	"kbc-extractor/lib/telemetry"
)

const (
	DefaultMaxRetries    = 10
	DefaultBackoffFactor = 0.3
	DefaultTimeout       = 60 * time.Second
	// DefaultMaxBackoff caps a single wait between attempts.
	DefaultMaxBackoff = 120 * time.Second
)

var (
	DefaultRetryStatusCodes = []int{
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusGatewayTimeout,
	}
	DefaultRetryMethods = []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPatch,
	}
)

type credential struct {
	username string
	password string
	token    string
}

type clientOptions struct {
	maxRetries       int
	backoffFactor    float64
	retryStatusCodes []int
	retryMethods     []string
	headers          map[string]string
	params           map[string]string
	auth             *credential
	timeout          time.Duration
	maxBackoff       time.Duration
	tel              telemetry.API
	tracerName       string
	output           restyutil.MessageOutput
	transport        http.RoundTripper
}

func defaultClientOptions() clientOptions {
	return clientOptions{
		maxRetries:       DefaultMaxRetries,
		backoffFactor:    DefaultBackoffFactor,
		retryStatusCodes: DefaultRetryStatusCodes,
		retryMethods:     DefaultRetryMethods,
		timeout:          DefaultTimeout,
		maxBackoff:       DefaultMaxBackoff,
		tel:              telemetry.SlogAPI{},
		tracerName:       "lib/httpclient",
	}
}

// Option configures a Client at construction.
type Option func(o *clientOptions)

// WithMaxRetries sets how many times a failed call is retried after the
// first attempt, so a call makes at most n+1 attempts.
func WithMaxRetries(n int) Option {
	return func(o *clientOptions) {
		o.maxRetries = n
	}
}

// WithBackoffFactor sets the factor of the wait before retry n, which is
// factor * 2^(n-1) seconds.
func WithBackoffFactor(factor float64) Option {
	return func(o *clientOptions) {
		o.backoffFactor = factor
	}
}

func WithRetryStatusCodes(codes ...int) Option {
	return func(o *clientOptions) {
		o.retryStatusCodes = codes
	}
}

// WithRetryMethods replaces the set of methods that are retried unless a
// call says otherwise.
func WithRetryMethods(methods ...string) Option {
	return func(o *clientOptions) {
		o.retryMethods = methods
	}
}

func WithDefaultHeaders(headers map[string]string) Option {
	return func(o *clientOptions) {
		o.headers = headers
	}
}

func WithDefaultParams(params map[string]string) Option {
	return func(o *clientOptions) {
		o.params = params
	}
}

func WithBasicAuth(username, password string) Option {
	return func(o *clientOptions) {
		o.auth = &credential{username: username, password: password}
	}
}

// WithAuthToken sends "Authorization: Bearer <token>" on every call.
func WithAuthToken(token string) Option {
	return func(o *clientOptions) {
		o.auth = &credential{token: token}
	}
}

// WithTimeout bounds each attempt, 0 disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

func WithMaxBackoff(max time.Duration) Option {
	return func(o *clientOptions) {
		o.maxBackoff = max
	}
}

func WithTelemetry(tel telemetry.API) Option {
	return func(o *clientOptions) {
		o.tel = tel
	}
}

func WithTracerName(name string) Option {
	return func(o *clientOptions) {
		o.tracerName = name
	}
}

// WithInstrumentOutput dumps every request/response pair to output.
func WithInstrumentOutput(output restyutil.MessageOutput) Option {
	return func(o *clientOptions) {
		o.output = output
	}
}

func WithTransport(transport http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.transport = transport
	}
}

type requestOptions struct {
	headers map[string]string
	params  map[string]string
	body    any
	retry   *bool
}

// RequestOption configures a single call.
type RequestOption func(o *requestOptions)

// WithHeaders adds headers to a single call, they win over the defaults.
func WithHeaders(headers map[string]string) RequestOption {
	return func(o *requestOptions) {
		o.headers = mergeHeaders(o.headers, headers)
	}
}

// WithParams adds query parameters to a single call, they win over the defaults.
func WithParams(params map[string]string) RequestOption {
	return func(o *requestOptions) {
		o.params = mergeParams(o.params, params)
	}
}

func WithBody(body any) RequestOption {
	return func(o *requestOptions) {
		o.body = body
	}
}

// WithRetry forces the retry policy on for this call regardless of method.
func WithRetry() RequestOption {
	return func(o *requestOptions) {
		retry := true
		o.retry = &retry
	}
}

// WithoutRetry makes this call a single attempt, use it for requests that
// must not be repeated.
func WithoutRetry() RequestOption {
	return func(o *requestOptions) {
		retry := false
		o.retry = &retry
	}
}

func newRequestOptions(opts []RequestOption) requestOptions {
	var o requestOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
