package httpclient

import "time"

// Config is the serializable form of the client options, as found in
// component configuration files. Unset fields keep the defaults.
type Config struct {
	BaseUrl           string            `json:"base_url"`
	MaxRetries        *int              `json:"max_retries"`
	BackoffFactor     *float64          `json:"backoff_factor"`
	RetryStatusCodes  []int             `json:"retry_status_codes"`
	RetryMethods      []string          `json:"retry_methods"`
	Headers           map[string]string `json:"headers"`
	Params            map[string]string `json:"params"`
	Username          string            `json:"username"`
	Password          string            `json:"#password"`
	Token             string            `json:"#token"`
	TimeoutSeconds    *float64          `json:"timeout_seconds"`
	MaxBackoffSeconds *float64          `json:"max_backoff_seconds"`
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Options converts the config into client options.
func (c Config) Options() []Option {
	var opts []Option
	if c.MaxRetries != nil {
		opts = append(opts, WithMaxRetries(*c.MaxRetries))
	}
	if c.BackoffFactor != nil {
		opts = append(opts, WithBackoffFactor(*c.BackoffFactor))
	}
	if len(c.RetryStatusCodes) > 0 {
		opts = append(opts, WithRetryStatusCodes(c.RetryStatusCodes...))
	}
	if len(c.RetryMethods) > 0 {
		opts = append(opts, WithRetryMethods(c.RetryMethods...))
	}
	if len(c.Headers) > 0 {
		opts = append(opts, WithDefaultHeaders(c.Headers))
	}
	if len(c.Params) > 0 {
		opts = append(opts, WithDefaultParams(c.Params))
	}
	switch {
	case c.Token != "":
		opts = append(opts, WithAuthToken(c.Token))
	case c.Username != "":
		opts = append(opts, WithBasicAuth(c.Username, c.Password))
	}
	if c.TimeoutSeconds != nil {
		opts = append(opts, WithTimeout(seconds(*c.TimeoutSeconds)))
	}
	if c.MaxBackoffSeconds != nil {
		opts = append(opts, WithMaxBackoff(seconds(*c.MaxBackoffSeconds)))
	}
	return opts
}

// NewClient creates a client from the config, `extra` is applied after the
// config's own options.
func (c Config) NewClient(extra ...Option) (*Client, error) {
	return NewClient(c.BaseUrl, append(c.Options(), extra...)...)
}
