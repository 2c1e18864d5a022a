package httpclient

import "net/http"

// mergeParams returns a new map holding `defaults` overlaid with `overrides`.
// Neither input is modified.
func mergeParams(defaults, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// mergeHeaders is mergeParams with canonicalized keys, so "accept" overrides
// a default "Accept".
func mergeHeaders(defaults, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[http.CanonicalHeaderKey(k)] = v
	}
	for k, v := range overrides {
		out[http.CanonicalHeaderKey(k)] = v
	}
	return out
}
