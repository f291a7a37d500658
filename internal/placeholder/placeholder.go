// Package placeholder resolves subject tokens in descriptors before dispatch.
// Resolution is a pure pre-processing step that returns fully literal
// descriptors; the dispatcher itself never sees templating.
package placeholder

import (
	"strings"

	"github.com/kamalkashyapp/fanout/internal/dispatch"
)

// DefaultToken is the token replaced by the subject value.
const DefaultToken = "{{subject}}"

// Apply returns a copy of descs with every occurrence of token in URL, body
// and header values replaced by subject. The input slice is left untouched.
// An empty token means DefaultToken.
func Apply(descs []dispatch.Descriptor, subject, token string) []dispatch.Descriptor {
	if token == "" {
		token = DefaultToken
	}

	out := make([]dispatch.Descriptor, len(descs))
	for i, d := range descs {
		d.URL = strings.ReplaceAll(d.URL, token, subject)
		d.Body = strings.ReplaceAll(d.Body, token, subject)
		if len(d.Headers) > 0 {
			headers := make(map[string]string, len(d.Headers))
			for k, v := range d.Headers {
				headers[k] = strings.ReplaceAll(v, token, subject)
			}
			d.Headers = headers
		}
		out[i] = d
	}
	return out
}

// ContainsToken reports whether any descriptor still references the token.
// Callers use it to demand a subject before dispatching a templated batch.
func ContainsToken(descs []dispatch.Descriptor, token string) bool {
	if token == "" {
		token = DefaultToken
	}
	for _, d := range descs {
		if strings.Contains(d.URL, token) || strings.Contains(d.Body, token) {
			return true
		}
		for _, v := range d.Headers {
			if strings.Contains(v, token) {
				return true
			}
		}
	}
	return false
}
