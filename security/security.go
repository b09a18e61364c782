package security

import (
	"net/http"
)

const redacted = "[redacted]"

var sensitiveHeaders = []string{
	"Authorization",
	"Cookie",
	"Set-Cookie",
	"X-CSRF-Token",
}

// RedactHeaders returns a copy of headers safe to log. Credential-bearing
// headers keep their name but lose their value.
func RedactHeaders(headers http.Header) http.Header {
	out := headers.Clone()
	if out == nil {
		return http.Header{}
	}
	for _, header := range sensitiveHeaders {
		if _, ok := out[http.CanonicalHeaderKey(header)]; ok {
			out.Set(header, redacted)
		}
	}
	return out
}
