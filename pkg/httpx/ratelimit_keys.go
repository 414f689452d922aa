package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
)

// TrustProxyHeaders makes IPKeyExtractor believe X-Forwarded-For and
// X-Real-IP. Only enable it behind a proxy that overwrites those headers,
// otherwise any client can pick its own rate limit key.
// Set from RATELIMIT_TRUST_PROXY through RateLimits.Apply.
var TrustProxyHeaders = false

// KeyExtractor names the bucket a request is counted against. An empty key
// exempts the request.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor returns the client address.
func IPKeyExtractor(r *http.Request) string {
	if TrustProxyHeaders {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// UserIDKeyExtractor returns the user id stored by the session guard.
func UserIDKeyExtractor(r *http.Request) string {
	return UserIDFromContext(r.Context())
}

// CompositeKeyExtractor joins the non-empty keys of extractors with sep.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(extractors))
		for _, extract := range extractors {
			if key := extract(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// maxPeekBody bounds how much of a JSON body a key extractor will buffer.
const maxPeekBody = 64 << 10

// RequestFieldKeyExtractor returns a lower-cased request field. JSON bodies
// are peeked and put back for the handler; urlencoded forms and the query
// go through ParseForm. Multipart bodies are left alone and only the query
// is consulted.
func RequestFieldKeyExtractor(fieldName string) KeyExtractor {
	return func(r *http.Request) string {
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

		switch mediaType {
		case "application/json":
			return jsonField(r, fieldName)
		case "multipart/form-data":
			return strings.ToLower(r.URL.Query().Get(fieldName))
		}

		if err := r.ParseForm(); err == nil {
			return strings.ToLower(r.FormValue(fieldName))
		}
		return ""
	}
}

type replayBody struct {
	io.Reader
	io.Closer
}

func jsonField(r *http.Request, fieldName string) string {
	if r.Body == nil {
		return ""
	}

	// The peeked prefix is stitched back in front of the unread remainder so
	// the handler sees the whole body and its own size limit still applies.
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBody))
	r.Body = replayBody{Reader: io.MultiReader(bytes.NewReader(raw), r.Body), Closer: r.Body}
	if err != nil {
		return ""
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}
	v, _ := fields[fieldName].(string)
	return strings.ToLower(strings.TrimSpace(v))
}
