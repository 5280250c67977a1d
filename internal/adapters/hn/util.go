package hn

import (
	"bytes"
	"io"
	"strings"
)

// Attempt results recorded on the fetch counter
const (
	resultOK        = "ok"
	resultNotFound  = "not_found"
	resultHTTP      = "http_error"
	resultTransport = "transport_error"
	resultDecode    = "decode_error"
)

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}

// isJSONNull reports whether body is the literal null Firebase returns for unknown ids
func isJSONNull(body []byte) bool {
	return bytes.Equal(bytes.TrimSpace(body), []byte("null"))
}

// endpointOf collapses a request path into a low cardinality metric label
func endpointOf(path string) string {
	p := strings.TrimPrefix(path, "/")
	switch {
	case strings.HasPrefix(p, "item/"):
		return "item"
	case strings.HasPrefix(p, "topstories"):
		return "topstories"
	default:
		return "other"
	}
}
