package client

import (
	"net/http"
	"strings"
)

// AcceptsByteRanges reports whether the given response headers advertise
// byte-range support. The Accept-Ranges value is treated as a
// comma-separated list of range units; the check is an exact,
// case-sensitive match of the token "bytes" after whitespace trimming.
// A missing or malformed header means no support, never an error.
func AcceptsByteRanges(h http.Header) bool {
	v := h.Get("Accept-Ranges")
	if v == "" {
		return false
	}

	for _, unit := range strings.Split(v, ",") {
		if strings.TrimSpace(unit) == "bytes" {
			return true
		}
	}

	return false
}
