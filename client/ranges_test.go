package client_test

import (
	"net/http"
	"testing"

	"github.com/adamwoolhether/resumer/client"
)

func TestAcceptsByteRanges(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		set   bool
		want  bool
	}{
		{name: "bytes", value: "bytes", set: true, want: true},
		{name: "missing header", set: false, want: false},
		{name: "empty value", value: "", set: true, want: false},
		{name: "none", value: "none", set: true, want: false},
		{name: "bytes among other units", value: "identity, bytes", set: true, want: true},
		{name: "bytes with whitespace", value: "  bytes  ", set: true, want: true},
		{name: "case sensitive", value: "Bytes", set: true, want: false},
		{name: "substring is not a token", value: "bytes-like", set: true, want: false},
		{name: "unparsable garbage", value: ";;,=", set: true, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			if tc.set {
				h.Set("Accept-Ranges", tc.value)
			}

			if got := client.AcceptsByteRanges(h); got != tc.want {
				t.Errorf("AcceptsByteRanges(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}
