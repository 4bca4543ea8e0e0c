package cookievault

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "already canonical", in: "U2FsdGVkX18=", want: "U2FsdGVkX18="},
		{name: "surrounding whitespace", in: "  U2Fs\n", want: "U2Fs"},
		{name: "inner whitespace and line wraps", in: "U2Fs\r\ndGVk\tX18 =", want: "U2FsdGVkX18="},
		{name: "zero width characters", in: "U2\u200BFs\u200Cd\u200DGVk", want: "U2FsdGVk"},
		{name: "byte order mark", in: "\uFEFFU2Fs", want: "U2Fs"},
		{name: "data uri", in: "data:application/octet-stream;base64,U2Fs", want: "U2Fs"},
		{name: "data uri without mime", in: "data:;base64,U2Fs", want: "U2Fs"},
		{name: "data uri after whitespace", in: " \n data:text/plain;base64, U2Fs", want: "U2Fs"},
		{name: "nested data uri", in: "data:a/b;base64,data:c/d;base64,U2Fs", want: "U2Fs"},
		{name: "data uri inside payload is kept", in: "U2Fsdata:a/b;base64,", want: "U2Fsdata:a/b;base64,"},
		{name: "only noise", in: " \t\u200B\uFEFF\n", want: ""},
		{name: "empty", in: "", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Sanitize(tc.in)
			require.Equal(t, tc.want, got)
			require.Equal(t, got, Sanitize(got), "sanitize must be idempotent")
		})
	}
}
