package httpclient

import "testing"

func TestParseMethod(t *testing.T) {
	cases := map[string]Method{
		"GET":   MethodGet,
		" post": MethodPost,
		"get":   MethodGet,
	}
	for in, want := range cases {
		got, err := ParseMethod(in)
		if err != nil {
			t.Fatalf("ParseMethod(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseMethod(%q) = %q, want %q", in, got, want)
		}
	}

	for _, in := range []string{"", "PUT", "DELETE", "PATCH"} {
		if _, err := ParseMethod(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}
