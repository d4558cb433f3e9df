package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                          "/",
		"/metrics":                  "/metrics",
		"/auth/login":               "/auth/login",
		"/auth/refresh":             "/auth/refresh",
		"/listings/01J5ABCDE":       "/listings/:id",
		"/listings/01J5ABCDE?x=1":   "/listings/:id",
		"/listings":                 "/listings",
		"/listings/abc/extra":       "/listings/abc/extra",
		"/healthz?verbose=1":        "/healthz",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
