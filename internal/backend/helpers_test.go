package backend

import (
	"net/url"
	"testing"
)

func mustParseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	q, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("failed to parse query %q: %v", raw, err)
	}
	return q
}
