package cmd

import (
	"strings"
	"testing"
	"time"
)

func TestTokenStatus(t *testing.T) {
	if got := tokenStatus(time.Time{}); got != "unknown" {
		t.Errorf("zero expiry = %q, want unknown", got)
	}
	if got := tokenStatus(time.Now().Add(-time.Hour)); !strings.HasPrefix(got, "expired ") {
		t.Errorf("past expiry = %q, want an expired status", got)
	}
	if got := tokenStatus(time.Now().Add(time.Hour)); !strings.HasPrefix(got, "valid until ") {
		t.Errorf("future expiry = %q, want a valid status", got)
	}
}
