package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestErrorfAlwaysLogs(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, 0)
	l.Errorf("cannot read %q: %v", "/a/b", "permission denied")

	if !strings.Contains(buf.String(), "/a/b") {
		t.Errorf("expected Errorf to log regardless of verbosity, got %q", buf.String())
	}
}

func TestVerbosefGatedByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, 1)

	l.Verbosef(2, "too verbose")
	if buf.Len() != 0 {
		t.Errorf("expected level-2 message to be suppressed at verbosity 1, got %q", buf.String())
	}

	l.Verbosef(1, "just right")
	if !strings.Contains(buf.String(), "just right") {
		t.Errorf("expected level-1 message to pass at verbosity 1, got %q", buf.String())
	}
}

func TestDefaultWritesToStderr(t *testing.T) {
	l := Default()
	if l == nil {
		t.Fatal("expected Default() to return a non-nil Logger")
	}
}
