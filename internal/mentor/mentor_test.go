package mentor

import (
	"strings"
	"testing"
)

func TestSystem_NoContext(t *testing.T) {
	if got := System(""); got != SystemInstruction {
		t.Fatalf("expected bare persona, got %q", got)
	}
}

func TestSystem_WithContext(t *testing.T) {
	got := System("HNSW is the default index.")
	if !strings.HasPrefix(got, SystemInstruction) {
		t.Fatal("expected persona prefix")
	}
	if !strings.HasSuffix(got, "Relevant Context for current query:\nHNSW is the default index.") {
		t.Fatalf("unexpected context framing: %q", got)
	}
}
