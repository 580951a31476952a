package utils

import (
	"strings"
	"testing"
)

func TestNewPublicID_URLSafeAndUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewPublicID()
		if len(id) != 32 {
			t.Fatalf("expected 32-char id, got %q", id)
		}
		if strings.ContainsAny(id, "-/+= ") {
			t.Fatalf("id %q is not URL-safe", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate public id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestNewInterviewRef_Prefixed(t *testing.T) {
	ref := NewInterviewRef()
	if !strings.HasPrefix(ref, "iv-") {
		t.Fatalf("unexpected interview ref %q", ref)
	}
}
