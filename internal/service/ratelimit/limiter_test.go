package ratelimit

import "testing"

func TestLimiterAllowsUpToCapacity(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 0) {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if l.Allow("k", 3, 0) {
		t.Fatalf("request over capacity should be denied")
	}
}

func TestLimiterKeysIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatalf("first key should be allowed")
	}
	if l.Allow("a", 1, 0) {
		t.Fatalf("first key should be exhausted")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatalf("second key should be unaffected")
	}
}
