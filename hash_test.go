package veil

import (
	"encoding/hex"
	"testing"
)

func TestSHA256Masker(t *testing.T) {
	m := SHA256Masker()

	// Known SHA-256 of "hello".
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got := m.Mask("hello"); got != want {
		t.Errorf("SHA256Masker(%q) = %q, want %q", "hello", got, want)
	}
}

func TestBlake2bMasker(t *testing.T) {
	m := Blake2bMasker()

	got := m.Mask("hello")
	raw, err := hex.DecodeString(got)
	if err != nil {
		t.Fatalf("Blake2bMasker output is not hex: %v", err)
	}
	if len(raw) != 32 {
		t.Errorf("digest length = %d, want 32", len(raw))
	}
	if got == SHA256Masker().Mask("hello") {
		t.Error("Blake2b digest should differ from SHA-256 digest")
	}
}

func TestDigestMaskers_Deterministic(t *testing.T) {
	for name, m := range map[string]Masker{"sha256": SHA256Masker(), "blake2b": Blake2bMasker()} {
		t.Run(name, func(t *testing.T) {
			a := m.Mask("user@example.com")
			b := m.Mask("user@example.com")
			if a != b {
				t.Errorf("same input produced %q and %q", a, b)
			}
			if a == m.Mask("other@example.com") {
				t.Error("different inputs produced the same digest")
			}
		})
	}
}
