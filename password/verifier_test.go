package password

import (
	"errors"
	"testing"
)

func TestVerifierDispatchesArgon2(t *testing.T) {
	v, err := NewVerifier(testParams())
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	hash, err := v.Hash("members-only")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	ok, err := v.Verify("members-only", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("argon2 credential must verify")
	}
}

func TestVerifierDispatchesPHPass(t *testing.T) {
	v, err := NewVerifier(testParams())
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	ok, err := v.Verify(phpassVectorPassword, phpassVectorHash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("migrated WordPress credential must verify")
	}

	ok, err = v.Verify("not-the-password", phpassVectorHash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestVerifierRejectsUnknownFormats(t *testing.T) {
	v, err := NewVerifier(testParams())
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	for _, h := range []string{"", "plaintext-password", "$2y$10$abcdefghijklmnopqrstuv"} {
		ok, err := v.Verify("anything", h)
		if ok {
			t.Fatalf("unknown format %q must not verify", h)
		}
		if !errors.Is(err, ErrUnsupportedHash) {
			t.Fatalf("expected ErrUnsupportedHash for %q, got %v", h, err)
		}
	}
}
