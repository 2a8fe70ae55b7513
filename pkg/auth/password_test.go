package auth

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	// "hex(key).hex(salt)" layout: 64-byte key, 16-byte salt.
	key, salt, ok := strings.Cut(hash, ".")
	if !ok {
		t.Fatalf("hash missing separator: %q", hash)
	}
	if len(key) != 128 {
		t.Errorf("derived key hex length = %d, want 128", len(key))
	}
	if len(salt) != 32 {
		t.Errorf("salt hex length = %d, want 32", len(salt))
	}

	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("wrong password accepted")
	}
}

func TestHashIsSalted(t *testing.T) {
	a, err := HashPassword("same input")
	if err != nil {
		t.Fatal(err)
	}
	b, err := HashPassword("same input")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two hashes of the same password should differ")
	}
	if !CheckPassword(a, "same input") || !CheckPassword(b, "same input") {
		t.Error("both hashes should verify")
	}
}

func TestCheckPasswordMalformedStored(t *testing.T) {
	for _, stored := range []string{"", "no-separator", "zz.zz", "abc."} {
		if CheckPassword(stored, "anything") {
			t.Errorf("malformed stored hash %q should fail closed", stored)
		}
	}
}

func TestDummyCheckDerivesFully(t *testing.T) {
	// The dummy stored value must be well-formed so CheckPassword runs a
	// complete derivation instead of bailing out at parsing. A parse
	// failure and a real mismatch are distinguishable by timing.
	key, salt, ok := strings.Cut(dummyStored, ".")
	if !ok {
		t.Fatalf("dummy stored value missing separator: %q", dummyStored)
	}
	if len(key) != 128 {
		t.Errorf("dummy key hex length = %d, want 128", len(key))
	}
	if len(salt) != 32 {
		t.Errorf("dummy salt hex length = %d, want 32", len(salt))
	}

	if CheckPassword(dummyStored, "anything") {
		t.Error("dummy stored value must never verify")
	}
	CheckDummy("anything")
}
