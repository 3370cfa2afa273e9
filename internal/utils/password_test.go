package utils

import (
	"encoding/hex"
	"strings"
	"testing"
)

func TestHashPasswordDigestShape(t *testing.T) {
	t.Parallel()

	digest, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	parts := strings.Split(digest, ":")
	if len(parts) != 2 {
		t.Fatalf("digest %q: want exactly one colon separator", digest)
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		t.Fatalf("salt is not hex: %v", err)
	}
	if len(salt) != 16 {
		t.Fatalf("salt length = %d, want 16", len(salt))
	}
	key, err := hex.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("key is not hex: %v", err)
	}
	if len(key) != 64 {
		t.Fatalf("key length = %d, want 64", len(key))
	}
}

func TestHashPasswordSaltsAreUnique(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	b, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if a == b {
		t.Fatal("two digests of the same password are identical, salt is not random")
	}
	// Both must still verify.
	if !VerifyPassword("same password", a) || !VerifyPassword("same password", b) {
		t.Fatal("digest does not verify against its own password")
	}
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	digest, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !VerifyPassword("correct horse", digest) {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword("wrong horse", digest) {
		t.Fatal("wrong password accepted")
	}
	if VerifyPassword("", digest) {
		t.Fatal("empty password accepted")
	}
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"nocolon",
		"zz:zz",                       // not hex
		"abcd",                        // missing separator
		":" + strings.Repeat("ab", 64), // empty salt
		strings.Repeat("ab", 16) + ":" + strings.Repeat("ab", 32), // short key
	}
	for _, digest := range cases {
		if VerifyPassword("whatever", digest) {
			t.Fatalf("malformed digest %q accepted", digest)
		}
	}
}
