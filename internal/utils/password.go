package utils

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Password digests are self-describing "salt:key" strings: 16 random bytes
// of salt and a 64-byte PBKDF2-SHA512 key, both hex encoded.  Verification
// needs no state beyond the digest itself.
const (
	saltBytes  = 16
	keyBytes   = 64
	iterations = 100_000
)

// HashPassword derives a salted digest from a plaintext password.  A fresh
// salt is generated on every call, so hashing the same password twice yields
// two different digests.  Minimum-length policy is the caller's concern.
func HashPassword(plain string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(plain), salt, iterations, keyBytes, sha512.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword re-derives a key from the candidate password and the salt
// embedded in digest, then compares against the stored key.  It returns
// false on mismatch and on malformed digests; a bad digest is an integration
// bug, not something to surface to the end user.
func VerifyPassword(plain, digest string) bool {
	salt, key, ok := splitDigest(digest)
	if !ok {
		return false
	}
	derived := pbkdf2.Key([]byte(plain), salt, iterations, keyBytes, sha512.New)
	return subtle.ConstantTimeCompare(derived, key) == 1
}

func splitDigest(digest string) (salt, key []byte, ok bool) {
	i := strings.IndexByte(digest, ':')
	if i < 0 {
		return nil, nil, false
	}
	salt, err := hex.DecodeString(digest[:i])
	if err != nil || len(salt) == 0 {
		return nil, nil, false
	}
	key, err = hex.DecodeString(digest[i+1:])
	if err != nil || len(key) != keyBytes {
		return nil, nil, false
	}
	return salt, key, true
}
