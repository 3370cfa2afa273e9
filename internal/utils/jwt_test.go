package utils

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "unit-test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	access, err := NewAccessToken(testSecret, 42, 168)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if access.Token == "" {
		t.Fatal("empty token string")
	}

	// Seven-day lifetime, give or take scheduling noise.
	ttl := time.Until(access.Exp)
	if ttl < 167*time.Hour || ttl > 169*time.Hour {
		t.Fatalf("token ttl = %v, want about 168h", ttl)
	}

	uid, err := ParseAccessToken(testSecret, access.Token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if uid != 42 {
		t.Fatalf("subject = %d, want 42", uid)
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	t.Parallel()

	access, err := NewAccessToken(testSecret, 7, -1)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := ParseAccessToken(testSecret, access.Token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("got %v, want ErrTokenExpired", err)
	}
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	t.Parallel()

	access, err := NewAccessToken(testSecret, 7, 1)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := ParseAccessToken("a different secret", access.Token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}

func TestParseAccessTokenTampered(t *testing.T) {
	t.Parallel()

	access, err := NewAccessToken(testSecret, 7, 1)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	// Flip a character inside the payload segment.
	parts := strings.Split(access.Token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := ParseAccessToken(testSecret, tampered); err == nil {
		t.Fatal("tampered token accepted")
	}
}

func TestParseAccessTokenMalformed(t *testing.T) {
	t.Parallel()

	if _, err := ParseAccessToken(testSecret, "not.a.jwt"); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("got %v, want ErrTokenMalformed", err)
	}
	if _, err := ParseAccessToken(testSecret, ""); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("got %v, want ErrTokenMalformed", err)
	}
}
