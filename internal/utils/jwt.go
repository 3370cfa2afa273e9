package utils // package utils provides helper functions for token creation and hashing

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  The token is sent in the Authorization header
// when calling protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Token verification failures.  The HTTP layer collapses all of them into a
// single 401 so the sub-reason is never leaked to the caller, but they stay
// distinguishable here for logging and tests.
var (
    ErrTokenMalformed = errors.New("token malformed")
    ErrTokenExpired   = errors.New("token expired")
    ErrTokenInvalid   = errors.New("token invalid")
)

// NewAccessToken builds and signs an HS256 JWT for a user.  The only claim
// the token carries about the user is its ID (sub).  Mutable attributes such
// as the admin role are deliberately never embedded: admin-gated requests
// re-fetch the current role from the store, so revoking admin rights takes
// effect immediately without invalidating outstanding tokens.
func NewAccessToken(secret string, userID uint64, ttlHours int) (AccessToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlHours) * time.Hour)
    claims := jwt.MapClaims{
        "sub": userID,
        "exp": exp.Unix(),
        "iat": time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature and expiry of a token and returns
// the user ID it was issued for.  Any tampering with payload or signature,
// a wrong signing algorithm, or an elapsed expiry makes verification fail.
func ParseAccessToken(secret, raw string) (uint64, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenInvalid
        }
        return []byte(secret), nil
    })
    if err != nil {
        switch {
        case errors.Is(err, jwt.ErrTokenExpired):
            return 0, ErrTokenExpired
        case errors.Is(err, jwt.ErrTokenMalformed):
            return 0, ErrTokenMalformed
        default:
            return 0, ErrTokenInvalid
        }
    }
    if !tok.Valid {
        return 0, ErrTokenInvalid
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return 0, ErrTokenInvalid
    }
    sub, ok := claims["sub"].(float64) // numeric claims decode as float64
    if !ok || sub <= 0 {
        return 0, ErrTokenInvalid
    }
    return uint64(sub), nil
}
