package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"   // secure random number generation
	"encoding/hex"  // hex encoding of device ids
	"errors"        // sentinel errors for token parsing
	"time"          // expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// ErrInvalidToken is returned when a session token cannot be verified.
var ErrInvalidToken = errors.New("invalid token")

// SessionToken is a signed JWT binding a device visit to an identity.
// Token holds the serialized JWT and Exp its UTC expiry.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// SessionClaims are the claims carried by a session token.  VisitID
// (the "sid" claim) names the device-scoped visit on the server and
// Subject (the "sub" claim) the identity that logged in on it.
type SessionClaims struct {
	VisitID string
	Subject string
}

// NewSessionToken builds and signs an HS256 JWT for a visit.  The JWT
// includes sub, sid, exp and iat.
func NewSessionToken(secret, visitID, subject string, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub": subject,
		"sid": visitID,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies raw with secret and returns its claims.
// Tokens signed with anything but HMAC are rejected.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return SessionClaims{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, ErrInvalidToken
	}
	sid, _ := claims["sid"].(string)
	sub, _ := claims["sub"].(string)
	if sid == "" {
		return SessionClaims{}, ErrInvalidToken
	}
	return SessionClaims{VisitID: sid, Subject: sub}, nil
}

// NewVisitID returns a random 32 character hex id for a device visit.
func NewVisitID() (string, error) {
	return randomHex(16)
}

// randomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
