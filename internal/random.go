package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// SessionToken is the raw opaque session identifier. 128 bits of
// crypto/rand entropy; collisions are prevented by entropy budget, not
// handled. The client only ever sees the encoded form.
type SessionToken [16]byte

// NewSessionToken draws a fresh random token.
func NewSessionToken() (SessionToken, error) {
	var tok SessionToken
	_, err := rand.Read(tok[:])
	return tok, err
}

func (t SessionToken) Bytes() []byte {
	return t[:]
}

func (t SessionToken) String() string {
	// base64url, no padding, cookie-safe
	return base64.RawURLEncoding.EncodeToString(t[:])
}

// ParseSessionToken decodes a client-supplied token string. Any malformed
// input is rejected before a store lookup ever happens.
func ParseSessionToken(token string) (SessionToken, error) {
	var tok SessionToken

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return tok, err
	}
	if len(raw) != len(tok) {
		return tok, errors.New("invalid session token size")
	}

	copy(tok[:], raw)
	return tok, nil
}
