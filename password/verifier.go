package password

import (
	"errors"
	"strings"
)

// ErrUnsupportedHash is returned for credential hashes in a format this
// build does not recognize. Callers treat it as a failed verification.
var ErrUnsupportedHash = errors.New("unsupported credential hash format")

// Verifier dispatches credential verification by stored hash format.
// It is the gateway's only view of credentials: one plaintext in, one
// boolean out, with the hash scheme kept out of the decision logic.
type Verifier struct {
	argon *Argon2
}

// NewVerifier builds a verifier whose argon2id branch uses the given
// cost parameters for parse-time floors.
func NewVerifier(p Params) (*Verifier, error) {
	argon, err := NewArgon2(p)
	if err != nil {
		return nil, err
	}
	return &Verifier{argon: argon}, nil
}

// Verify checks plaintext against a stored hash. Unknown formats and
// malformed hashes verify false; only the ok result distinguishes a
// wrong password, so the caller's error surface stays uniform.
func (v *Verifier) Verify(plaintext, encodedHash string) (bool, error) {
	switch {
	case strings.HasPrefix(encodedHash, argonPrefix):
		return v.argon.Verify(plaintext, encodedHash)
	case strings.HasPrefix(encodedHash, "$P$"), strings.HasPrefix(encodedHash, "$H$"):
		return verifyPHPass(plaintext, encodedHash)
	default:
		return false, ErrUnsupportedHash
	}
}

// Hash produces an argon2id hash for newly written credentials. New
// records never receive PHPass hashes.
func (v *Verifier) Hash(plaintext string) (string, error) {
	return v.argon.Hash(plaintext)
}
