package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

const oneTimeTokenBytes = 32

// OneTimeToken is an opaque random token mailed to a user to prove possession
// of an inbox. The plaintext form goes into the email link; Digest is what may
// be persisted when the token must not be recoverable from the database.
type OneTimeToken string

// NewOneTimeToken generates a high-entropy single-use token.
func NewOneTimeToken() (OneTimeToken, error) {
	b := make([]byte, oneTimeTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return OneTimeToken(hex.EncodeToString(b)), nil
}

// Digest returns the one-way hash of the token used for storage and lookup.
func (t OneTimeToken) Digest() string {
	return HashToken(string(t))
}

func (t OneTimeToken) String() string {
	return string(t)
}

// HashToken recomputes the storage digest for a token supplied by a caller.
func HashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
