package security

import (
	"errors"
	"strings"

	"github.com/matthewhartstonge/argon2"
)

// PasswordHash is an argon2id-encoded password digest. It can only be built by
// hashing a plaintext password or by parsing a value that is already encoded,
// so a raw password can never end up in a hash-typed field.
type PasswordHash string

var (
	ErrEmptyPassword = errors.New("password must not be empty")
	ErrNotEncoded    = errors.New("value is not an argon2 encoded hash")
)

// HashPassword hashes a plaintext password with a fresh random salt.
func HashPassword(plain string) (PasswordHash, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}

	cfg := argon2.DefaultConfig()
	encoded, err := cfg.HashEncoded([]byte(plain))
	if err != nil {
		return "", err
	}

	return PasswordHash(encoded), nil
}

// ParsePasswordHash wraps an already-encoded hash loaded from storage.
// It rejects anything that does not carry the argon2 encoding prefix, which
// guards against double-hashing and against persisting plaintext by mistake.
func ParsePasswordHash(s string) (PasswordHash, error) {
	if !strings.HasPrefix(s, "$argon2") {
		return "", ErrNotEncoded
	}

	return PasswordHash(s), nil
}

// Verify reports whether the plaintext password matches the hash.
func (h PasswordHash) Verify(plain string) (bool, error) {
	return argon2.VerifyEncoded([]byte(plain), []byte(h))
}

func (h PasswordHash) String() string {
	return string(h)
}
