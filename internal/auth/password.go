package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters, fixed for every stored hash.
const (
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltBytes    = 16
)

// ErrMalformedHash signals a stored password hash that does not have
// the <derivedKeyHex>.<saltHex> form. This is a data-integrity
// problem, not a failed login.
var ErrMalformedHash = errors.New("malformed password hash")

// HashPassword derives a key from the plaintext with a fresh random
// salt and returns the storable form <derivedKeyHex>.<saltHex>.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password must not be empty")
	}
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key) + "." + hex.EncodeToString(salt), nil
}

// VerifyPassword re-derives the key with the stored salt and compares
// it to the stored key in constant time. A malformed stored form
// returns ErrMalformedHash; a mismatch returns false with a nil error.
func VerifyPassword(supplied, stored string) (bool, error) {
	hashedHex, saltHex, found := strings.Cut(stored, ".")
	if !found || hashedHex == "" || saltHex == "" {
		return false, ErrMalformedHash
	}
	hashed, err := hex.DecodeString(hashedHex)
	if err != nil {
		return false, ErrMalformedHash
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, ErrMalformedHash
	}

	key, err := scrypt.Key([]byte(supplied), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false, err
	}
	if len(key) != len(hashed) {
		return false, nil
	}
	return subtle.ConstantTimeCompare(key, hashed) == 1, nil
}
