package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters. Stored hashes are "<hex salt>.<hex key>" and the hex
// salt string itself is the scrypt salt.
const (
	saltBytes = 8
	scryptN   = 16384
	scryptR   = 8
	scryptP   = 1
	keyLen    = 32
)

func hashPassword(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)

	digest, err := derive(password, saltHex)
	if err != nil {
		return "", err
	}
	return saltHex + "." + digest, nil
}

// verifyPassword recomputes the digest for password and compares it with
// the stored one in constant time.
func verifyPassword(stored, password string) (bool, error) {
	salt, want, ok := strings.Cut(stored, ".")
	if !ok || salt == "" || want == "" {
		return false, nil
	}
	got, err := derive(password, salt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1, nil
}

func derive(password, salt string) (string, error) {
	key, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return "", fmt.Errorf("scrypt: %w", err)
	}
	return hex.EncodeToString(key), nil
}
