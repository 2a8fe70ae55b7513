package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters: memory-hard, ~32 MB per hash, 64-byte derived key.
const (
	scryptN      = 32768
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltLen      = 16
)

// HashPassword derives a key from the plain-text password with a random
// 16-byte salt. The stored format is "hex(key).hex(salt)".
func HashPassword(plain string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("auth: salt: %w", err)
	}

	key, err := scrypt.Key([]byte(plain), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("auth: derive key: %w", err)
	}

	return hex.EncodeToString(key) + "." + hex.EncodeToString(salt), nil
}

// CheckPassword reports whether plain matches the stored hash. The final
// comparison is constant-time; a malformed stored value fails closed.
func CheckPassword(stored, plain string) bool {
	hashHex, saltHex, ok := strings.Cut(stored, ".")
	if !ok {
		return false
	}

	want, err := hex.DecodeString(hashHex)
	if err != nil || len(want) != scryptKeyLen {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}

	got, err := scrypt.Key([]byte(plain), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(want, got) == 1
}

// dummyStored is a well-formed stored value that matches no password.
var dummyStored = strings.Repeat("0", 2*scryptKeyLen) + "." + strings.Repeat("0", 2*saltLen)

// CheckDummy runs a full derivation against a fixed dummy value, so an
// unknown username costs the caller the same as a wrong password.
func CheckDummy(plain string) {
	CheckPassword(dummyStored, plain)
}
