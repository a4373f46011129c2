package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"github.com/dmitrijs2005/gachaserver/internal/common"
	"github.com/samber/oops"
	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultHashIterations = 10000
	DefaultHashKeyLength  = 64
	DefaultSaltSize       = 128
)

// PasswordHasher derives PBKDF2-SHA512 digests with a fixed parameter set.
// Digests are hex encoded; salts are base64 strings whose text is the KDF salt.
type PasswordHasher struct {
	Iterations int
	KeyLength  int
	SaltSize   int
}

func NewPasswordHasher(iterations, keyLength, saltSize int) *PasswordHasher {
	return &PasswordHasher{Iterations: iterations, KeyLength: keyLength, SaltSize: saltSize}
}

// NewSalt returns a fresh random salt of SaltSize bytes, base64 encoded.
func (h *PasswordHasher) NewSalt() (string, error) {
	salt, err := common.MakeRandBase64String(h.SaltSize)
	if err != nil {
		return "", oops.In("auth").Code(common.KindInternal.Code()).Wrap(common.ErrorInternal)
	}
	return salt, nil
}

func (h *PasswordHasher) Hash(password, salt string) (string, error) {
	return HashPassword(password, salt, h.Iterations, h.KeyLength)
}

func (h *PasswordHasher) Verify(storedDigest, password, salt string) (bool, error) {
	return VerifyPassword(storedDigest, password, salt, h.Iterations, h.KeyLength)
}

// HashPassword derives the hex digest of password.
func HashPassword(password, salt string, iterations, keyLength int) (string, error) {
	if iterations <= 0 || keyLength <= 0 {
		return "", oops.In("auth").
			Code(common.KindInternal.Code()).
			With("iterations", iterations, "key_length", keyLength).
			Wrapf(common.ErrorInternal, "invalid hash parameters")
	}

	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLength, sha512.New)
	digest := hex.EncodeToString(key)
	common.WipeByteArray(key)

	return digest, nil
}

// VerifyPassword re-derives the digest and compares it in constant time.
// A mismatch is (false, nil); only derivation failures return an error.
func VerifyPassword(storedDigest, password, salt string, iterations, keyLength int) (bool, error) {
	candidate, err := HashPassword(password, salt, iterations, keyLength)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(storedDigest), []byte(candidate)) == 1, nil
}
