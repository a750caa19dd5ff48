package breach

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultSalt = "sovereign-breach-v1"
	// KDFIterations is the PBKDF2-SHA256 work factor.
	KDFIterations = 100_000
	keyLength     = 32
	ivLength      = 12
)

// DeriveKey stretches the environment string with the fixed salt into an
// AES-256 key.
func DeriveKey(salt, environment string) []byte {
	return pbkdf2.Key([]byte(environment), []byte(salt), KDFIterations, keyLength, sha256.New)
}

// Environment returns a semi-stable description of the host. Renaming the
// machine changes the derived key, so earlier evidence no longer opens.
func Environment() string {
	host, _ := os.Hostname()
	return runtime.GOOS + "/" + runtime.GOARCH + "/" + host
}

// Vault seals evidence blobs with AES-256-GCM. Every blob gets a fresh IV.
type Vault struct {
	aead cipher.AEAD
}

func NewVault(salt, environment string) (*Vault, error) {
	if salt == "" {
		salt = DefaultSalt
	}
	block, err := aes.NewCipher(DeriveKey(salt, environment))
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return &Vault{aead: aead}, nil
}

func (v *Vault) Seal(plaintext []byte) (Blob, error) {
	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return Blob{}, fmt.Errorf("generate iv: %w", err)
	}
	return Blob{Ciphertext: v.aead.Seal(nil, iv, plaintext, nil), IV: iv}, nil
}

func (v *Vault) Open(b Blob) ([]byte, error) {
	if len(b.IV) != ivLength {
		return nil, fmt.Errorf("invalid iv length %d", len(b.IV))
	}
	plaintext, err := v.aead.Open(nil, b.IV, b.Ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt blob: %w", err)
	}
	return plaintext, nil
}
