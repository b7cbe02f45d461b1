package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// sealInfo is the HKDF info string for session values.
const sealInfo = "libris/session-store/v1"

var (
	// ErrNoMasterKey is returned when neither a key file nor an env value is configured.
	ErrNoMasterKey = errors.New("cryptox: no master key configured")

	// ErrCiphertext is returned when sealed data is truncated, malformed or tampered with.
	ErrCiphertext = errors.New("cryptox: invalid ciphertext")
)

// LoadMasterKey reads the master key material from:
// 1. The file at path (if set)
// 2. envValue (if set)
// Surrounding whitespace in the file is ignored.
func LoadMasterKey(path, envValue string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read master key file: %w", err)
		}
		data = []byte(strings.TrimSpace(string(data)))
		if len(data) == 0 {
			return nil, fmt.Errorf("master key file %q is empty", path)
		}
		return data, nil
	}

	if envValue != "" {
		return []byte(envValue), nil
	}

	return nil, ErrNoMasterKey
}

// Sealer encrypts short secrets (session tokens) with XChaCha20-Poly1305.
// The output format is base64([24-byte nonce][ciphertext][16-byte tag]).
type Sealer struct {
	key []byte
}

// NewSealer derives a 32-byte key from master key material using HKDF-SHA256.
func NewSealer(master []byte) (*Sealer, error) {
	if len(master) == 0 {
		return nil, ErrNoMasterKey
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(sealInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	return &Sealer{key: key}, nil
}

// Seal encrypts plaintext with a fresh random nonce.
func (s *Sealer) Seal(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawStdEncoding.EncodeToString(sealed), nil
}

// Open decrypts data produced by Seal.
func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := base64.RawStdEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrCiphertext
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return "", ErrCiphertext
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrCiphertext
	}

	return string(plaintext), nil
}
