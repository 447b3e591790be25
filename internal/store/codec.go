package store

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Codec transforms free-text fields at the storage boundary. Business logic
// above the repository only ever sees plaintext; schedule fields (dates,
// times, flags) are never encoded because the scan queries match on them.
type Codec interface {
	Encode(plaintext string) (string, error)
	Decode(stored string) (string, error)
}

// PlainCodec stores text verbatim.
type PlainCodec struct{}

func (PlainCodec) Encode(s string) (string, error) { return s, nil }
func (PlainCodec) Decode(s string) (string, error) { return s, nil }

// aeadCodec seals text with ChaCha20-Poly1305. Output is
// base64(nonce || ciphertext), a fresh random nonce per write.
type aeadCodec struct {
	key []byte
}

// NewAEADCodec builds an encrypting codec from a hex-encoded 32-byte key.
func NewAEADCodec(hexKey string) (Codec, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decode secret key: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("secret key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &aeadCodec{key: key}, nil
}

func (c *aeadCodec) Encode(plaintext string) (string, error) {
	aead, err := chacha20poly1305.New(c.key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *aeadCodec) Decode(stored string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("decode stored field: %w", err)
	}
	aead, err := chacha20poly1305.New(c.key)
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", fmt.Errorf("stored field too short")
	}
	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("open stored field: %w", err)
	}
	return string(plain), nil
}
