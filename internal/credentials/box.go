// Package credentials seals institution credentials for storage.
package credentials

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hearth-ledger/backend/internal/scraper"
	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrKeyInvalid     = errors.New("the credentials key must be 32 bytes, hex encoded")
	ErrSealedTooShort = errors.New("sealed credentials are too short")
	ErrOpen           = errors.New("sealed credentials could not be opened")
)

// Box seals and opens credentials with XChaCha20-Poly1305. The random nonce
// is prepended to the ciphertext.
type Box struct {
	key []byte
}

// NewBox returns a Box for a 32 byte key.
func NewBox(key []byte) (*Box, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, ErrKeyInvalid
	}

	return &Box{key: append([]byte(nil), key...)}, nil
}

// ParseKey decodes a hex encoded key into a Box.
func ParseKey(hexKey string) (*Box, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKeyInvalid, err)
	}

	return NewBox(key)
}

// Seal encrypts the plaintext.
func (b *Box) Seal(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(b.key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts sealed data produced by Seal.
func (b *Box) Open(sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(b.key)
	if err != nil {
		return nil, err
	}

	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrSealedTooShort
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrOpen
	}

	return plaintext, nil
}

// SealCredentials encodes the credentials as JSON and seals them.
func (b *Box) SealCredentials(creds scraper.Credentials) ([]byte, error) {
	plaintext, err := json.Marshal(creds)
	if err != nil {
		return nil, err
	}

	return b.Seal(plaintext)
}
