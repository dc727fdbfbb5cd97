package security

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// CiphertextPrefix marks values produced by FieldCipher.
const CiphertextPrefix = "enc:v1:"

var (
	ErrInvalidKeySize    = errors.New("invalid key size: must be 32 bytes")
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrDecryptionFailed  = errors.New("decryption failed")
)

// FieldCipher encrypts individual PII values with XChaCha20-Poly1305.
// Output is CiphertextPrefix + base64(nonce || ciphertext || tag).
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher creates a cipher from a 32-byte key.
func NewFieldCipher(key []byte) (*FieldCipher, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, ErrInvalidKeySize
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create aead: %w", err)
	}
	return &FieldCipher{aead: aead}, nil
}

// IsEncrypted reports whether s carries the ciphertext prefix.
func IsEncrypted(s string) bool {
	return strings.HasPrefix(s, CiphertextPrefix)
}

// Encrypt seals plaintext under a fresh random nonce.
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return CiphertextPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt. Values without the prefix are
// returned unchanged.
func (c *FieldCipher) Decrypt(value string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, CiphertextPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	ns := c.aead.NonceSize()
	if len(raw) < ns+c.aead.Overhead() {
		return "", ErrInvalidCiphertext
	}
	plain, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plain), nil
}

// EncryptFields returns a copy of data with the listed fields encrypted.
// Empty and already-encrypted values are left as they are.
func (c *FieldCipher) EncryptFields(data map[string]any, fields []string) (map[string]any, error) {
	out := copyMap(data)
	for _, f := range fields {
		v, ok := out[f]
		if !ok || !truthy(v) {
			continue
		}
		s := stringify(v)
		if IsEncrypted(s) {
			continue
		}
		enc, err := c.Encrypt(s)
		if err != nil {
			return nil, fmt.Errorf("encrypt %s: %w", f, err)
		}
		out[f] = enc
	}
	return out, nil
}

// DecryptFields returns a copy of data with the listed encrypted string
// fields decrypted.
func (c *FieldCipher) DecryptFields(data map[string]any, fields []string) (map[string]any, error) {
	out := copyMap(data)
	for _, f := range fields {
		s, ok := out[f].(string)
		if !ok || !IsEncrypted(s) {
			continue
		}
		dec, err := c.Decrypt(s)
		if err != nil {
			return nil, fmt.Errorf("decrypt %s: %w", f, err)
		}
		out[f] = dec
	}
	return out, nil
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
