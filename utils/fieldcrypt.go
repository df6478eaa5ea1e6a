package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"
)

// Sensitive customer fields (aadhaar, date of birth) are stored encrypted.
// AES-256-GCM with a key derived from FIELD_CRYPT_KEY; ciphertext is
// base64(nonce||sealed) prefixed with "enc:" so already-encrypted values can
// be recognized and never double-encrypted.

const fieldCryptPrefix = "enc:"

var ErrFieldCryptKeyMissing = errors.New("field encryption key is not configured")

func fieldCryptAEAD(key string) (cipher.AEAD, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrFieldCryptKeyMissing
	}
	sum := sha256.Sum256([]byte(key))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func EncryptField(key, plaintext string) (string, error) {
	if plaintext == "" || strings.HasPrefix(plaintext, fieldCryptPrefix) {
		return plaintext, nil
	}
	aead, err := fieldCryptAEAD(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return fieldCryptPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

func DecryptField(key, ciphertext string) (string, error) {
	if ciphertext == "" || !strings.HasPrefix(ciphertext, fieldCryptPrefix) {
		return ciphertext, nil
	}
	aead, err := fieldCryptAEAD(key)
	if err != nil {
		return "", err
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ciphertext, fieldCryptPrefix))
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", errors.New("field ciphertext too short")
	}
	plain, err := aead.Open(nil, raw[:aead.NonceSize()], raw[aead.NonceSize():], nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
