package util

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
)

// ----------------- AES-256-GCM (face photos at rest) -----------------

// deriveKey always produces a 32-byte key so the configured key string can
// be any length.
func deriveKey(keyStr string) []byte {
	sum := sha256.Sum256([]byte(keyStr))
	return sum[:]
}

// EncryptAES encrypts data with AES-256-GCM, returning nonce+ciphertext.
func EncryptAES(keyStr string, plaintext []byte) ([]byte, error) {
	key := deriveKey(keyStr)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	ciphertext := aesgcm.Seal(nil, nonce, plaintext, nil)
	// nonce is prepended so decryption can split it back off
	return append(nonce, ciphertext...), nil
}

// DecryptAES decrypts nonce+ciphertext produced by EncryptAES.
func DecryptAES(keyStr string, data []byte) ([]byte, error) {
	key := deriveKey(keyStr)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	ns := aesgcm.NonceSize()
	if len(data) < ns {
		return nil, fmt.Errorf("cipher too short")
	}
	nonce, ciphertext := data[:ns], data[ns:]

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}

// EncryptToBase64 encrypts plaintext and encodes the result as base64,
// the form stored on student records.
func EncryptToBase64(keyStr string, plaintext []byte) (string, error) {
	if keyStr == "" {
		return base64.StdEncoding.EncodeToString(plaintext), nil
	}
	b, err := EncryptAES(keyStr, plaintext)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// DecryptFromBase64 reverses EncryptToBase64. On any failure it returns the
// input unchanged so records written before encryption was enabled stay
// readable.
func DecryptFromBase64(keyStr, stored string) string {
	if stored == "" || keyStr == "" {
		return stored
	}
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return stored
	}
	plain, err := DecryptAES(keyStr, raw)
	if err != nil {
		return stored
	}
	return base64.StdEncoding.EncodeToString(plain)
}
