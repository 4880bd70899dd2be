package devbackend

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	nonceSizeGCM = 12  // AES-GCM nonce (96 bits)
	boxSep       = "|" // nonce|ciphertext (ambos en base64)
)

// secretBox cifra la contraseña SMTP guardada con AES-256-GCM. La clave es
// sha256(SecretKey), así una SECRET_KEY de cualquier largo sirve.
type secretBox struct {
	aead cipher.AEAD
}

func newSecretBox(secret string) *secretBox {
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		// 32 bytes siempre es una clave AES válida
		panic(err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		panic(err)
	}
	return &secretBox{aead: aead}
}

// Encrypt devuelve base64(nonce)|base64(ciphertext).
func (b *secretBox) Encrypt(plain string) (string, error) {
	nonce := make([]byte, nonceSizeGCM)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("nonce random: %w", err)
	}
	ct := b.aead.Seal(nil, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(nonce) + boxSep + base64.StdEncoding.EncodeToString(ct), nil
}

func (b *secretBox) Decrypt(boxed string) (string, error) {
	parts := strings.Split(boxed, boxSep)
	if len(parts) != 2 {
		return "", errors.New("formato inválido: esperado base64(nonce)|base64(ciphertext)")
	}
	nonce, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("decode nonce: %w", err)
	}
	ct, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	if len(nonce) != nonceSizeGCM {
		return "", fmt.Errorf("nonce inválido: esperado %d bytes, obtuvo %d", nonceSizeGCM, len(nonce))
	}
	pt, err := b.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fmt.Errorf("gcm auth/decrypt: %w", err)
	}
	return string(pt), nil
}
