// internal/app/system/passwords/transport.go
package passwords

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// Transport decrypts the pre-encrypted password payloads clients send.
// The scheme is fixed by the web client: base64(OpenSSL envelope) of
// AES-256-CBC with an EVP_BytesToKey(MD5)-derived key, which is what
// crypto-js produces from a passphrase. Swapping the scheme only means
// swapping this interface's implementation.
type Transport interface {
	Decrypt(payload string) (string, error)
}

var (
	// ErrMalformedPayload is returned when a payload is not a valid
	// transport-encrypted password.
	ErrMalformedPayload = errors.New("malformed encrypted payload")
)

const openSSLMagic = "Salted__"

// AESTransport implements Transport with a shared passphrase.
type AESTransport struct {
	passphrase []byte
}

// NewAESTransport returns a Transport keyed with the shared passphrase.
func NewAESTransport(passphrase string) AESTransport {
	return AESTransport{passphrase: []byte(passphrase)}
}

// Decrypt opens the OpenSSL-style envelope and returns the plaintext.
func (t AESTransport) Decrypt(payload string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrMalformedPayload
	}
	if len(raw) < 16 || string(raw[:8]) != openSSLMagic {
		return "", ErrMalformedPayload
	}
	salt := raw[8:16]
	ct := raw[16:]
	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", ErrMalformedPayload
	}

	key, iv := evpBytesToKey(t.passphrase, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	pt := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(pt, ct)

	pt, err = pkcs7Unpad(pt)
	if err != nil {
		return "", ErrMalformedPayload
	}
	return string(pt), nil
}

// Encrypt produces a payload Decrypt accepts. It exists for tests and
// local tooling; production payloads are encrypted by the web client.
func (t AESTransport) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, 8)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key, iv := evpBytesToKey(t.passphrase, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	pt := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ct := make([]byte, len(pt))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, pt)

	env := make([]byte, 0, 16+len(ct))
	env = append(env, openSSLMagic...)
	env = append(env, salt...)
	env = append(env, ct...)
	return base64.StdEncoding.EncodeToString(env), nil
}

// evpBytesToKey derives a 32-byte key and 16-byte IV the way OpenSSL's
// EVP_BytesToKey does with MD5 and one iteration.
func evpBytesToKey(passphrase, salt []byte) (key, iv []byte) {
	var derived []byte
	var prev []byte
	for len(derived) < 48 {
		h := md5.New()
		h.Write(prev)
		h.Write(passphrase)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}
	return derived[:32], derived[32:48]
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, ErrMalformedPayload
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, ErrMalformedPayload
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, ErrMalformedPayload
		}
	}
	return b[:len(b)-n], nil
}
