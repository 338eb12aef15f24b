package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
)

const (
	// keyLength is the AES-256 key size
	keyLength = 32
	// ivLength is the AES block size, used for the random IV
	ivLength = 16
	// envelopeDelimiter separates the hex IV from the hex ciphertext
	envelopeDelimiter = ":"
)

var (
	ErrEmptyPlaintext    = errors.New("plaintext is empty")
	ErrMalformedEnvelope = errors.New("malformed ciphertext envelope")
	ErrDecryptFailed     = errors.New("unable to decrypt value")
)

// CodecConfig holds the key material for the secret codec. The key may
// be any length supplied by the operator; it is normalized to exactly
// 32 bytes.
type CodecConfig struct {
	Key string
}

// Codec encrypts and decrypts reversible card secrets using
// AES-256-CBC. Every envelope carries its own random IV in the format
// iv_hex:ciphertext_hex.
type Codec struct {
	key []byte
}

// NewCodec creates a codec from the configured key, padding short keys
// with '0' and truncating long ones to 32 bytes so operators can
// supply a key of any length.
func NewCodec(cfg CodecConfig) *Codec {
	key := cfg.Key
	if len(key) < keyLength {
		key += strings.Repeat("0", keyLength-len(key))
	}
	return &Codec{key: []byte(key[:keyLength])}
}

// Encrypt encrypts plaintext and returns an envelope string. A fresh
// random IV is generated on every call so equal plaintexts never
// produce equal envelopes.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPlaintext
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + envelopeDelimiter + hex.EncodeToString(ciphertext), nil
}

// Decrypt decrypts an envelope produced by Encrypt. Any malformed
// envelope or cryptographic failure returns an error, never garbage
// plaintext.
func (c *Codec) Decrypt(envelope string) (string, error) {
	parts := strings.Split(envelope, envelopeDelimiter)
	if len(parts) != 2 {
		return "", ErrMalformedEnvelope
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != ivLength {
		return "", ErrMalformedEnvelope
	}

	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrMalformedEnvelope
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		// Wrong key or corrupted data shows up as invalid padding
		return "", ErrDecryptFailed
	}
	return string(unpadded), nil
}

// IsEnvelope reports whether a stored value looks like a well-formed
// ciphertext envelope
func IsEnvelope(value string) bool {
	parts := strings.Split(value, envelopeDelimiter)
	if len(parts) != 2 {
		return false
	}
	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != ivLength {
		return false
	}
	ct, err := hex.DecodeString(parts[1])
	return err == nil && len(ct) > 0 && len(ct)%aes.BlockSize == 0
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrMalformedEnvelope
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, ErrMalformedEnvelope
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, ErrMalformedEnvelope
		}
	}
	return data[:len(data)-padding], nil
}
