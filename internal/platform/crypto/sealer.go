package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrKeyLength       = fmt.Errorf("DATA_ENCRYPTION_KEY must decode to %d bytes", chacha20poly1305.KeySize)
	ErrCiphertextShort = errors.New("ciphertext too short")
)

// magic prefixes every sealed blob so archived files can be told apart from
// plaintext written before a key was configured.
var magic = []byte("SHV1")

// Service seals data at rest with XChaCha20-Poly1305. A Service without a key
// passes data through unchanged.
type Service struct {
	key []byte
}

func New(key string) (*Service, error) {
	if key == "" {
		return &Service{}, nil
	}
	decoded, err := decodeKey(key)
	if err != nil {
		return nil, err
	}
	return &Service{key: decoded}, nil
}

func (s *Service) Configured() bool {
	return s != nil && len(s.key) == chacha20poly1305.KeySize
}

func (s *Service) Encrypt(plain []byte) ([]byte, error) {
	if !s.Configured() || len(plain) == 0 {
		return plain, nil
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), len(magic)+aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	out := append(append([]byte{}, magic...), nonce...)
	return aead.Seal(out, nonce, plain, magic), nil
}

func (s *Service) Decrypt(sealed []byte) ([]byte, error) {
	if !s.Configured() || !IsSealed(sealed) {
		return sealed, nil
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	body := sealed[len(magic):]
	if len(body) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrCiphertextShort
	}
	return aead.Open(nil, body[:aead.NonceSize()], body[aead.NonceSize():], magic)
}

func IsSealed(data []byte) bool {
	return len(data) >= len(magic) && subtle.ConstantTimeCompare(data[:len(magic)], magic) == 1
}

// decodeKey accepts hex or base64; the decoded key must be exactly KeySize bytes.
func decodeKey(raw string) ([]byte, error) {
	candidates := []func(string) ([]byte, error){
		hex.DecodeString,
		base64.StdEncoding.DecodeString,
		base64.RawStdEncoding.DecodeString,
	}
	for _, decode := range candidates {
		if decoded, err := decode(raw); err == nil && len(decoded) == chacha20poly1305.KeySize {
			return decoded, nil
		}
	}
	if len(raw) == chacha20poly1305.KeySize {
		return []byte(raw), nil
	}
	return nil, ErrKeyLength
}
