package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/pbkdf2"

	"github.com/felixgeelhaar/maison/internal/errors"
	"github.com/felixgeelhaar/maison/internal/persist"
)

// TokenRecord is the durable record holding the bearer token, apart from the
// session record.
const TokenRecord = "token"

const (
	keyIterations = 100000
	keyLength     = 32
	saltLength    = 16
)

// DefaultPassphrase is used when no passphrase is configured. It keeps the
// token unreadable to casual inspection only.
const DefaultPassphrase = "maison-token-store"

type sealedToken struct {
	Salt     string    `json:"salt"`
	Value    string    `json:"value"`
	StoredAt time.Time `json:"stored_at"`
}

// TokenStore keeps the bearer token encrypted at rest with AES-GCM under a
// key derived from a passphrase with PBKDF2.
type TokenStore struct {
	backend    persist.Backend
	passphrase []byte
}

// NewTokenStore creates a token store over backend. An empty passphrase
// selects DefaultPassphrase.
func NewTokenStore(backend persist.Backend, passphrase string) *TokenStore {
	if passphrase == "" {
		passphrase = DefaultPassphrase
	}
	return &TokenStore{backend: backend, passphrase: []byte(passphrase)}
}

// Save encrypts and writes token, replacing any previous one.
func (s *TokenStore) Save(token string) error {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return errors.Wrap(errors.ErrCodeAuthTokenStore, "failed to generate salt", err)
	}

	sealed, err := s.encrypt(salt, token)
	if err != nil {
		return errors.Wrap(errors.ErrCodeAuthTokenStore, "failed to encrypt token", err)
	}

	data, err := json.Marshal(sealedToken{
		Salt:     base64.StdEncoding.EncodeToString(salt),
		Value:    sealed,
		StoredAt: time.Now().UTC(),
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeAuthTokenStore, "failed to encode token", err)
	}

	if err := s.backend.Write(TokenRecord, data); err != nil {
		return errors.Wrap(errors.ErrCodeAuthTokenStore, "failed to write token", err)
	}
	return nil
}

// Load returns the stored token, or "" when none is stored.
func (s *TokenStore) Load() (string, error) {
	data, ok, err := s.backend.Read(TokenRecord)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeAuthTokenStore, "failed to read token", err)
	}
	if !ok {
		return "", nil
	}

	var rec sealedToken
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", errors.Wrap(errors.ErrCodeAuthTokenStore, "failed to decode token record", err)
	}
	salt, err := base64.StdEncoding.DecodeString(rec.Salt)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeAuthTokenStore, "failed to decode token salt", err)
	}

	token, err := s.decrypt(salt, rec.Value)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeAuthTokenStore, "failed to decrypt token", err).
			WithSuggestion("Check MAISON_TOKEN_PASSPHRASE or sign in again")
	}
	return token, nil
}

// Delete removes the stored token.
func (s *TokenStore) Delete() error {
	if err := s.backend.Delete(TokenRecord); err != nil {
		return errors.Wrap(errors.ErrCodeAuthTokenStore, "failed to delete token", err)
	}
	return nil
}

func (s *TokenStore) key(salt []byte) []byte {
	return pbkdf2.Key(s.passphrase, salt, keyIterations, keyLength, sha256.New)
}

func (s *TokenStore) gcm(salt []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key(salt))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (s *TokenStore) encrypt(salt []byte, plaintext string) (string, error) {
	gcm, err := s.gcm(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (s *TokenStore) decrypt(salt []byte, ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}

	gcm, err := s.gcm(salt)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
