package main

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha512"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/hkdf"
)

const (
	// hkdfSalt binds derived keys to this store format
	hkdfSalt = "ciphora-identity-v1"

	keySize   = 32
	nonceSize = 12
)

var (
	ErrNoIdentity    = errors.New("no stored identity")
	ErrBadPassphrase = errors.New("bad passphrase")
)

// identityStore persists the armored identity key pair encrypted at rest.
// The file is nonce || AES-256-GCM ciphertext of the JSON record, with the
// key derived from the user's passphrase.
type identityStore struct {
	dir string
}

type storedIdentity struct {
	PublicKeyArmored  string `json:"publicKeyArmored"`
	PrivateKeyArmored string `json:"privateKeyArmored"`
}

func newIdentityStore(dir string) *identityStore {
	return &identityStore{dir: dir}
}

func (st *identityStore) path() string {
	return filepath.Join(st.dir, "identity.enc")
}

// Exists reports whether an identity has been stored. It says nothing about
// whether any given passphrase can unlock it.
func (st *identityStore) Exists() bool {
	info, err := os.Stat(st.path())
	return err == nil && !info.IsDir()
}

// Save encrypts and writes the identity with restrictive permissions
func (st *identityStore) Save(id storedIdentity, passphrase string) error {
	if err := os.MkdirAll(st.dir, 0700); err != nil {
		return fmt.Errorf("failed to create identity dir: %w", err)
	}

	plaintext, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}

	gcm, err := newCipher(passphrase)
	if err != nil {
		return err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	data := gcm.Seal(nonce, nonce, plaintext, nil)
	if err := os.WriteFile(st.path(), data, 0600); err != nil {
		return fmt.Errorf("failed to write identity file: %w", err)
	}
	return nil
}

// Load decrypts the stored identity. A GCM authentication failure means the
// passphrase is wrong.
func (st *identityStore) Load(passphrase string) (storedIdentity, error) {
	data, err := os.ReadFile(st.path())
	if err != nil {
		if os.IsNotExist(err) {
			return storedIdentity{}, ErrNoIdentity
		}
		return storedIdentity{}, fmt.Errorf("failed to read identity file: %w", err)
	}
	if len(data) < nonceSize {
		return storedIdentity{}, fmt.Errorf("identity file truncated")
	}

	gcm, err := newCipher(passphrase)
	if err != nil {
		return storedIdentity{}, err
	}

	plaintext, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return storedIdentity{}, ErrBadPassphrase
	}

	var id storedIdentity
	if err := json.Unmarshal(plaintext, &id); err != nil {
		return storedIdentity{}, fmt.Errorf("failed to decode identity: %w", err)
	}
	return id, nil
}

// Delete removes the stored identity
func (st *identityStore) Delete() error {
	err := os.Remove(st.path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func newCipher(passphrase string) (cipher.AEAD, error) {
	key := make([]byte, keySize)
	kdf := hkdf.New(sha512.New, []byte(passphrase), []byte(hkdfSalt), nil)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("key derivation failed: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
